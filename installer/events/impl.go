package events

func (channel *Channel) send(event Event) {
	select {
	case channel.events <- event:
	default: // Mailbox full: losing a progress tick is harmless.
	}
}

func (channel *Channel) sendTerminal(event Event) {
	channel.events <- event
	<-channel.drained
}

func (channel *Channel) acknowledgeDrain() {
	select {
	case channel.drained <- struct{}{}:
	default: // No terminal producer waiting: tolerate spurious acks.
	}
}
