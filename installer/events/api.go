/*
Package events provides the status mailbox between the installation worker
and its single observer (a UI, a logger or a test harness).

The mailbox is bounded and the producer never blocks on routine status:
events which do not fit are dropped. The terminal Error and Finished events
are guaranteed to be delivered, and the producer waits until the observer
acknowledges that it has drained the mailbox before returning.
*/
package events

import (
	"github.com/Cloud-Foundations/tricorder/go/tricorder"
	"github.com/Cloud-Foundations/tricorder/go/tricorder/units"
)

type EventType uint

const (
	EventInfo EventType = iota
	EventDebug
	EventWarning
	EventError
	EventPercent
	EventPulse
	EventFinished
)

// Event is an immutable status record. Text is set for the textual event
// types, Fraction (in [0.0, 1.0]) for EventPercent.
type Event struct {
	Type     EventType
	Text     string
	Fraction float64
}

type Channel struct {
	events  chan Event
	drained chan struct{}
}

// New creates a mailbox holding at most capacity undelivered events.
func New(capacity uint) *Channel {
	channel := &Channel{
		events:  make(chan Event, capacity),
		drained: make(chan struct{}, 1),
	}
	tricorder.RegisterMetric("/installer/event-queue-length",
		func() uint { return uint(len(channel.events)) },
		units.None, "number of undelivered status events")
	return channel
}

// Events returns the receive side of the mailbox. There must be exactly one
// consumer. After receiving an EventError or EventFinished event the
// consumer must call AcknowledgeDrain and expect no further events.
func (channel *Channel) Events() <-chan Event {
	return channel.events
}

// AcknowledgeDrain signals that the consumer has drained the mailbox after
// a terminal event. It unblocks the producer side.
func (channel *Channel) AcknowledgeDrain() {
	channel.acknowledgeDrain()
}

// Info enqueues an informational message. It is dropped if the mailbox is
// full.
func (channel *Channel) Info(text string) {
	channel.send(Event{Type: EventInfo, Text: text})
}

// Debug enqueues a debugging message. It is dropped if the mailbox is full.
func (channel *Channel) Debug(text string) {
	channel.send(Event{Type: EventDebug, Text: text})
}

// Warning enqueues a recoverable-problem message. It is dropped if the
// mailbox is full.
func (channel *Channel) Warning(text string) {
	channel.send(Event{Type: EventWarning, Text: text})
}

// Percent enqueues a progress fraction in [0.0, 1.0]. It is dropped if the
// mailbox is full.
func (channel *Channel) Percent(fraction float64) {
	channel.send(Event{Type: EventPercent, Fraction: fraction})
}

// Pulse enqueues an activity tick for indeterminate progress. It is dropped
// if the mailbox is full.
func (channel *Channel) Pulse() {
	channel.send(Event{Type: EventPulse})
}

// Error delivers a fatal diagnostic. Unlike the routine events it is never
// dropped: Error blocks until the event is enqueued and the consumer has
// acknowledged draining the mailbox. It must be the last event sent.
func (channel *Channel) Error(text string) {
	channel.sendTerminal(Event{Type: EventError, Text: text})
}

// Finished delivers the success verdict, with the same guaranteed delivery
// as Error. It must be the last event sent.
func (channel *Channel) Finished() {
	channel.sendTerminal(Event{Type: EventFinished})
}
