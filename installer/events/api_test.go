package events

import (
	"testing"
	"time"
)

func TestRoutineEventsDroppedWhenFull(t *testing.T) {
	channel := New(2)
	channel.Info("one")
	channel.Info("two")
	channel.Info("three") // Mailbox full: must be dropped, not block.
	if length := len(channel.events); length != 2 {
		t.Fatalf("expected 2 queued events, got %d", length)
	}
	event := <-channel.Events()
	if event.Type != EventInfo || event.Text != "one" {
		t.Errorf("unexpected first event: %+v", event)
	}
	event = <-channel.Events()
	if event.Text != "two" {
		t.Errorf("expected second event, got: %+v", event)
	}
}

func TestPercentCarriesFraction(t *testing.T) {
	channel := New(1)
	channel.Percent(0.25)
	event := <-channel.Events()
	if event.Type != EventPercent || event.Fraction != 0.25 {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestErrorWaitsForDrain(t *testing.T) {
	channel := New(4)
	channel.Info("progress")
	returned := make(chan struct{})
	go func() {
		channel.Error("disk on fire")
		close(returned)
	}()
	select {
	case <-returned:
		t.Fatal("Error() returned before the consumer acknowledged")
	case <-time.After(10 * time.Millisecond):
	}
	var terminal Event
	for event := range channel.Events() {
		terminal = event
		if event.Type == EventError {
			break
		}
	}
	if terminal.Text != "disk on fire" {
		t.Errorf("unexpected terminal event: %+v", terminal)
	}
	channel.AcknowledgeDrain()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Error() did not return after acknowledgement")
	}
}

func TestFinishedDeliveredAfterAck(t *testing.T) {
	channel := New(1)
	go func() {
		event := <-channel.Events()
		if event.Type != EventFinished {
			t.Errorf("unexpected event: %+v", event)
		}
		channel.AcknowledgeDrain()
	}()
	done := make(chan struct{})
	go func() {
		channel.Finished()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Finished() did not complete")
	}
}
