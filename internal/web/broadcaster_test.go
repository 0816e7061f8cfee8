package web

import (
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func TestBroadcasterSeedsLastEvent(t *testing.T) {
	b := NewBroadcaster()
	b.Publish(Event{NowUTC: "t1"})

	ch, cancel := b.Subscribe(2)
	defer cancel()

	if ev := recvEvent(t, ch); ev.NowUTC != "t1" {
		t.Fatalf("seed event=%+v", ev)
	}
}

func TestBroadcasterFanout(t *testing.T) {
	b := NewBroadcaster()

	ch1, cancel1 := b.Subscribe(2)
	defer cancel1()
	ch2, cancel2 := b.Subscribe(2)
	defer cancel2()

	b.Publish(Event{NowUTC: "t1"})

	if ev := recvEvent(t, ch1); ev.NowUTC != "t1" {
		t.Fatalf("sub1 event=%+v", ev)
	}
	if ev := recvEvent(t, ch2); ev.NowUTC != "t1" {
		t.Fatalf("sub2 event=%+v", ev)
	}
}

func TestBroadcasterDropsWhenSubscriberLags(t *testing.T) {
	b := NewBroadcaster()

	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(Event{NowUTC: "t1"})
	b.Publish(Event{NowUTC: "t2"})
	b.Publish(Event{NowUTC: "t3"})

	if ev := recvEvent(t, ch); ev.NowUTC != "t1" {
		t.Fatalf("event=%+v", ev)
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected buffered event %+v", ev)
	default:
	}
}

func TestBroadcasterCancelClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(2)
	cancel()
	cancel() // second cancel is a no-op

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}

	// Publishing after cancel must not panic.
	b.Publish(Event{NowUTC: "t1"})
}
