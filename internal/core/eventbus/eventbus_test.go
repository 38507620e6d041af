package eventbus

import "testing"

func TestSubscribe_ReceivesPublishedEvent(t *testing.T) {
	b := New()
	sub := b.Subscribe()

	b.Publish(Event{Type: PipelineStarted, PipelineID: "p1"})

	select {
	case ev := <-sub.C:
		if ev.Type != PipelineStarted || ev.PipelineID != "p1" {
			t.Errorf("got %+v, want PipelineStarted/p1", ev)
		}
	default:
		t.Fatal("expected an event on the subscriber channel")
	}
}

func TestPublish_FansOutToEverySubscriber(t *testing.T) {
	b := New()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(Event{Type: StageStarted})

	for _, sub := range []*Subscriber{a, c} {
		select {
		case <-sub.C:
		default:
			t.Error("expected every subscriber to receive the published event")
		}
	}
}

func TestPublish_DropsOldestWhenQueueFull(t *testing.T) {
	b := New()
	sub := b.Subscribe()

	for i := 0; i < defaultQueueSize+10; i++ {
		b.Publish(Event{Type: StageProgress, StageID: string(rune('a' + i%26))})
	}

	if len(sub.C) != defaultQueueSize {
		t.Fatalf("queue length = %d, want full queue of %d (no panic, no unbounded growth)", len(sub.C), defaultQueueSize)
	}

	first := <-sub.C
	if first.StageID == "a" {
		t.Error("expected the oldest event to have been dropped, but it is still present")
	}
}

func TestUnsubscribe_StopsDeliveryAndClosesChannel(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	b.Publish(Event{Type: PipelineCompleted})

	_, ok := <-sub.C
	if ok {
		t.Error("expected the unsubscribed channel to be closed")
	}
}
