// Package eventbus implements spec.md §4.6/§9's in-process publish/subscribe
// bus: bounded per-subscriber queues with drop-oldest backpressure, since
// the pipeline object itself remains the source of truth and a dropped
// event is acceptable (§4.6 "Delivery is at-most-once per subscriber;
// dropped events are acceptable").
package eventbus

import "sync"

// EventType is one of the fixed event kinds published during a run.
type EventType string

const (
	StageStarted      EventType = "STAGE_STARTED"
	StageProgress     EventType = "STAGE_PROGRESS"
	StageCompleted    EventType = "STAGE_COMPLETED"
	StageFailed       EventType = "STAGE_FAILED"
	PipelineStarted   EventType = "PIPELINE_STARTED"
	PipelineCompleted EventType = "PIPELINE_COMPLETED"
	PipelineFailed    EventType = "PIPELINE_FAILED"
)

// Event is one immutable notification on the bus.
type Event struct {
	Type       EventType
	PipelineID string
	StageID    string // empty for pipeline-level events
	Timestamp  int64  // epoch-ms
	Payload    any
}

const defaultQueueSize = 64

// Subscriber receives a bounded, drop-oldest queue of events. Callers read
// from C; the bus never blocks publishing to a full queue.
type Subscriber struct {
	C chan Event
}

// Bus is a thread-safe in-process publish/subscribe hub (§5 "The Event Bus
// is thread-safe").
type Bus struct {
	mu          sync.Mutex
	subscribers []*Subscriber
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a new Subscriber with a bounded queue.
func (b *Bus) Subscribe() *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &Subscriber{C: make(chan Event, defaultQueueSize)}
	b.subscribers = append(b.subscribers, s)
	return s
}

// Unsubscribe removes s from the bus and closes its channel.
func (b *Bus) Unsubscribe(s *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == s {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub.C)
			return
		}
	}
}

// Publish fans out ev to every subscriber. If a subscriber's queue is full,
// the oldest queued event is dropped to make room (drop-oldest
// backpressure) rather than blocking the publisher (§5 "subscriber
// callbacks must be non-blocking"). Publish may be called from several
// goroutines at once (stage progress can arrive from optimizer worker
// goroutines); calls are serialized under the bus lock.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subscribers {
		select {
		case s.C <- ev:
		default:
			select {
			case <-s.C:
			default:
			}
			select {
			case s.C <- ev:
			default:
			}
		}
	}
}
