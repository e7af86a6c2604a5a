package eventbus

import (
	"context"
	"errors"
	"sync"

	"anime-news/config"
)

// ErrQueueFull is returned by MemoryBus.Publish when the topic queue has no room.
var ErrQueueFull = errors.New("eventbus: memory queue full")

// MemoryBus is an in-process EventBus. Published events are buffered per topic
// and handed to subscribers of that topic. Used when Kafka is disabled and in tests.
type MemoryBus struct {
	mu        sync.Mutex
	published []Published
	record    bool
	dropped   int
	queues    map[string]chan Event
	closed    bool
	buffer    int
}

type MemoryOption func(*MemoryBus)

// WithRecording keeps every Publish call for Published. Off by default.
func WithRecording() MemoryOption { return func(b *MemoryBus) { b.record = true } }

// Published is one recorded Publish call.
type Published struct {
	Topic string
	Event Event
}

var _ EventBus = (*MemoryBus)(nil)

func NewMemoryBus(buffer int, opts ...MemoryOption) *MemoryBus {
	if buffer <= 0 {
		buffer = 256
	}
	b := &MemoryBus{queues: make(map[string]chan Event), buffer: buffer}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *MemoryBus) queue(topic string) chan Event {
	q, ok := b.queues[topic]
	if !ok {
		q = make(chan Event, b.buffer)
		b.queues[topic] = q
	}
	return q
}

// Publish enqueues evt, recording it first when WithRecording is set.
// A full queue drops the event and returns ErrQueueFull.
func (b *MemoryBus) Publish(ctx context.Context, topic string, evt Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if b.record {
		b.published = append(b.published, Published{Topic: topic, Event: evt})
	}
	select {
	case b.queue(topic) <- evt:
		return nil
	default:
		b.dropped++
		return ErrQueueFull
	}
}

func (b *MemoryBus) Subscribe(ctx context.Context, _ string, topic Topic, handler EventHandler) error {
	b.mu.Lock()
	q := b.queue(topic.Base())
	b.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-q:
			if !ok {
				return ErrClosed
			}
			if herr := handler(ctx, evt); herr != nil {
				next, _ := nextTopic(topic, &evt, herr)
				err := b.Publish(ctx, next, evt)
				if errors.Is(err, ErrQueueFull) {
					config.Logger.Warnf("eventbus: memory queue %s full, dropping %s", next, evt.ID)
				} else if err != nil {
					return err
				}
			}
		}
	}
}

// Dropped reports how many events were dropped on a full queue.
func (b *MemoryBus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Published returns a copy of every recorded Publish call. Empty unless WithRecording is set.
func (b *MemoryBus) Published() []Published {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Published(nil), b.published...)
}

func (b *MemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, q := range b.queues {
		close(q)
	}
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
func (NopPublisher) Close()                                       {}
