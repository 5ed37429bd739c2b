package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Option configures a Broker.
type Option func(*options)

type options struct {
	bufferSize int
	lossless   bool
}

// WithBuffer sets the per-subscriber channel buffer.
func WithBuffer(size int) Option {
	return func(o *options) { o.bufferSize = size }
}

// WithLossless makes Publish wait for every live subscriber instead of
// dropping events on a full channel. Subscribers must keep draining their
// channel or cancel their context.
func WithLossless() Option {
	return func(o *options) { o.lossless = true }
}

// Broker is a generic pub/sub event broker.
type Broker[T any] struct {
	subs map[chan Event[T]]context.Context
	mu   sync.RWMutex
	done chan struct{}
	opts options
	now  func() time.Time
}

// NewBroker creates a new broker. Without options events are dropped for
// subscribers whose buffer (default 64) is full.
func NewBroker[T any](opts ...Option) *Broker[T] {
	o := options{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Broker[T]{
		subs: make(map[chan Event[T]]context.Context),
		done: make(chan struct{}),
		opts: o,
		now:  time.Now,
	}
}

// Subscribe creates a new subscription channel.
// The channel is closed when ctx is cancelled or the broker closes.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], b.opts.bufferSize)
	b.subs[sub] = ctx

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()

		if _, ok := b.subs[sub]; !ok {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish sends an event to all subscribers.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return
	default:
	}

	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: b.now(),
	}

	for sub, ctx := range b.subs {
		if b.opts.lossless {
			select {
			case sub <- event:
			case <-ctx.Done():
			}
			continue
		}
		select {
		case sub <- event:
		default:
			// full: drop rather than block the publisher
		}
	}
}

// Close shuts down the broker and all subscriber channels.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
	}

	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
