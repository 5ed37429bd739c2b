package ticket

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/pubsub"
)

// Operation performs the mutation behind a ticket. Calling progress moves
// the ticket to Loading; calling it more than once has no effect. The
// returned output is attached to the Completed event.
type Operation func(ctx context.Context, progress func()) (output string, err error)

// Dispatcher issues tickets and publishes their lifecycle events.
type Dispatcher struct {
	broker *pubsub.Broker[Event]
	log    *slog.Logger
	now    func() time.Time
	newID  func() string

	wg sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger for ticket lifecycle records.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithClock sets the clock stamped into IssuedAt.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDs replaces the UUIDv4 ticket id generator.
func WithIDs(gen func() string) DispatcherOption {
	return func(d *Dispatcher) {
		if gen != nil {
			d.newID = gen
		}
	}
}

// NewDispatcher returns a dispatcher whose broker delivers every event to
// every subscriber.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		broker: pubsub.NewBroker[Event](pubsub.WithLossless()),
		log:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe returns every event published after the call. Delivery blocks
// the operation until the subscriber receives the event or ctx ends.
func (d *Dispatcher) Subscribe(ctx context.Context) <-chan pubsub.Event[Event] {
	return d.broker.Subscribe(ctx)
}

// Broker exposes the event source for Bubble Tea listeners.
func (d *Dispatcher) Broker() pubsub.Subscriber[Event] {
	return d.broker
}

// Issue creates a ticket for scope, publishes Issued and runs op in the
// background. The returned ticket is in the Submitting state.
func (d *Dispatcher) Issue(ctx context.Context, scope domain.Scope, op Operation) domain.Ticket {
	t := domain.Ticket{
		ID:       d.newID(),
		Scope:    scope,
		State:    domain.TicketSubmitting,
		IssuedAt: d.now(),
	}

	d.log.Info("ticket.issued",
		"ticket_id", t.ID,
		"action", string(scope.Action),
		"workspace_id", scope.WorkspaceID,
	)
	d.publish(t, Issued, "", nil)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		var once sync.Once
		progress := func() {
			once.Do(func() {
				d.log.Debug("ticket.progressed", "ticket_id", t.ID)
				d.publish(t, Progressed, "", nil)
			})
		}

		out, err := run(ctx, op, progress)
		if err != nil {
			kind, _ := domain.KindOf(err)
			d.log.Warn("ticket.failed",
				"ticket_id", t.ID,
				"action", string(scope.Action),
				"kind", string(kind),
				"retryable", kind.Retryable(),
				"err", err.Error(),
			)
			d.publish(t, Failed, "", err)
			return
		}

		d.log.Info("ticket.completed",
			"ticket_id", t.ID,
			"action", string(scope.Action),
			"output", out,
		)
		d.publish(t, Completed, out, nil)
	}()

	return t
}

// Wait blocks until every issued operation has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close waits for running operations and closes all subscriptions.
func (d *Dispatcher) Close() {
	d.wg.Wait()
	d.broker.Close()
}

func (d *Dispatcher) publish(t domain.Ticket, kind Kind, output string, err error) {
	eventType := pubsub.UpdatedEvent
	switch kind {
	case Issued:
		eventType = pubsub.CreatedEvent
	case Completed, Failed:
		eventType = pubsub.DeletedEvent
	}

	d.broker.Publish(eventType, Event{
		Kind:     kind,
		TicketID: t.ID,
		Scope:    t.Scope,
		IssuedAt: t.IssuedAt,
		At:       d.now(),
		Output:   output,
		Err:      err,
	})
}

// run shields the dispatcher from panicking operations.
func run(ctx context.Context, op Operation, progress func()) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.OpError{
				Op:   "ticket.run",
				Kind: domain.KindExecution,
				Err:  fmt.Errorf("operation panicked: %v", r),
			}
		}
	}()
	return op(ctx, progress)
}
