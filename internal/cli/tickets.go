package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ticket"
)

var errTicketStreamClosed = errors.New("ticket stream closed before the ticket settled")

// issueAndWait subscribes to the dispatcher, runs issue and blocks until
// the issued ticket settles. issued is false when a prompt was declined.
// onProgress, when set, sees every non-terminal event of the ticket.
func issueAndWait(
	ctx context.Context,
	tickets *ticket.Dispatcher,
	issue func() (domain.Ticket, bool, error),
	onProgress func(ticket.Event),
) (ev ticket.Event, issued bool, err error) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := tickets.Subscribe(subCtx)

	t, issued, err := issue()
	if err != nil || !issued {
		return ticket.Event{}, issued, err
	}

	for {
		select {
		case <-ctx.Done():
			return ticket.Event{}, true, ctx.Err()
		case e, ok := <-events:
			if !ok {
				return ticket.Event{}, true, errTicketStreamClosed
			}
			if e.Payload.TicketID != t.ID {
				continue
			}
			if e.Payload.Kind.Terminal() {
				return e.Payload, true, nil
			}
			if onProgress != nil {
				onProgress(e.Payload)
			}
		}
	}
}

// settled turns a terminal event into the command's error.
func settled(ev ticket.Event) error {
	if ev.Kind == ticket.Failed {
		return fmt.Errorf("%s failed: %w", ev.Scope.Action, ev.Err)
	}
	return nil
}
