package ticket

import (
	"sort"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// Ledger is the set of live tickets derived from a stream of events.
// The zero value is an empty ledger. Ledgers are immutable: Apply returns
// a new value and never modifies the receiver.
//
// Folding is order independent. A ticket's state only moves forward
// (Submitting before Loading) and a terminal event removes the ticket for
// good, even when it arrives before the ticket was issued.
type Ledger struct {
	live map[string]domain.Ticket
	done map[string]struct{}
}

// Reduce folds events into an empty ledger.
func Reduce(events ...Event) Ledger {
	return Ledger{}.ApplyAll(events...)
}

// ApplyAll folds events in order.
func (l Ledger) ApplyAll(events ...Event) Ledger {
	for _, ev := range events {
		l = l.Apply(ev)
	}
	return l
}

// Apply folds a single event.
func (l Ledger) Apply(ev Event) Ledger {
	if ev.TicketID == "" {
		return l
	}
	if _, finished := l.done[ev.TicketID]; finished {
		return l
	}

	if ev.Kind.Terminal() {
		next := l.clone()
		delete(next.live, ev.TicketID)
		next.done[ev.TicketID] = struct{}{}
		return next
	}

	state := stateOf(ev.Kind)
	if !state.Pending() {
		return l
	}

	cur, ok := l.live[ev.TicketID]
	if ok && cur.State >= state {
		return l
	}

	t := domain.Ticket{
		ID:       ev.TicketID,
		Scope:    ev.Scope,
		State:    state,
		IssuedAt: ev.IssuedAt,
	}
	if ok {
		t.Scope = cur.Scope
		if !cur.IssuedAt.IsZero() {
			t.IssuedAt = cur.IssuedAt
		}
	}

	next := l.clone()
	next.live[t.ID] = t
	return next
}

// Get returns a live ticket.
func (l Ledger) Get(id string) (domain.Ticket, bool) {
	t, ok := l.live[id]
	return t, ok
}

// Len is the number of live tickets.
func (l Ledger) Len() int {
	return len(l.live)
}

// Tickets returns live tickets ordered by issue time, then id.
func (l Ledger) Tickets() []domain.Ticket {
	out := make([]domain.Ticket, 0, len(l.live))
	for _, t := range l.live {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].IssuedAt.Before(out[j].IssuedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (l Ledger) clone() Ledger {
	next := Ledger{
		live: make(map[string]domain.Ticket, len(l.live)+1),
		done: make(map[string]struct{}, len(l.done)+1),
	}
	for k, v := range l.live {
		next.live[k] = v
	}
	for k := range l.done {
		next.done[k] = struct{}{}
	}
	return next
}
