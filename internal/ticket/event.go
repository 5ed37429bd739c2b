// Package ticket tracks in-flight mutations. Every mutation is issued as a
// ticket scoped to the workspace and action it affects; lifecycle changes
// are published as events and folded into a Ledger.
package ticket

import (
	"time"

	"github.com/aalvaropc/testdeck/internal/domain"
)

// Kind tags a lifecycle event.
type Kind int

const (
	Issued Kind = iota + 1
	Progressed
	Completed
	Failed
)

func (k Kind) String() string {
	switch k {
	case Issued:
		return "issued"
	case Progressed:
		return "progressed"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the event ends the ticket.
func (k Kind) Terminal() bool {
	return k == Completed || k == Failed
}

// Event is one lifecycle transition of a ticket. Every event carries the
// ticket's scope so consumers can fold events they never saw issued.
type Event struct {
	Kind     Kind
	TicketID string
	Scope    domain.Scope
	IssuedAt time.Time
	At       time.Time

	// Output is set on Completed, Err on Failed.
	Output string
	Err    error
}

// stateOf maps a non-terminal event to the ticket state it implies.
func stateOf(k Kind) domain.TicketState {
	switch k {
	case Issued:
		return domain.TicketSubmitting
	case Progressed:
		return domain.TicketLoading
	default:
		return domain.TicketIdle
	}
}
