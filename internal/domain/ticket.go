package domain

import "time"

// ActionKind names the mutation a ticket stands for.
type ActionKind string

const (
	ActionCreateSuite          ActionKind = "create-suite"
	ActionDeleteSuite          ActionKind = "delete-suite"
	ActionRunAllTests          ActionKind = "run-all-tests"
	ActionSetActiveEnvironment ActionKind = "set-active-environment"
	ActionDeleteProject        ActionKind = "delete-project"
)

// TicketState is the lifecycle state of an in-flight mutation.
type TicketState int

const (
	TicketIdle TicketState = iota
	TicketSubmitting
	TicketLoading
)

func (s TicketState) String() string {
	switch s {
	case TicketIdle:
		return "idle"
	case TicketSubmitting:
		return "submitting"
	case TicketLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Pending reports whether the state is non-terminal.
func (s TicketState) Pending() bool {
	return s == TicketSubmitting || s == TicketLoading
}

// Scope is fixed when a ticket is issued. Only the fields relevant to the
// action are set.
type Scope struct {
	Action ActionKind

	OrganizationID string
	ProjectID      string
	WorkspaceID    string
	SuiteID        string
	EnvironmentID  string
}

// Ticket is a handle on one asynchronous mutation.
type Ticket struct {
	ID       string
	Scope    Scope
	State    TicketState
	IssuedAt time.Time

	// Output is an action-specific reference produced on completion
	// (the result id of a run, the id of a created suite).
	Output string
	Err    error
}
