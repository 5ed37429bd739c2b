package ticket

import "github.com/aalvaropc/testdeck/internal/domain"

// RunActive reports whether a run-all-tests ticket for the workspace is
// still pending. Tickets of other actions never count.
func RunActive(l Ledger, workspaceID string) bool {
	for _, t := range l.live {
		if t.Scope.Action == domain.ActionRunAllTests &&
			t.Scope.WorkspaceID == workspaceID &&
			t.State.Pending() {
			return true
		}
	}
	return false
}

// Submitting reports whether a ticket of the given action for the
// workspace is in the Submitting state.
func Submitting(l Ledger, workspaceID string, action domain.ActionKind) bool {
	for _, t := range l.live {
		if t.Scope.Action == action &&
			t.Scope.WorkspaceID == workspaceID &&
			t.State == domain.TicketSubmitting {
			return true
		}
	}
	return false
}

// PendingFor reports whether any ticket matching the scope's action and
// set ids is pending. Empty ids in want match anything.
func PendingFor(l Ledger, want domain.Scope) bool {
	for _, t := range l.live {
		if t.State.Pending() && scopeMatches(t.Scope, want) {
			return true
		}
	}
	return false
}

func scopeMatches(got, want domain.Scope) bool {
	if got.Action != want.Action {
		return false
	}
	pairs := [][2]string{
		{got.OrganizationID, want.OrganizationID},
		{got.ProjectID, want.ProjectID},
		{got.WorkspaceID, want.WorkspaceID},
		{got.SuiteID, want.SuiteID},
		{got.EnvironmentID, want.EnvironmentID},
	}
	for _, p := range pairs {
		if p[1] != "" && p[0] != p[1] {
			return false
		}
	}
	return true
}
