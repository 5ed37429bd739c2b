// Package screen derives the state of the unit test screen from the
// current path, the ticket ledger and the workspace data. Everything here
// is pure: the TUI renders whatever these functions return.
package screen

import (
	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/ticket"
)

const (
	RunTestsLabel    = "Run Tests"
	RunningLabel     = "Running… "
	DeleteSuiteLabel = "Delete Suite"
	NewSuiteLabel    = "New Test Suite"
)

// Glyph names an icon. The TUI theme maps names to runes.
type Glyph string

const (
	GlyphPlay   Glyph = "play"
	GlyphTrash  Glyph = "trash"
	GlyphPlus   Glyph = "plus"
	GlyphCancel Glyph = "cancel"
	GlyphCircle Glyph = "circle"
	GlyphGear   Glyph = "gear"
	GlyphCookie Glyph = "cookie"
	GlyphBack   Glyph = "back"
)

// MenuItem is one entry of a dropdown.
type MenuItem struct {
	Label    string
	Icon     Glyph
	Action   domain.ActionKind
	Disabled bool
	Danger   bool

	// StayOpen keeps the menu open after the item fires.
	StayOpen bool
	// Confirm gates the action behind a confirmation prompt.
	Confirm bool
}

// SuiteRow is one entry of the sidebar.
type SuiteRow struct {
	ID     string
	Name   string
	Path   string
	Active bool

	Run    MenuItem
	Delete MenuItem
}

// SuiteRows builds the sidebar in repository order.
func SuiteRows(suites []domain.TestSuite, sel route.Selection, l ticket.Ledger) []SuiteRow {
	running := ticket.Submitting(l, sel.WorkspaceID, domain.ActionRunAllTests)

	run := MenuItem{
		Label:    RunTestsLabel,
		Icon:     GlyphPlay,
		Action:   domain.ActionRunAllTests,
		StayOpen: true,
	}
	if running {
		run.Label = RunningLabel
		run.Disabled = true
	}

	rows := make([]SuiteRow, 0, len(suites))
	for _, s := range suites {
		rows = append(rows, SuiteRow{
			ID:     s.ID,
			Name:   s.Name,
			Path:   sel.WithSuite(s.ID),
			Active: s.ID == sel.SuiteID,
			Run:    run,
			Delete: MenuItem{
				Label:   DeleteSuiteLabel,
				Icon:    GlyphTrash,
				Action:  domain.ActionDeleteSuite,
				Danger:  true,
				Confirm: true,
			},
		})
	}
	return rows
}

// CreateSuiteItem is the control above the sidebar.
func CreateSuiteItem(l ticket.Ledger, workspaceID string) MenuItem {
	return MenuItem{
		Label:    NewSuiteLabel,
		Icon:     GlyphPlus,
		Action:   domain.ActionCreateSuite,
		Disabled: ticket.Submitting(l, workspaceID, domain.ActionCreateSuite),
	}
}
