package screen

import (
	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/ticket"
)

// Input is everything the test screen depends on.
type Input struct {
	Path   string
	Ledger ticket.Ledger

	Suites []domain.TestSuite

	BaseEnvironment     domain.Environment
	SubEnvironments     []domain.Environment
	ActiveEnvironmentID string

	CookieJar     domain.CookieJar
	Project       domain.Project
	WorkspaceName string

	Modals Modals
}

// View is the derived screen state.
type View struct {
	Selection route.Selection
	RunActive bool

	Breadcrumb  Breadcrumb
	ProjectMenu []MenuItem

	CreateSuite MenuItem
	Suites      []SuiteRow

	Environment EnvironmentSelector
	Cookies     CookieControl

	PaneOne PaneOne
	PaneTwo PaneTwo

	Modals Modals
}

// Render derives the test screen. A path without a workspace id is a
// precondition failure and yields route.ErrMissingWorkspace.
func Render(in Input) (View, error) {
	sel, err := route.RequireWorkspace(in.Path)
	if err != nil {
		return View{}, err
	}

	runActive := ticket.RunActive(in.Ledger, sel.WorkspaceID)

	return View{
		Selection:   sel,
		RunActive:   runActive,
		Breadcrumb:  BreadcrumbFor(sel, in.Project, in.WorkspaceName),
		ProjectMenu: ProjectMenu(in.Project),
		CreateSuite: CreateSuiteItem(in.Ledger, sel.WorkspaceID),
		Suites:      SuiteRows(in.Suites, sel, in.Ledger),
		Environment: Environments(in.BaseEnvironment, in.SubEnvironments, in.ActiveEnvironmentID, in.Modals.Environments),
		Cookies:     Cookies(in.CookieJar, in.Modals.Cookies),
		PaneOne:     RoutePaneOne(in.Path, in.Suites),
		PaneTwo:     RoutePaneTwo(in.Path, runActive),
		Modals:      in.Modals,
	}, nil
}
