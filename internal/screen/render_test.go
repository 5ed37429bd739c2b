package screen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/ticket"
)

const (
	org = "org_1"
	prj = "proj_1"
	wrk = "wrk_1"
)

var base = domain.Environment{ID: "env_base", Name: "Base Environment", Color: "#0f0"}

func runIssued(id string) ticket.Event {
	return ticket.Event{
		Kind:     ticket.Issued,
		TicketID: id,
		Scope:    domain.Scope{Action: domain.ActionRunAllTests, WorkspaceID: wrk, SuiteID: "s1"},
	}
}

func input(path string, l ticket.Ledger) Input {
	return Input{
		Path:            path,
		Ledger:          l,
		Suites:          []domain.TestSuite{{ID: "s1", Name: "Auth"}},
		BaseEnvironment: base,
		Project:         domain.Project{ID: prj, Name: "Payments", OrganizationID: org},
	}
}

func TestRender_ScenarioA_RunSubmitting(t *testing.T) {
	l := ticket.Reduce(runIssued("t1"))

	v, err := Render(input(route.TestPath(org, prj, wrk), l))
	require.NoError(t, err)

	require.Len(t, v.Suites, 1)
	require.Equal(t, RunningLabel, v.Suites[0].Run.Label)
	require.True(t, v.Suites[0].Run.Disabled)
	require.True(t, v.Suites[0].Run.StayOpen)
	require.Equal(t, PaneRunning, v.PaneTwo.Kind)
	require.Equal(t, PaneNoSuite, v.PaneOne.Kind)
}

func TestRender_ScenarioB_RunFinished(t *testing.T) {
	l := ticket.Reduce(runIssued("t1"), ticket.Event{Kind: ticket.Completed, TicketID: "t1"})

	v, err := Render(input(route.TestPath(org, prj, wrk), l))
	require.NoError(t, err)

	require.Equal(t, RunTestsLabel, v.Suites[0].Run.Label)
	require.False(t, v.Suites[0].Run.Disabled)
	require.Equal(t, PaneNoResults, v.PaneTwo.Kind)
	require.Equal(t, NoResultsMessage, v.PaneTwo.Message)
}

func TestRender_LoadingRunKeepsRunningPane(t *testing.T) {
	ev := runIssued("t1")
	ev.Kind = ticket.Progressed
	l := ticket.Reduce(runIssued("t1"), ev)

	v, err := Render(input(route.TestPath(org, prj, wrk), l))
	require.NoError(t, err)

	require.Equal(t, RunTestsLabel, v.Suites[0].Run.Label)
	require.Equal(t, PaneRunning, v.PaneTwo.Kind)
}

func TestRender_ScenarioD_ResultPrecedence(t *testing.T) {
	path := route.ResultPath(org, prj, wrk, "s1", "r1")

	v, err := Render(input(path, ticket.Ledger{}))
	require.NoError(t, err)
	require.Equal(t, PaneResult, v.PaneTwo.Kind)
	require.Equal(t, "r1", v.PaneTwo.ResultID)
	require.Equal(t, PaneSuiteDetail, v.PaneOne.Kind)
	require.Equal(t, "Auth", v.PaneOne.Suite.Name)

	v, err = Render(input(path, ticket.Reduce(runIssued("t1"))))
	require.NoError(t, err)
	require.Equal(t, PaneRunning, v.PaneTwo.Kind)
	require.Empty(t, v.PaneTwo.ResultID)
}

func TestRender_RunInOtherWorkspaceIgnored(t *testing.T) {
	ev := runIssued("t1")
	ev.Scope.WorkspaceID = "wrk_other"

	v, err := Render(input(route.TestPath(org, prj, wrk), ticket.Reduce(ev)))
	require.NoError(t, err)
	require.False(t, v.RunActive)
	require.Equal(t, RunTestsLabel, v.Suites[0].Run.Label)
}

func TestRender_UnknownSuiteFallsBack(t *testing.T) {
	v, err := Render(input(route.SuitePath(org, prj, wrk, "missing"), ticket.Ledger{}))
	require.NoError(t, err)
	require.Equal(t, PaneNoSuite, v.PaneOne.Kind)
	require.Equal(t, NoSuiteSelectedMessage, v.PaneOne.Message)
	require.False(t, v.Suites[0].Active)
}

func TestRender_MissingWorkspace(t *testing.T) {
	_, err := Render(input(route.ProjectPath(org, prj), ticket.Ledger{}))
	require.True(t, errors.Is(err, route.ErrMissingWorkspace))
	require.True(t, domain.IsKind(err, domain.KindPrecondition))
}

func TestRender_SuiteOrderStable(t *testing.T) {
	in := input(route.SuitePath(org, prj, wrk, "b"), ticket.Ledger{})
	in.Suites = []domain.TestSuite{{ID: "c", Name: "Zeta"}, {ID: "a", Name: "Alpha"}, {ID: "b", Name: "Mid"}}

	first, err := Render(in)
	require.NoError(t, err)
	second, err := Render(in)
	require.NoError(t, err)

	require.Equal(t, first.Suites, second.Suites)
	ids := []string{}
	for _, r := range first.Suites {
		ids = append(ids, r.ID)
	}
	require.Equal(t, []string{"c", "a", "b"}, ids)
	require.True(t, first.Suites[2].Active)
	require.Equal(t, route.SuitePath(org, prj, wrk, "a"), first.Suites[1].Path)
}

func TestRender_BreadcrumbAndMenu(t *testing.T) {
	in := input(route.TestPath(org, prj, wrk), ticket.Ledger{})
	in.WorkspaceName = "API"

	v, err := Render(in)
	require.NoError(t, err)
	require.Equal(t, Breadcrumb{Project: "Payments", Workspace: "API", Path: route.ProjectPath(org, prj), Icon: GlyphBack}, v.Breadcrumb)
	require.Len(t, v.ProjectMenu, 2)
}
