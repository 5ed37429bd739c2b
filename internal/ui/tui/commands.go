package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
)

const toastTTL = 4 * time.Second

// cmdLoadWorkspace reads everything the test screen shows.
func cmdLoadWorkspace(ctx context.Context, deps Deps, sel route.Selection) tea.Cmd {
	return func() tea.Msg {
		ws := sel.WorkspaceID
		if ws == "" {
			ws = deps.Config.Workspace.WorkspaceID
		}
		org := sel.OrganizationID
		if org == "" {
			org = deps.Config.Workspace.OrganizationID
		}
		projectID := sel.ProjectID
		if projectID == "" {
			projectID = deps.Config.Workspace.ProjectID
		}

		var msg workspaceLoadedMsg
		var err error

		if msg.suites, err = deps.Workbench.ListTestSuites(ctx, route.Selection{WorkspaceID: ws}); err != nil {
			return workspaceLoadedMsg{err: err}
		}
		if msg.base, err = deps.Envs.BaseEnvironment(ctx, ws); err != nil {
			return workspaceLoadedMsg{err: err}
		}
		if msg.subs, err = deps.Envs.SubEnvironments(ctx, ws); err != nil {
			return workspaceLoadedMsg{err: err}
		}
		if msg.activeID, err = deps.Envs.ActiveEnvironmentID(ctx, ws); err != nil {
			return workspaceLoadedMsg{err: err}
		}
		if msg.jar, err = deps.Cookies.ActiveCookieJar(ctx, ws); err != nil {
			return workspaceLoadedMsg{err: err}
		}
		if msg.projects, err = deps.Projects.ListProjects(ctx, org); err != nil {
			return workspaceLoadedMsg{err: err}
		}
		for _, p := range msg.projects {
			if p.ID == projectID {
				msg.project = p
			}
		}
		if msg.project.ID == "" {
			msg.project = domain.Project{ID: projectID, OrganizationID: org}
		}
		return msg
	}
}

func cmdLoadResult(deps Deps, id string) tea.Cmd {
	return func() tea.Msg {
		res, err := deps.Results.GetResult(id)
		return resultLoadedMsg{id: id, result: res, err: err}
	}
}

func cmdRunAllTests(ctx context.Context, deps Deps, sel route.Selection, suiteID string) tea.Cmd {
	return func() tea.Msg {
		t := deps.Workbench.RunAllTests(ctx, sel, suiteID)
		return issuedMsg{action: domain.ActionRunAllTests, ticket: t, issued: true}
	}
}

func cmdCreateSuite(ctx context.Context, deps Deps, sel route.Selection) tea.Cmd {
	return func() tea.Msg {
		t, ok, err := deps.Workbench.CreateSuite(ctx, sel)
		return issuedMsg{action: domain.ActionCreateSuite, ticket: t, issued: ok, err: err}
	}
}

func cmdDeleteSuite(ctx context.Context, deps Deps, sel route.Selection, suite domain.TestSuite) tea.Cmd {
	return func() tea.Msg {
		t, ok, err := deps.Workbench.DeleteSuite(ctx, sel, suite)
		return issuedMsg{action: domain.ActionDeleteSuite, ticket: t, issued: ok, err: err}
	}
}

func cmdSetActiveEnvironment(ctx context.Context, deps Deps, sel route.Selection, envID string) tea.Cmd {
	return func() tea.Msg {
		t := deps.Workbench.SetActiveEnvironment(ctx, sel, envID)
		return issuedMsg{action: domain.ActionSetActiveEnvironment, ticket: t, issued: true}
	}
}

func cmdDeleteProject(ctx context.Context, deps Deps, project domain.Project) tea.Cmd {
	return func() tea.Msg {
		t, ok, err := deps.Workbench.DeleteProject(ctx, project)
		return issuedMsg{action: domain.ActionDeleteProject, ticket: t, issued: ok, err: err}
	}
}

func cmdWaitChanges(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return filesChangedMsg{}
		}
	}
}

func cmdExpireToast(seq int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
