package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/screen"
)

func (m model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != nil {
		pm, answer, cmd := m.prompt.update(msg)
		if answer == nil {
			m.prompt = &pm
			return m, cmd
		}
		pm.req.answer(*answer)
		m.prompt = nil
		return m.popPrompt()
	}

	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	v, err := m.screen()
	if err != nil {
		return m.onProjectKey(msg)
	}

	if m.menu != menuNone {
		return m.onMenuKey(msg, v)
	}
	if m.modals.Any() {
		return m.onModalKey(msg, v)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, len(v.Suites))

	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, len(v.Suites))

	case key.Matches(msg, m.keys.Select):
		if row, ok := m.cursorRow(v); ok {
			m.path = row.Path
			cmd := m.syncResult()
			return m, cmd
		}

	case key.Matches(msg, m.keys.Run):
		row, ok := m.cursorRow(v)
		if !ok || row.Run.Disabled {
			return m, nil
		}
		m.path = row.Path
		return m, cmdRunAllTests(m.ctx, m.deps, route.DeriveSelection(row.Path), row.ID)

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.cursorRow(v)
		if !ok || row.Delete.Disabled {
			return m, nil
		}
		suite, _ := domain.FindSuite(m.suites, row.ID)
		return m, cmdDeleteSuite(m.ctx, m.deps, v.Selection, suite)

	case key.Matches(msg, m.keys.New):
		if v.CreateSuite.Disabled {
			return m, nil
		}
		return m, cmdCreateSuite(m.ctx, m.deps, v.Selection)

	case key.Matches(msg, m.keys.Env):
		m.menu = menuEnvironments
		m.menuCursor = 0
		for i, o := range v.Environment.Options {
			if o.ID == v.Environment.Active.ID {
				m.menuCursor = i
			}
		}

	case key.Matches(msg, m.keys.ManageEnvs):
		m.modals = m.modals.Toggle(screen.ModalEnvironments)

	case key.Matches(msg, m.keys.Cookies):
		m.modals = m.modals.Toggle(screen.ModalCookies)

	case key.Matches(msg, m.keys.Settings):
		m.modals = m.modals.Toggle(screen.ModalSettings)

	case key.Matches(msg, m.keys.Project):
		m.menu = menuProject
		m.menuCursor = 0

	case key.Matches(msg, m.keys.Back):
		m.path = v.Breadcrumb.Path

	case key.Matches(msg, m.keys.ScrollUp):
		m.results.HalfViewUp()

	case key.Matches(msg, m.keys.ScrollDown):
		m.results.HalfViewDown()
	}
	return m, nil
}

func (m model) onMenuKey(msg tea.KeyMsg, v screen.View) (tea.Model, tea.Cmd) {
	n := len(v.Environment.Options)
	if m.menu == menuProject {
		n = len(v.ProjectMenu)
	}

	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Quit):
		m.menu = menuNone

	case key.Matches(msg, m.keys.Up):
		m.menuCursor = clamp(m.menuCursor-1, n)

	case key.Matches(msg, m.keys.Down):
		m.menuCursor = clamp(m.menuCursor+1, n)

	case key.Matches(msg, m.keys.Select):
		which := m.menu
		m.menu = menuNone
		if which == menuEnvironments {
			return m.selectEnvironment(v, v.Environment.Options[m.menuCursor])
		}
		return m.fireProjectItem(v.ProjectMenu[m.menuCursor], m.project)
	}
	return m, nil
}

// selectEnvironment shows the choice at once and issues the ticket.
func (m model) selectEnvironment(v screen.View, opt screen.EnvironmentOption) (tea.Model, tea.Cmd) {
	if opt.ID == v.Environment.Active.ID {
		return m, nil
	}
	m.activeID = opt.ID
	return m, cmdSetActiveEnvironment(m.ctx, m.deps, v.Selection, opt.ID)
}

func (m model) fireProjectItem(it screen.MenuItem, p domain.Project) (tea.Model, tea.Cmd) {
	if it.Disabled {
		return m, nil
	}
	if it.Action == domain.ActionDeleteProject {
		return m, cmdDeleteProject(m.ctx, m.deps, p)
	}
	m.modals = m.modals.Open(screen.ModalSettings)
	return m, nil
}

func (m model) onModalKey(msg tea.KeyMsg, v screen.View) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Quit):
		m.modals = screen.Modals{}
		return m, nil
	case key.Matches(msg, m.keys.ManageEnvs):
		m.modals = m.modals.Toggle(screen.ModalEnvironments)
		return m, nil
	case key.Matches(msg, m.keys.Cookies):
		m.modals = m.modals.Toggle(screen.ModalCookies)
		return m, nil
	case key.Matches(msg, m.keys.Settings):
		m.modals = m.modals.Toggle(screen.ModalSettings)
		return m, nil
	}

	if !m.modals.Settings {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.projectCursor = clamp(m.projectCursor-1, len(m.projects))
	case key.Matches(msg, m.keys.Down):
		m.projectCursor = clamp(m.projectCursor+1, len(m.projects))
	case key.Matches(msg, m.keys.Delete):
		if len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.projectCursor]
		for _, it := range screen.ProjectMenu(p) {
			if it.Action == domain.ActionDeleteProject {
				return m.fireProjectItem(it, p)
			}
		}
		return m.showToast(userMessage(&domain.OpError{Op: "tui.delete_project", Kind: domain.KindPrecondition, Err: domain.ErrDefaultProject}))
	}
	return m, nil
}

// onProjectKey handles the project overview shown for paths without a
// workspace.
func (m model) onProjectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Select):
		sel := route.DeriveSelection(m.path)
		w := m.deps.Config.Workspace
		if sel.OrganizationID == "" || sel.ProjectID == "" {
			sel.OrganizationID, sel.ProjectID = w.OrganizationID, w.ProjectID
		}
		m.path = route.TestPath(sel.OrganizationID, sel.ProjectID, w.WorkspaceID)
		cmd := m.syncResult()
		return m, cmd
	}
	return m, nil
}

func (m model) cursorRow(v screen.View) (screen.SuiteRow, bool) {
	if len(v.Suites) == 0 {
		return screen.SuiteRow{}, false
	}
	return v.Suites[clamp(m.cursor, len(v.Suites))], true
}
