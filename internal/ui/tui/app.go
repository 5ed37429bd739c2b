// Package tui is the interactive unit test screen.
package tui

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/pubsub"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/screen"
	"github.com/aalvaropc/testdeck/internal/ticket"
)

type menuKind int

const (
	menuNone menuKind = iota
	menuEnvironments
	menuProject
)

const sidebarWidth = 32

type model struct {
	ctx   context.Context
	deps  Deps
	theme Theme
	keys  keyMap
	log   *slog.Logger

	width  int
	height int

	path    string
	ledger  ticket.Ledger
	tickets *pubsub.ContinuousListener[ticket.Event]

	loaded   bool
	loadErr  error
	suites   []domain.TestSuite
	base     domain.Environment
	subs     []domain.Environment
	activeID string
	jar      domain.CookieJar
	project  domain.Project
	projects []domain.Project

	// envFallback is the last confirmed environment; a failed selection
	// reverts to it.
	envFallback string

	cursor        int
	projectCursor int
	modals        screen.Modals
	menu          menuKind
	menuCursor    int
	prompt        *promptModal
	// queued holds questions that arrived while prompt was on screen.
	queued []promptRequest

	resultID  string
	result    domain.TestResult
	resultErr error
	results   viewport.Model

	spin     spinner.Model
	help     help.Model
	toast    string
	toastSeq int
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(ctx, deps)
	p := tea.NewProgram(wrapSafe(m, m.log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newModel(ctx context.Context, deps Deps) model {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	path := deps.InitialPath
	if path == "" {
		w := deps.Config.Workspace
		path = route.TestPath(w.OrganizationID, w.ProjectID, w.WorkspaceID)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		ctx:     ctx,
		deps:    deps,
		theme:   DefaultTheme(),
		keys:    defaultKeys(),
		log:     log,
		path:    path,
		tickets: pubsub.NewContinuousListener(ctx, deps.Tickets),
		results: viewport.New(40, 10),
		spin:    sp,
		help:    help.New(),
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.tickets.Listen(),
		cmdLoadWorkspace(m.ctx, m.deps, route.DeriveSelection(m.path)),
		m.spin.Tick,
		cmdWaitChanges(m.ctx, m.deps.Changes),
	}
	if m.deps.Prompter != nil {
		cmds = append(cmds, m.deps.Prompter.next(m.ctx))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeResults()
		return m, nil

	case workspaceLoadedMsg:
		return m.onWorkspaceLoaded(msg)

	case resultLoadedMsg:
		if msg.id != m.resultID {
			return m, nil
		}
		m.result, m.resultErr = msg.result, msg.err
		if msg.err == nil {
			m.results.SetContent(renderResult(m.theme, msg.result))
			m.results.GotoTop()
		}
		return m, nil

	case pubsub.Event[ticket.Event]:
		next, cmd := m.onTicketEvent(msg.Payload)
		return next, tea.Batch(cmd, next.tickets.Listen())

	case issuedMsg:
		if msg.err != nil {
			m.log.Warn("tui.issue_refused", "action", string(msg.action), "err", msg.err.Error())
			return m.showToast(userMessage(msg.err))
		}
		return m, nil

	case promptMsg:
		wait := m.deps.Prompter.next(m.ctx)
		if m.prompt != nil {
			m.queued = append(m.queued, msg.req)
			return m, wait
		}
		pm, cmd := newPromptModal(msg.req)
		m.prompt = &pm
		m.menu = menuNone
		return m, tea.Batch(cmd, wait)

	case filesChangedMsg:
		if m.deps.Invalidate != nil {
			m.deps.Invalidate()
		}
		m.log.Debug("tui.files_changed")
		return m, tea.Batch(m.reload(), cmdWaitChanges(m.ctx, m.deps.Changes))

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m model) onWorkspaceLoaded(msg workspaceLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loadErr = msg.err
		m.log.Error("tui.load_failed", "err", msg.err.Error())
		return m.showToast(userMessage(msg.err))
	}

	sel := route.DeriveSelection(m.path)
	m.loaded, m.loadErr = true, nil
	m.suites = msg.suites
	m.base, m.subs = msg.base, msg.subs
	m.jar = msg.jar
	m.project, m.projects = msg.project, msg.projects
	m.envFallback = domain.ResolveActive(msg.base, msg.subs, msg.activeID).ID

	// Keep an optimistic selection while its ticket is in flight.
	pending := ticket.PendingFor(m.ledger, domain.Scope{
		Action:      domain.ActionSetActiveEnvironment,
		WorkspaceID: sel.WorkspaceID,
	})
	if !pending {
		m.activeID = m.envFallback
	}

	if i := suiteIndex(m.suites, sel.SuiteID); i >= 0 {
		m.cursor = i
	}
	m.cursor = clamp(m.cursor, len(m.suites))
	m.projectCursor = clamp(m.projectCursor, len(m.projects))
	cmd := m.syncResult()
	return m, cmd
}

// onTicketEvent folds the event into the ledger and reacts to terminal
// events of this workspace.
func (m model) onTicketEvent(ev ticket.Event) (model, tea.Cmd) {
	m.ledger = m.ledger.Apply(ev)
	sel := route.DeriveSelection(m.path)
	sameWorkspace := ev.Scope.WorkspaceID == sel.WorkspaceID

	switch ev.Kind {
	case ticket.Failed:
		if ev.Scope.Action == domain.ActionSetActiveEnvironment && sameWorkspace {
			m.activeID = m.envFallback
		}
		sync := m.syncResult()
		next, cmd := m.showToast(failureMessage(ev))
		return next.(model), tea.Batch(cmd, sync)

	case ticket.Completed:
		switch ev.Scope.Action {
		case domain.ActionRunAllTests:
			if sameWorkspace && ev.Output != "" {
				m.path = route.ResultPath(sel.OrganizationID, sel.ProjectID, sel.WorkspaceID, ev.Scope.SuiteID, ev.Output)
			}
		case domain.ActionCreateSuite:
			if sameWorkspace && ev.Output != "" {
				m.path = sel.WithSuite(ev.Output)
			}
			return m, m.reload()
		case domain.ActionDeleteSuite:
			if sameWorkspace && sel.SuiteID == ev.Scope.SuiteID {
				m.path = route.TestPath(sel.OrganizationID, sel.ProjectID, sel.WorkspaceID)
			}
			return m, m.reload()
		case domain.ActionSetActiveEnvironment:
			if !sameWorkspace {
				break
			}
			m.envFallback = ev.Scope.EnvironmentID
			// Writes may land out of order; once none is in flight the
			// store decides what is shown.
			if !ticket.PendingFor(m.ledger, domain.Scope{
				Action:      domain.ActionSetActiveEnvironment,
				WorkspaceID: sel.WorkspaceID,
			}) {
				return m, m.reload()
			}
		case domain.ActionDeleteProject:
			next, cmd := m.showToast("Project deleted")
			return next.(model), tea.Batch(cmd, m.reload())
		}
	}
	cmd := m.syncResult()
	return m, cmd
}

// popPrompt shows the oldest queued question, if any.
func (m model) popPrompt() (model, tea.Cmd) {
	if len(m.queued) == 0 {
		return m, nil
	}
	req := m.queued[0]
	m.queued = m.queued[1:]
	pm, cmd := newPromptModal(req)
	m.prompt = &pm
	m.menu = menuNone
	return m, cmd
}

func (m model) reload() tea.Cmd {
	return cmdLoadWorkspace(m.ctx, m.deps, route.DeriveSelection(m.path))
}

// syncResult loads the result named by the path when pane two shows one.
func (m *model) syncResult() tea.Cmd {
	v, err := m.screen()
	if err != nil || v.PaneTwo.Kind != screen.PaneResult {
		return nil
	}
	if v.PaneTwo.ResultID == m.resultID {
		return nil
	}
	m.resultID = v.PaneTwo.ResultID
	m.result, m.resultErr = domain.TestResult{}, nil
	m.results.SetContent("")
	return cmdLoadResult(m.deps, m.resultID)
}

func (m model) showToast(text string) (tea.Model, tea.Cmd) {
	m.toastSeq++
	m.toast = text
	return m, cmdExpireToast(m.toastSeq)
}

// screen derives the view state from the current path and data.
func (m model) screen() (screen.View, error) {
	return screen.Render(screen.Input{
		Path:                m.path,
		Ledger:              m.ledger,
		Suites:              m.suites,
		BaseEnvironment:     m.base,
		SubEnvironments:     m.subs,
		ActiveEnvironmentID: m.activeID,
		CookieJar:           m.jar,
		Project:             m.project,
		WorkspaceName:       m.deps.Config.Workspace.Name,
		Modals:              m.modals,
	})
}

func (m *model) resizeResults() {
	m.results.Width = m.paneWidth() - 2
	m.results.Height = max(m.bodyHeight()-2, 3)
}

func suiteIndex(suites []domain.TestSuite, id string) int {
	for i, s := range suites {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
