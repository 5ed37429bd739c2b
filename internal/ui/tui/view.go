package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/screen"
)

func (m model) View() string {
	if m.prompt != nil {
		return m.place(m.prompt.view(m.theme))
	}

	v, err := m.screen()
	if err != nil {
		return m.projectView(err)
	}

	var body string
	switch {
	case m.menu == menuEnvironments:
		body = m.place(m.environmentMenu(v))
	case m.menu == menuProject:
		body = m.place(m.projectMenu(v))
	case v.Modals.Environments:
		body = m.place(m.environmentsModal(v))
	case v.Modals.Cookies:
		body = m.place(m.cookiesModal())
	case v.Modals.Settings:
		body = m.place(m.settingsModal())
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.sidebar(v),
			m.paneOne(v),
			m.paneTwo(v),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(v),
		body,
		m.footer(),
	)
}

func (m model) header(v screen.View) string {
	b := v.Breadcrumb
	crumb := m.theme.Subtitle.Render(glyph(b.Icon)+" "+b.Project) + " › " + m.theme.Title.Render(b.Workspace)

	env := v.Environment.Active
	envLabel := glyph(env.Glyph) + " " + env.Label
	if env.Color != "" {
		envLabel = lipgloss.NewStyle().Foreground(lipgloss.Color(env.Color)).Render(glyph(env.Glyph)) + " " + env.Label
	}
	if m.activeID != m.envFallback {
		envLabel += " " + m.spin.View()
	}

	cookies := glyph(screen.GlyphCookie) + " " + v.Cookies.Label
	if v.Cookies.Count > 0 {
		cookies += fmt.Sprintf(" (%d)", v.Cookies.Count)
	}

	return crumb + "    " + envLabel + "    " + m.theme.Subtitle.Render(cookies) + "\n"
}

func (m model) sidebar(v screen.View) string {
	var b strings.Builder
	b.WriteString(m.theme.menuItem(v.CreateSuite))
	b.WriteString("\n\n")

	if len(v.Suites) == 0 {
		b.WriteString(m.theme.Subtitle.Render("No test suites"))
	}
	for i, row := range v.Suites {
		name := runewidth.Truncate(row.Name, sidebarWidth-6, "…")
		marker := "  "
		if i == m.cursor {
			marker = m.theme.Cursor.Render("› ")
		}
		if row.Active {
			name = m.theme.Active.Render(name)
		}
		b.WriteString(marker + name + "\n")
		if i == m.cursor {
			b.WriteString("    " + m.theme.menuItem(row.Run) + "  " + m.theme.menuItem(row.Delete) + "\n")
		}
	}

	return m.theme.Card.Width(sidebarWidth).Height(m.bodyHeight()).Render(b.String())
}

func (m model) paneOne(v screen.View) string {
	style := m.theme.Card.Width(m.paneWidth()).Height(m.bodyHeight())
	p := v.PaneOne
	if p.Kind != screen.PaneSuiteDetail {
		return style.Render(m.theme.Subtitle.Render(p.Message))
	}
	return style.Render(renderSuite(m.theme, p.Suite))
}

func (m model) paneTwo(v screen.View) string {
	style := m.theme.Card.Width(m.paneWidth()).Height(m.bodyHeight())
	p := v.PaneTwo

	switch p.Kind {
	case screen.PaneRunning:
		return style.Render(m.spin.View() + " " + p.Message)
	case screen.PaneResult:
		switch {
		case m.resultErr != nil:
			return style.Render(m.theme.Fail.Render(userMessage(m.resultErr)))
		case m.result.ID != p.ResultID:
			return style.Render(m.theme.Subtitle.Render("Loading result…"))
		default:
			return style.Render(m.results.View())
		}
	default:
		return style.Render(m.theme.Subtitle.Render(p.Message))
	}
}

func (m model) footer() string {
	var b strings.Builder
	if m.toast != "" {
		b.WriteString(m.theme.Toast.Render(m.toast))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m model) environmentMenu(v screen.View) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Environment"))
	b.WriteString("\n\n")
	for i, o := range v.Environment.Options {
		marker := "  "
		if i == m.menuCursor {
			marker = m.theme.Cursor.Render("› ")
		}
		g := glyph(o.Glyph)
		if o.Color != "" {
			g = lipgloss.NewStyle().Foreground(lipgloss.Color(o.Color)).Render(g)
		}
		label := o.Label
		if o.ID == v.Environment.Active.ID {
			label = m.theme.Active.Render(label)
		}
		b.WriteString(marker + g + " " + label + "\n")
	}
	b.WriteString("\n" + m.theme.Help.Render("enter select • E "+strings.ToLower(screen.ManageEnvironmentsLabel)+" • esc close"))
	return m.theme.Modal.Render(b.String())
}

func (m model) projectMenu(v screen.View) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(v.Breadcrumb.Project))
	b.WriteString("\n\n")
	for i, it := range v.ProjectMenu {
		marker := "  "
		if i == m.menuCursor {
			marker = m.theme.Cursor.Render("› ")
		}
		b.WriteString(marker + m.theme.menuItem(it) + "\n")
	}
	return m.theme.Modal.Render(b.String())
}

func (m model) environmentsModal(v screen.View) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(screen.ManageEnvironmentsLabel))
	b.WriteString("\n\n")

	envs := append([]domain.Environment{m.base}, m.subs...)
	for i, e := range envs {
		name := e.Name
		if i == 0 {
			name += " (" + v.Environment.Options[0].Label + ")"
		}
		b.WriteString(m.theme.Active.Render(name))
		b.WriteString("\n")
		b.WriteString(renderVars(e.Vars, m.deps.Config.Masking.Enabled))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Help.Render("edit the files under " + m.deps.Config.Paths.EnvironmentsDir + "/ • esc close"))
	return m.theme.Modal.Render(b.String())
}

func (m model) cookiesModal() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Cookies"))
	b.WriteString("\n\n")
	if len(m.jar.Cookies) == 0 {
		b.WriteString(m.theme.Subtitle.Render("The cookie jar is empty"))
		b.WriteString("\n")
	}
	for _, c := range m.jar.Cookies {
		value := c.Value
		if m.deps.Config.Masking.Enabled {
			value = mask(value)
		}
		b.WriteString(fmt.Sprintf("  %s  %s%s  %s=%s\n", glyph(screen.GlyphCookie), c.Domain, c.Path, c.Name, value))
	}
	b.WriteString("\n" + m.theme.Help.Render("esc close"))
	return m.theme.Modal.Render(b.String())
}

func (m model) settingsModal() string {
	w := m.deps.Config.Workspace
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(glyph(screen.GlyphGear) + " " + screen.SettingsLabel))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Workspace     %s (%s)\n", w.Name, w.WorkspaceID))
	b.WriteString(fmt.Sprintf("Organization  %s\n", w.OrganizationID))
	b.WriteString(fmt.Sprintf("Masking       %t\n\n", m.deps.Config.Masking.Enabled))

	b.WriteString(m.theme.Subtitle.Render("Projects"))
	b.WriteString("\n")
	for i, p := range m.projects {
		marker := "  "
		if i == m.projectCursor {
			marker = m.theme.Cursor.Render("› ")
		}
		name := p.Name
		if p.ID == m.project.ID {
			name = m.theme.Active.Render(name)
		}
		if domain.IsDefaultOrganizationProject(p) {
			name += m.theme.Subtitle.Render(" (default)")
		}
		b.WriteString(marker + name + "\n")
	}
	b.WriteString("\n" + m.theme.Help.Render("x delete project • esc close"))
	return m.theme.Modal.Render(b.String())
}

// projectView is shown for paths above the workspace level.
func (m model) projectView(err error) string {
	sel := route.DeriveSelection(m.path)
	if sel.ProjectID == "" {
		return m.place(m.theme.Card.Render(m.theme.Fail.Render(userMessage(err))))
	}

	name := m.project.Name
	if name == "" {
		name = sel.ProjectID
	}
	card := m.theme.Title.Render(name) + "\n\n" +
		"Workspace: " + m.deps.Config.Workspace.Name + "\n\n" +
		m.theme.Help.Render("enter open workspace • q quit")
	return m.place(m.theme.Card.Render(card))
}

func (m model) place(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.bodyHeight()+2, lipgloss.Center, lipgloss.Center, s)
}

func (m model) bodyHeight() int {
	return max(m.height-6, 5)
}

func (m model) paneWidth() int {
	return max((m.width-sidebarWidth-6)/2-2, 20)
}
