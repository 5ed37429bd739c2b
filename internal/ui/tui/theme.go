package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/testdeck/internal/screen"
)

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Modal    lipgloss.Style

	Active   lipgloss.Style
	Cursor   lipgloss.Style
	Disabled lipgloss.Style
	Danger   lipgloss.Style
	Pass     lipgloss.Style
	Fail     lipgloss.Style
	Toast    lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Modal: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")),

		Active:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Disabled: lipgloss.NewStyle().Faint(true),
		Danger:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Pass:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Toast:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1),
	}
}

var glyphs = map[screen.Glyph]string{
	screen.GlyphPlay:   "▶",
	screen.GlyphTrash:  "✗",
	screen.GlyphPlus:   "+",
	screen.GlyphCancel: "⊘",
	screen.GlyphCircle: "●",
	screen.GlyphGear:   "⚙",
	screen.GlyphCookie: "◍",
	screen.GlyphBack:   "‹",
}

func glyph(g screen.Glyph) string {
	return glyphs[g]
}

// menuItem renders a dropdown entry with its icon and state.
func (t Theme) menuItem(it screen.MenuItem) string {
	s := glyph(it.Icon) + " " + it.Label
	switch {
	case it.Disabled:
		return t.Disabled.Render(s)
	case it.Danger:
		return t.Danger.Render(s)
	default:
		return s
	}
}
