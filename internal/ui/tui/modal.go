package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// promptModal renders one workbench question.
type promptModal struct {
	req   promptRequest
	input textinput.Model

	// pristine is true while a preselected default is untouched; the
	// first keystroke replaces it.
	pristine bool
	// onCancel is the focused confirm button.
	onCancel bool
}

func newPromptModal(req promptRequest) (promptModal, tea.Cmd) {
	pm := promptModal{req: req}
	if req.text == nil {
		return pm, nil
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 80
	ti.Width = 40
	ti.SetValue(req.text.Default)
	ti.CursorEnd()
	pm.input = ti
	pm.pristine = req.text.SelectText && req.text.Default != ""
	cmd := pm.input.Focus()
	return pm, cmd
}

// update returns a non-nil answer once the question is settled.
func (pm promptModal) update(msg tea.KeyMsg) (promptModal, *promptAnswer, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return pm, &promptAnswer{}, nil
	case tea.KeyEnter:
		if pm.req.text != nil {
			return pm, &promptAnswer{value: pm.input.Value(), ok: true}, nil
		}
		return pm, &promptAnswer{ok: !pm.onCancel}, nil
	}

	if pm.req.confirm != nil {
		switch msg.Type {
		case tea.KeyLeft, tea.KeyRight, tea.KeyTab, tea.KeyShiftTab:
			pm.onCancel = !pm.onCancel
		case tea.KeyRunes:
			switch strings.ToLower(string(msg.Runes)) {
			case "y":
				return pm, &promptAnswer{ok: true}, nil
			case "n":
				return pm, &promptAnswer{}, nil
			}
		}
		return pm, nil, nil
	}

	if pm.pristine {
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace:
			pm.input.SetValue("")
		case tea.KeyBackspace, tea.KeyDelete:
			pm.input.SetValue("")
			pm.pristine = false
			return pm, nil, nil
		}
		pm.pristine = false
	}

	var cmd tea.Cmd
	pm.input, cmd = pm.input.Update(msg)
	return pm, nil, cmd
}

func (pm promptModal) view(t Theme) string {
	var b strings.Builder

	if c := pm.req.confirm; c != nil {
		b.WriteString(t.Title.Render(c.Title))
		b.WriteString("\n\n")
		b.WriteString(c.Message)
		b.WriteString("\n\n")

		confirm, cancel := "[ "+c.ConfirmLabel+" ]", "[ Cancel ]"
		if c.Danger {
			confirm = t.Danger.Render(confirm)
		}
		if pm.onCancel {
			cancel = t.Active.Render(cancel)
		} else {
			confirm = t.Active.Render(confirm)
		}
		b.WriteString(confirm + "  " + cancel)
		b.WriteString("\n\n")
		b.WriteString(t.Help.Render("y/enter confirm • n/esc cancel"))
		return t.Modal.Render(b.String())
	}

	q := pm.req.text
	b.WriteString(t.Title.Render(q.Title))
	b.WriteString("\n\n")
	b.WriteString(t.Subtitle.Render(q.Label))
	b.WriteString("\n")
	input := pm.input.View()
	if pm.pristine {
		input = t.Cursor.Reverse(true).Render(pm.input.Value())
	}
	b.WriteString(input)
	b.WriteString("\n\n")
	b.WriteString(t.Active.Render("[ " + q.SubmitLabel + " ]"))
	b.WriteString("\n\n")
	b.WriteString(t.Help.Render("enter " + strings.ToLower(q.SubmitLabel) + " • esc cancel"))
	return t.Modal.Render(b.String())
}
