package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/testdeck/internal/screen"
)

const panicToast = "Unexpected error (see logs)"

// safeModel keeps a panic in the workbench from tearing down the
// terminal. After a recovered Update the screen stays on the current
// path with transient overlays closed.
type safeModel struct {
	inner model
	log   *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{inner: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.inner.Init()
}

func (s safeModel) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.logPanic("update", r, "msg_type", fmt.Sprintf("%T", msg))
		s.inner = s.inner.afterPanic()
		next, cmd = s, cmdExpireToast(s.inner.toastSeq)
	}()

	updated, cmd := s.inner.Update(msg)
	switch u := updated.(type) {
	case model:
		s.inner = u
	case safeModel:
		s = u
	}
	return s, cmd
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("view", r, "path", s.inner.path)
			out = panicToast
		}
	}()
	return s.inner.View()
}

func (s safeModel) logPanic(where string, r any, attrs ...any) {
	attrs = append([]any{
		"where", "tui." + where,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	}, attrs...)
	s.log.Error("panic.recovered", attrs...)
}

// afterPanic closes overlays and raises the error toast. Questions on
// screen or queued are cancelled so the workbench calls waiting on them
// return.
func (m model) afterPanic() model {
	if m.prompt != nil {
		m.prompt.req.answer(promptAnswer{})
		m.prompt = nil
	}
	for _, req := range m.queued {
		req.answer(promptAnswer{})
	}
	m.queued = nil
	m.menu = menuNone
	m.modals = screen.Modals{}
	m.toastSeq++
	m.toast = panicToast
	return m
}

var _ tea.Model = safeModel{}
