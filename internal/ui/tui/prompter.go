package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/testdeck/internal/usecase"
)

// Prompter shows workbench questions as modals. Calls block until the
// model answers or ctx is cancelled.
type Prompter struct {
	requests chan promptRequest
}

type promptRequest struct {
	confirm *usecase.ConfirmRequest
	text    *usecase.TextRequest
	reply   chan promptAnswer
}

type promptAnswer struct {
	value string
	ok    bool
}

func NewPrompter() *Prompter {
	return &Prompter{requests: make(chan promptRequest)}
}

var _ usecase.Prompter = (*Prompter)(nil)

func (p *Prompter) Confirm(ctx context.Context, req usecase.ConfirmRequest) (bool, error) {
	a, err := p.ask(ctx, promptRequest{confirm: &req})
	return a.ok, err
}

func (p *Prompter) Text(ctx context.Context, req usecase.TextRequest) (string, bool, error) {
	a, err := p.ask(ctx, promptRequest{text: &req})
	return a.value, a.ok, err
}

func (p *Prompter) ask(ctx context.Context, req promptRequest) (promptAnswer, error) {
	req.reply = make(chan promptAnswer, 1)
	select {
	case p.requests <- req:
	case <-ctx.Done():
		return promptAnswer{}, ctx.Err()
	}
	select {
	case a := <-req.reply:
		return a, nil
	case <-ctx.Done():
		return promptAnswer{}, ctx.Err()
	}
}

// next waits for the following question.
func (p *Prompter) next(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case req := <-p.requests:
			return promptMsg{req: req}
		}
	}
}

// answer settles the question. Only the first answer counts.
func (r promptRequest) answer(a promptAnswer) {
	select {
	case r.reply <- a:
	default:
	}
}
