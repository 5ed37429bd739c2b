package tui

import "github.com/aalvaropc/testdeck/internal/domain"

type workspaceLoadedMsg struct {
	suites   []domain.TestSuite
	base     domain.Environment
	subs     []domain.Environment
	activeID string
	jar      domain.CookieJar
	project  domain.Project
	projects []domain.Project
	err      error
}

type resultLoadedMsg struct {
	id     string
	result domain.TestResult
	err    error
}

// issuedMsg reports a workbench call. issued is false when the user
// declined a prompt.
type issuedMsg struct {
	action domain.ActionKind
	ticket domain.Ticket
	issued bool
	err    error
}

type promptMsg struct {
	req promptRequest
}

type filesChangedMsg struct{}

type toastExpiredMsg struct {
	seq int
}
