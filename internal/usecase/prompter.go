package usecase

import "context"

// ConfirmRequest describes a yes/no question.
type ConfirmRequest struct {
	Title        string
	Message      string
	ConfirmLabel string
	Danger       bool
}

// TextRequest describes a single-line text question.
type TextRequest struct {
	Title       string
	Label       string
	Default     string
	SubmitLabel string

	// SelectText preselects the default so typing replaces it.
	SelectText bool
}

// Prompter asks the user a question and blocks until it is answered.
// Confirm returns false when the user declines; Text returns ok=false when
// the user cancels. Errors are reserved for a prompt that could not be
// shown at all.
type Prompter interface {
	Confirm(ctx context.Context, req ConfirmRequest) (bool, error)
	Text(ctx context.Context, req TextRequest) (value string, ok bool, err error)
}

// CreateSuitePrompt is the question asked before creating a suite.
func CreateSuitePrompt() TextRequest {
	return TextRequest{
		Title:       "New Test Suite",
		Label:       "Test Suite Name",
		Default:     "New Suite",
		SubmitLabel: "Create Suite",
		SelectText:  true,
	}
}

func deleteSuitePrompt(name string) ConfirmRequest {
	return ConfirmRequest{
		Title:        "Delete Suite",
		Message:      "Delete test suite \"" + name + "\" and its tests?",
		ConfirmLabel: "Delete",
		Danger:       true,
	}
}

func deleteProjectPrompt(name string) ConfirmRequest {
	return ConfirmRequest{
		Title:        "Delete Project",
		Message:      "Are you sure you want to delete \"" + name + "\"?",
		ConfirmLabel: "Delete",
		Danger:       true,
	}
}

// AutoConfirm answers every question with yes and the default text.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(context.Context, ConfirmRequest) (bool, error) { return true, nil }

func (AutoConfirm) Text(_ context.Context, req TextRequest) (string, bool, error) {
	return req.Default, true, nil
}
