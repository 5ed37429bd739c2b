package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrInvalidRequest = errors.New("invalid request")
	ErrMissingVar     = errors.New("missing variable")
	ErrExecution      = errors.New("execution error")
	ErrDefaultProject = errors.New("default project cannot be deleted")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
	KindMissingVar    ErrorKind = "missing_variable"
	KindExecution     ErrorKind = "execution"

	// KindPrecondition marks a broken caller contract, such as a route
	// without a workspace id or deleting a default project.
	KindPrecondition ErrorKind = "precondition"
)

// Retryable reports whether repeating the same call may succeed. Only
// execution failures (I/O, transport) qualify.
func (k ErrorKind) Retryable() bool {
	return k == KindExecution
}

// OpError wraps an underlying error with operation context and a kind.
// Op is a dotted "<component>.<operation>" name, e.g. "yamlstore.get_suite".
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // optional file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.Path != "" {
		b.WriteString(" (path=")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf returns the kind of the outermost OpError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var oe *OpError
	if errors.As(err, &oe) && oe != nil {
		return oe.Kind, true
	}
	return "", false
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
