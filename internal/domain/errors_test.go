package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "yamlstore.suite.load",
		Kind: KindInvalidConfig,
		Path: "suites/auth.yaml",
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindInvalidConfig {
		t.Fatalf("expected kind %s", KindInvalidConfig)
	}
	if !strings.Contains(err.Error(), "path=suites/auth.yaml") {
		t.Fatalf("expected path in message, got %q", err.Error())
	}
}

func TestIsKind(t *testing.T) {
	err := &OpError{
		Op:   "route.derive",
		Kind: KindPrecondition,
		Err:  errors.New("workspace id is required"),
	}

	if !IsKind(err, KindPrecondition) {
		t.Fatalf("expected IsKind to match precondition error")
	}
	if IsKind(errors.New("plain"), KindPrecondition) {
		t.Fatalf("expected plain error not to match")
	}
}

func TestNilOpErrorString(t *testing.T) {
	var err *OpError
	if err.Error() != "<nil>" {
		t.Fatalf("expected <nil>, got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Fatalf("expected nil unwrap")
	}
}

func TestKindOfOutermostWins(t *testing.T) {
	inner := &OpError{Op: "suite.placeholder", Kind: KindMissingVar, Err: ErrMissingVar}
	outer := &OpError{Op: "run.execute", Kind: KindExecution, Err: inner}

	kind, ok := KindOf(outer)
	if !ok || kind != KindExecution {
		t.Fatalf("expected execution kind, got %q ok=%v", kind, ok)
	}
	if !errors.Is(outer, ErrMissingVar) {
		t.Fatalf("expected sentinel to stay reachable")
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("expected plain error to have no kind")
	}
}

func TestRetryable(t *testing.T) {
	for _, k := range []ErrorKind{KindNotFound, KindInvalidConfig, KindMissingVar, KindPrecondition} {
		if k.Retryable() {
			t.Fatalf("expected %s not to be retryable", k)
		}
	}
	if !KindExecution.Retryable() {
		t.Fatalf("expected execution to be retryable")
	}
}
