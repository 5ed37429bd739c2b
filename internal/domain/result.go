package domain

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"syscall"
	"time"
)

// RunErrorKind is a high-level classification of runtime errors.
type RunErrorKind string

const (
	RunErrorUnknown RunErrorKind = "unknown"
	RunErrorTimeout RunErrorKind = "timeout"
	RunErrorDNS     RunErrorKind = "dns"
	RunErrorConn    RunErrorKind = "connection"
	RunErrorHTTP    RunErrorKind = "http"
	RunErrorConfig  RunErrorKind = "config"
)

// RunError represents a structured error produced by a runner.
type RunError struct {
	Kind    RunErrorKind
	Message string
}

// NewRunError classifies err and keeps its message.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	kind := ClassifyRunError(err)
	if IsKind(err, KindMissingVar) || IsKind(err, KindInvalidConfig) {
		kind = RunErrorConfig
	}
	return &RunError{Kind: kind, Message: err.Error()}
}

// ClassifyRunError maps transport errors to a RunErrorKind.
func ClassifyRunError(err error) RunErrorKind {
	if err == nil {
		return RunErrorUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return RunErrorTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return RunErrorDNS
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return RunErrorTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return RunErrorTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ETIMEDOUT) {
		return RunErrorConn
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return RunErrorConn
	}

	return RunErrorUnknown
}

// AssertionResult is the output of a single assertion.
type AssertionResult struct {
	Name    string
	Passed  bool
	Message string
}

// ExtractResult is the output of a single extraction rule.
type ExtractResult struct {
	Name    string
	Success bool
	Message string
}

// ResponseSnapshot stores a bounded view of the response.
// Keep it generic so the domain does not depend on net/http types.
type ResponseSnapshot struct {
	Headers   map[string][]string
	Body      []byte
	Truncated bool
}

// TestCaseResult represents the outcome of one unit test.
type TestCaseResult struct {
	Name   string
	Method HTTPMethod
	URL    string

	StatusCode int
	LatencyMS  int64

	Assertions []AssertionResult
	Extracts   []ExtractResult
	Extracted  Vars

	Response ResponseSnapshot
	Error    *RunError
}

// Failed reports whether the test errored or any check failed.
func (r TestCaseResult) Failed() bool {
	if r.Error != nil {
		return true
	}
	for _, a := range r.Assertions {
		if !a.Passed {
			return true
		}
	}
	for _, e := range r.Extracts {
		if !e.Success {
			return true
		}
	}
	return false
}

// TestResult is one persisted run of a suite.
type TestResult struct {
	ID          string
	WorkspaceID string
	SuiteID     string
	SuiteName   string

	EnvironmentID   string
	EnvironmentName string

	StartedAt  time.Time
	FinishedAt time.Time

	Results []TestCaseResult
}

// Counts returns the number of passed and failed tests.
func (r TestResult) Counts() (passed int, failed int) {
	for _, tc := range r.Results {
		if tc.Failed() {
			failed++
		} else {
			passed++
		}
	}
	return passed, failed
}

// Duration is the wall time of the run, or zero when timestamps are missing.
func (r TestResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
