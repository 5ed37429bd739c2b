package tui

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/ticket"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

var actionNames = map[domain.ActionKind]string{
	domain.ActionCreateSuite:          "Create suite",
	domain.ActionDeleteSuite:          "Delete suite",
	domain.ActionRunAllTests:          "Run tests",
	domain.ActionSetActiveEnvironment: "Switch environment",
	domain.ActionDeleteProject:        "Delete project",
}

// failureMessage is the toast for a failed ticket.
func failureMessage(ev ticket.Event) string {
	name, ok := actionNames[ev.Scope.Action]
	if !ok {
		name = string(ev.Scope.Action)
	}
	return name + " failed: " + userMessage(ev.Err)
}

func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "Cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timed out"
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			switch {
			case strings.Contains(oe.Op, "suite"):
				return "Test suite not found"
			case strings.Contains(oe.Op, "environment"):
				return "Environment not found"
			case strings.Contains(oe.Op, "project"):
				return "Project not found"
			case strings.Contains(oe.Op, "runstore"):
				return "Result not found"
			case strings.Contains(oe.Op, "find_root"):
				return "Workspace not found"
			}
			return "Not found"

		case domain.KindMissingVar:
			if v := extractMissingVarName(err.Error()); v != "" {
				return "Missing variable " + v
			}
			return "Missing variable"

		case domain.KindInvalidConfig:
			if errors.Is(err, domain.ErrInvalidRequest) {
				return "Invalid request"
			}
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}
			if line := extractLine(err.Error()); line != "" {
				return "Invalid YAML at " + base + " line " + line
			}
			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config"

		case domain.KindPrecondition:
			switch {
			case errors.Is(err, domain.ErrDefaultProject):
				return "Default and current projects cannot be deleted"
			case errors.Is(err, route.ErrMissingWorkspace):
				return "No workspace selected"
			}
			return "Action not allowed"
		}
	}

	if errors.Is(err, domain.ErrInvalidRequest) {
		return "Invalid request"
	}
	if looksLikeYAMLProblem(err.Error()) {
		if line := extractLine(err.Error()); line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}
	return "Unexpected error (see logs)"
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	if m := reLine.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return ""
}

func extractMissingVarName(s string) string {
	ls := strings.ToLower(s)
	for _, marker := range []string{"missing variable:", "missing variable "} {
		i := strings.Index(ls, marker)
		if i < 0 {
			continue
		}
		fields := strings.Fields(s[i+len(marker):])
		if len(fields) == 0 {
			continue
		}
		if name := strings.Trim(fields[0], " .,:;\"'"); name != "" {
			return name
		}
	}
	return ""
}
