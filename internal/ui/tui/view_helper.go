package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
)

func prettyBody(body []byte) string {
	if len(body) == 0 {
		return "(empty)"
	}
	var js any
	if err := json.Unmarshal(body, &js); err == nil {
		b, _ := json.MarshalIndent(js, "", "  ")
		return string(b)
	}
	return string(bytes.TrimSpace(body))
}

func mask(v string) string {
	if v == "" {
		return ""
	}
	return "••••••"
}

func renderVars(vars domain.Vars, masked bool) string {
	if len(vars) == 0 {
		return "  (no variables)\n"
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := vars[k]
		if masked && looksSecret(k) {
			v = mask(v)
		}
		b.WriteString("  " + k + " = " + v + "\n")
	}
	return b.String()
}

func looksSecret(name string) bool {
	n := strings.ToLower(name)
	for _, s := range []string{"token", "secret", "password", "apikey", "api_key", "auth"} {
		if strings.Contains(n, s) {
			return true
		}
	}
	return false
}

func renderSuite(t Theme, s domain.TestSuite) string {
	var b strings.Builder
	b.WriteString(t.Title.Render(s.Name))
	b.WriteString("\n")
	b.WriteString(t.Subtitle.Render(fmt.Sprintf("%d tests", len(s.Tests))))
	b.WriteString("\n\n")

	for _, tc := range s.Tests {
		b.WriteString(fmt.Sprintf("%-7s %s\n", tc.Method, tc.Name))
		b.WriteString(t.Subtitle.Render("        " + tc.URL))
		b.WriteString("\n")
	}
	return b.String()
}

func renderResult(t Theme, res domain.TestResult) string {
	var b strings.Builder

	passed, failed := res.Counts()
	summary := fmt.Sprintf("%d passed, %d failed", passed, failed)
	if failed > 0 {
		summary = t.Fail.Render(summary)
	} else {
		summary = t.Pass.Render(summary)
	}
	b.WriteString(t.Title.Render(res.SuiteName) + "  " + summary + "\n")

	env := res.EnvironmentName
	if env == "" {
		env = domain.BaseEnvironmentLabel
	}
	b.WriteString(t.Subtitle.Render(fmt.Sprintf("%s • %s • %dms",
		res.StartedAt.Local().Format("2006-01-02 15:04:05"), env, res.Duration().Milliseconds())))
	b.WriteString("\n\n")

	for _, tc := range res.Results {
		status := t.Pass.Render("PASS")
		if tc.Failed() {
			status = t.Fail.Render("FAIL")
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", status, tc.Method, tc.Name))
		b.WriteString(renderCaseDetails(tc))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCaseDetails(tc domain.TestCaseResult) string {
	var b strings.Builder

	if tc.Error != nil {
		b.WriteString(fmt.Sprintf("  error (%s): %s\n", tc.Error.Kind, tc.Error.Message))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  status %d • %dms\n", tc.StatusCode, tc.LatencyMS))
	for _, a := range tc.Assertions {
		mark := "✓"
		if !a.Passed {
			mark = "✗"
		}
		b.WriteString("  " + mark + " " + a.Name)
		if a.Message != "" {
			b.WriteString(" " + a.Message)
		}
		b.WriteString("\n")
	}
	for _, e := range tc.Extracts {
		mark := "→"
		if !e.Success {
			mark = "✗"
		}
		b.WriteString("  " + mark + " " + e.Name)
		if e.Message != "" {
			b.WriteString(" " + e.Message)
		}
		b.WriteString("\n")
	}
	if tc.Failed() && len(tc.Response.Body) > 0 {
		body := prettyBody(tc.Response.Body)
		if tc.Response.Truncated {
			body += "\n(truncated)"
		}
		for _, line := range strings.Split(body, "\n") {
			b.WriteString("    " + line + "\n")
		}
	}
	return b.String()
}
