package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/usecase"
)

// execute runs the root command with args against a non-interactive stdin.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func initWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if _, err := execute(t, "init", "--path", root); err != nil {
		t.Fatalf("init: %v", err)
	}
	return root
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"init", "suites", "run", "envs", "projects", "results", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, flag := range []string{"config", "debug", "workspace", "yes"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected --%s persistent flag", flag)
		}
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()
	if cmd.Flags().Lookup("path") == nil {
		t.Error("expected --path flag on init command")
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected --force flag on init command")
	}
}

func TestOptions_Precedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TESTDECK_YES", "true")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("debug: true\nworkspace: /srv/deck\n"), 0o644))

	opts := newOptions()
	cmd := buildRootCmd(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "version"})
	require.NoError(t, cmd.Execute())

	require.True(t, opts.yes())
	require.True(t, opts.debug())
	require.Equal(t, "/srv/deck", opts.workspace())

	opts = newOptions()
	cmd = buildRootCmd(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "--workspace", "/tmp/flag", "version"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "/tmp/flag", opts.workspace())
}

func TestOptions_MissingUserConfigIsFine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	opts := newOptions()
	require.NoError(t, opts.readConfig())
	require.False(t, opts.debug())
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

// --- lookups ---

func TestFindSuite(t *testing.T) {
	suites := []domain.TestSuite{
		{ID: "ste_a", Name: "Users"},
		{ID: "ste_b", Name: "Posts"},
	}

	s, err := findSuite(suites, "ste_b")
	require.NoError(t, err)
	require.Equal(t, "Posts", s.Name)

	s, err = findSuite(suites, " users ")
	require.NoError(t, err)
	require.Equal(t, "ste_a", s.ID)

	_, err = findSuite(suites, "missing")
	require.True(t, domain.IsKind(err, domain.KindNotFound))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindEnvironment(t *testing.T) {
	base := domain.Environment{ID: "env_base", Name: "Base Environment"}
	subs := []domain.Environment{{ID: "env_dev", Name: "dev"}}

	for _, arg := range []string{"base", "NONE", "env_base"} {
		e, err := findEnvironment(base, subs, arg)
		require.NoError(t, err)
		require.Equal(t, "env_base", e.ID, arg)
	}

	e, err := findEnvironment(base, subs, "Dev")
	require.NoError(t, err)
	require.Equal(t, "env_dev", e.ID)

	_, err = findEnvironment(base, subs, "prod")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// --- prompter ---

func TestLinePrompter_NonInteractive(t *testing.T) {
	p := newLinePrompter(strings.NewReader(""), &bytes.Buffer{}, false)

	_, err := p.Confirm(t.Context(), usecase.ConfirmRequest{Title: "Delete Suite"})
	require.ErrorIs(t, err, errNotInteractive)

	name, ok, err := p.Text(t.Context(), usecase.CreateSuitePrompt())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "New Suite", name)
}

func TestLinePrompter_Interactive(t *testing.T) {
	var out bytes.Buffer
	p := newLinePrompter(strings.NewReader("y\n\nn\nSmoke\n"), &out, false)
	p.interactive = true
	ctx := t.Context()

	yes, err := p.Confirm(ctx, usecase.ConfirmRequest{Title: "Delete Suite", Message: "Delete?"})
	require.NoError(t, err)
	require.True(t, yes)

	name, ok, err := p.Text(ctx, usecase.CreateSuitePrompt())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "New Suite", name)

	yes, err = p.Confirm(ctx, usecase.ConfirmRequest{Title: "Delete Suite", Message: "Delete?"})
	require.NoError(t, err)
	require.False(t, yes)

	name, _, err = p.Text(ctx, usecase.CreateSuitePrompt())
	require.NoError(t, err)
	require.Equal(t, "Smoke", name)

	require.Contains(t, out.String(), "Delete? [y/N]: ")
	require.Contains(t, out.String(), "Test Suite Name [New Suite]: ")
}

func TestLinePrompter_PresetAnswerAndYes(t *testing.T) {
	p := newLinePrompter(strings.NewReader(""), &bytes.Buffer{}, true)
	p.answer = "Checkout"

	yes, err := p.Confirm(t.Context(), usecase.ConfirmRequest{})
	require.NoError(t, err)
	require.True(t, yes)

	name, ok, err := p.Text(t.Context(), usecase.CreateSuitePrompt())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Checkout", name)
}

func TestLinePrompter_ReadHonoursContext(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(); _ = w.Close() })

	p := newLinePrompter(r, &bytes.Buffer{}, false)
	p.interactive = true

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Confirm(ctx, usecase.ConfirmRequest{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// --- printing ---

func sampleResult() domain.TestResult {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return domain.TestResult{
		ID:         "res_1",
		SuiteName:  "Users",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Results: []domain.TestCaseResult{
			{
				Name:       "get user",
				Method:     domain.MethodGet,
				StatusCode: 200,
				LatencyMS:  12,
				Assertions: []domain.AssertionResult{
					{Name: "status", Passed: true, Message: "200"},
					{Name: "$.id", Passed: false, Message: "missing"},
				},
				Extracts: []domain.ExtractResult{{Name: "token", Success: true, Message: "ok"}},
			},
			{
				Name:   "broken",
				Method: domain.MethodPost,
				Error:  &domain.RunError{Kind: domain.RunErrorConn, Message: "connection refused"},
			},
		},
	}
}

func TestPrintResult_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := printResult(&buf, sampleResult(), "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Suite:      Users",
		"Env:        " + domain.BaseEnvironmentLabel,
		"Duration:   1.5s",
		"Result ID:  res_1",
		"- [FAIL] get user (GET) 12ms",
		"1 pass / 1 fail",
		"1 ok / 0 fail",
		"error: connection refused (connection)",
		"0 passed, 2 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestPrintResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printResult(&buf, sampleResult(), "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if payload["result_id"] != "res_1" {
		t.Errorf("expected result_id=res_1, got %v", payload["result_id"])
	}
}

func TestPrintResult_UnknownFormat(t *testing.T) {
	if err := printResult(&bytes.Buffer{}, sampleResult(), "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// --- headless flows ---

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "testdeck dev")
}

func TestSuites_CreateListDelete(t *testing.T) {
	root := initWorkspace(t)

	out, err := execute(t, "-w", root, "suites", "create", "Smoke")
	require.NoError(t, err)
	require.Contains(t, out, "Created test suite ste_")

	out, err = execute(t, "-w", root, "suites", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Example Suite")
	require.Contains(t, out, "Smoke  (0 tests)")

	_, err = execute(t, "-w", root, "suites", "delete", "smoke")
	require.ErrorIs(t, err, errNotInteractive)

	out, err = execute(t, "-w", root, "--yes", "suites", "delete", "smoke")
	require.NoError(t, err)
	require.Contains(t, out, "Deleted test suite Smoke")

	out, err = execute(t, "-w", root, "suites", "list")
	require.NoError(t, err)
	require.NotContains(t, out, "Smoke")
}

func TestEnvs_UseAndList(t *testing.T) {
	root := initWorkspace(t)

	out, err := execute(t, "-w", root, "envs", "list")
	require.NoError(t, err)
	require.Contains(t, out, "* env_base  "+domain.BaseEnvironmentLabel)

	out, err = execute(t, "-w", root, "envs", "use", "dev")
	require.NoError(t, err)
	require.Contains(t, out, "Active environment: dev (env_dev)")

	out, err = execute(t, "-w", root, "envs", "list")
	require.NoError(t, err)
	require.Contains(t, out, "* env_dev  dev")

	_, err = execute(t, "-w", root, "envs", "use", "prod")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjects_DefaultCannotBeDeleted(t *testing.T) {
	root := initWorkspace(t)

	out, err := execute(t, "-w", root, "projects", "list")
	require.NoError(t, err)
	require.Contains(t, out, "* "+domain.DefaultProjectID)
	require.Contains(t, out, "(default)")

	_, err = execute(t, "-w", root, "--yes", "projects", "delete", domain.DefaultProjectID)
	require.ErrorIs(t, err, domain.ErrDefaultProject)
}

func apiServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "username": "ada"})
	})
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		in["id"] = 101
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_SavesAndShowsResult(t *testing.T) {
	srv := apiServer(t)
	root := initWorkspace(t)
	base := "id: env_base\nname: Base Environment\nvars:\n  baseUrl: \"" + srv.URL + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "env", "base.yaml"), []byte(base), 0o644))

	out, err := execute(t, "-w", root, "run", "ste_example")
	require.NoError(t, err)
	require.Contains(t, out, "Running Example Suite…")
	require.Contains(t, out, "2 passed, 0 failed")

	out, err = execute(t, "-w", root, "results", "list", "Example Suite")
	require.NoError(t, err)
	require.Contains(t, out, "Example Suite")
	id := strings.Fields(strings.TrimPrefix(strings.TrimSpace(out), "- "))[0]

	out, err = execute(t, "-w", root, "results", "show", id, "--format", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"result_id": "`+id+`"`)
}

func TestRun_FailingTestsReturnError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	root := initWorkspace(t)
	base := "id: env_base\nname: Base Environment\nvars:\n  baseUrl: \"" + srv.URL + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "env", "base.yaml"), []byte(base), 0o644))

	out, err := execute(t, "-w", root, "run", "ste_example")
	require.Error(t, err)
	require.Contains(t, err.Error(), "run failed")
	require.Contains(t, out, "- [FAIL] get user")
}

func TestRun_UnknownSuite(t *testing.T) {
	root := initWorkspace(t)
	_, err := execute(t, "-w", root, "run", "nope")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}
