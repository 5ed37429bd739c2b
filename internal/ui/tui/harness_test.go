package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/infra/config"
	"github.com/aalvaropc/testdeck/internal/infra/fsworkspace"
	"github.com/aalvaropc/testdeck/internal/infra/httpclient"
	"github.com/aalvaropc/testdeck/internal/infra/httprunner"
	"github.com/aalvaropc/testdeck/internal/infra/runstore"
	"github.com/aalvaropc/testdeck/internal/infra/yamlstore"
	"github.com/aalvaropc/testdeck/internal/ticket"
	"github.com/aalvaropc/testdeck/internal/usecase"
)

// apiHandler serves the endpoints the scaffolded example suite calls.
func apiHandler() http.Handler {
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
	return mux
}

type harness struct {
	ctx  context.Context
	root string
	cfg  domain.Config
	deps Deps
}

func newHarness(t *testing.T) harness {
	t.Helper()

	srv := httptest.NewServer(apiHandler())
	t.Cleanup(srv.Close)

	root := t.TempDir()
	require.NoError(t, fsworkspace.NewInitializer().Init(domain.WorkspaceSpec{Root: root}, false))
	base := "id: env_base\nname: Base Environment\nvars:\n  baseUrl: \"" + srv.URL + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "env", "base.yaml"), []byte(base), 0o644))

	cfg, err := config.LoadConfig(root)
	require.NoError(t, err)

	store := yamlstore.New(root, cfg)
	results := runstore.NewJSONStore(root, cfg)
	runner := httprunner.New(httpclient.New(httpclient.DefaultConfig()))

	disp := ticket.NewDispatcher()
	t.Cleanup(disp.Close)

	prompter := NewPrompter()
	wb := usecase.NewWorkbench(usecase.WorkbenchDeps{
		Suites:   store,
		Envs:     store,
		Projects: store,
		Run:      usecase.NewRunSuite(store, store, runner, results),
		Issuer:   disp,
		Prompter: prompter,
	})

	return harness{
		ctx:  t.Context(),
		root: root,
		cfg:  cfg,
		deps: Deps{
			Config:    cfg,
			Workbench: wb,
			Tickets:   disp.Broker(),
			Prompter:  prompter,
			Envs:      store,
			Cookies:   store,
			Projects:  store,
			Results:   results,
		},
	}
}

func (h harness) model() model {
	return newModel(h.ctx, h.deps)
}

// loaded runs the initial workspace load synchronously.
func (h harness) loaded(t *testing.T) model {
	t.Helper()
	m := h.model()
	next, _ := m.Update(cmdLoadWorkspace(h.ctx, h.deps, h.selection())())
	m = next.(model)
	require.True(t, m.loaded)
	next, _ = m.Update(tea120x40)
	return next.(model)
}
