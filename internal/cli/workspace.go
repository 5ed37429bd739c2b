package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/infra/config"
	"github.com/aalvaropc/testdeck/internal/infra/httpclient"
	"github.com/aalvaropc/testdeck/internal/infra/httprunner"
	"github.com/aalvaropc/testdeck/internal/infra/logger"
	"github.com/aalvaropc/testdeck/internal/infra/runstore"
	"github.com/aalvaropc/testdeck/internal/infra/suitecache"
	"github.com/aalvaropc/testdeck/internal/infra/yamlstore"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/ticket"
	"github.com/aalvaropc/testdeck/internal/usecase"
)

// workspaceCtx is the composition root shared by the TUI and the
// headless commands.
type workspaceCtx struct {
	root string
	cfg  domain.Config
	log  *slog.Logger

	store   *yamlstore.Store
	suites  *suitecache.Repository
	results *runstore.JSONStore
	runner  *httprunner.Runner
	tickets *ticket.Dispatcher

	closeLog func() error
}

func openWorkspace(opts *options) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(opts.workspace())
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	closeLog, _ := logger.Setup(logger.Config{
		Root:  root,
		Debug: opts.debug(),
	})

	store := yamlstore.New(root, cfg)
	workspaceID := cfg.Workspace.WorkspaceID

	ws := &workspaceCtx{
		root:    root,
		cfg:     cfg,
		log:     logger.Component("cli"),
		store:   store,
		suites:  suitecache.New(store, suitecache.WithLogger(logger.Component("suitecache"))),
		results: runstore.NewJSONStore(root, cfg),
		runner: httprunner.New(
			httpclient.New(httpclient.DefaultConfig()),
			httprunner.WithCookieSource(func(ctx context.Context) ([]domain.Cookie, error) {
				jar, err := store.ActiveCookieJar(ctx, workspaceID)
				if err != nil {
					return nil, err
				}
				return jar.Cookies, nil
			}),
			httprunner.WithLogger(logger.Component("http")),
		),
		tickets:  ticket.NewDispatcher(ticket.WithLogger(logger.Component("tickets"))),
		closeLog: closeLog,
	}
	ws.log.Debug("workspace.open", "root", root, "workspace_id", workspaceID)
	return ws, nil
}

// Close waits for in-flight tickets before releasing the log file.
func (ws *workspaceCtx) Close() {
	ws.tickets.Wait()
	ws.tickets.Close()
	if ws.closeLog != nil {
		_ = ws.closeLog()
	}
}

func (ws *workspaceCtx) workspaceID() string { return ws.cfg.Workspace.WorkspaceID }

// selection is the test screen of the configured workspace.
func (ws *workspaceCtx) selection() route.Selection {
	w := ws.cfg.Workspace
	return route.DeriveSelection(route.TestPath(w.OrganizationID, w.ProjectID, w.WorkspaceID))
}

func (ws *workspaceCtx) runSuite() *usecase.RunSuite {
	return usecase.NewRunSuite(ws.suites, ws.store, ws.runner, ws.results,
		usecase.WithRunLogger(logger.Component("run")))
}

func (ws *workspaceCtx) workbench(p usecase.Prompter) *usecase.Workbench {
	return usecase.NewWorkbench(usecase.WorkbenchDeps{
		Suites:   ws.suites,
		Envs:     ws.store,
		Projects: ws.store,
		Run:      ws.runSuite(),
		Issuer:   ws.tickets,
		Prompter: p,
		Logger:   logger.Component("workbench"),
	})
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := config.NewFinder().FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `testdeck init`): %w", wd, err)
	}
	return root, nil
}

// findSuite matches arg against suite ids first, then names
// case-insensitively.
func findSuite(suites []domain.TestSuite, arg string) (domain.TestSuite, error) {
	in := strings.TrimSpace(arg)
	for _, s := range suites {
		if s.ID == in {
			return s, nil
		}
	}
	for _, s := range suites {
		if strings.EqualFold(s.Name, in) {
			return s, nil
		}
	}
	return domain.TestSuite{}, &domain.OpError{
		Op:   "cli.find_suite",
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("suite %q: %w", in, domain.ErrNotFound),
	}
}

// findEnvironment matches arg against environment ids, then names. The
// base environment also answers to "base" and "none".
func findEnvironment(base domain.Environment, subs []domain.Environment, arg string) (domain.Environment, error) {
	in := strings.TrimSpace(arg)
	if strings.EqualFold(in, "base") || strings.EqualFold(in, "none") {
		return base, nil
	}
	all := append([]domain.Environment{base}, subs...)
	for _, e := range all {
		if e.ID == in {
			return e, nil
		}
	}
	for _, e := range all {
		if strings.EqualFold(e.Name, in) {
			return e, nil
		}
	}
	return domain.Environment{}, &domain.OpError{
		Op:   "cli.find_environment",
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("environment %q: %w", in, domain.ErrNotFound),
	}
}
