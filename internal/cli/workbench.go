package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/testdeck/internal/infra/logger"
	"github.com/aalvaropc/testdeck/internal/infra/watcher"
	"github.com/aalvaropc/testdeck/internal/ui/tui"
)

var errNoTerminal = errors.New("the workbench needs a terminal; see `testdeck --help` for headless commands")

// runWorkbench starts the interactive unit test screen.
func runWorkbench(cmd *cobra.Command, opts *options) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errNoTerminal
	}

	ws, err := openWorkspace(opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	wcfg := watcher.DefaultConfig(
		filepath.Join(ws.root, ws.cfg.Paths.SuitesDir),
		filepath.Join(ws.root, ws.cfg.Paths.EnvironmentsDir),
		filepath.Join(ws.root, ws.cfg.Paths.StateDir),
	)
	wcfg.Logger = logger.Component("watcher")

	var changes <-chan struct{}
	if w, werr := watcher.New(wcfg); werr == nil {
		if ch, serr := w.Start(); serr == nil {
			changes = ch
			defer func() { _ = w.Stop() }()
		} else {
			ws.log.Warn("watcher.start_failed", "err", serr)
			_ = w.Stop()
		}
	} else {
		ws.log.Warn("watcher.create_failed", "err", werr)
	}

	prompter := tui.NewPrompter()
	deps := tui.Deps{
		Config:     ws.cfg,
		Workbench:  ws.workbench(prompter),
		Tickets:    ws.tickets.Broker(),
		Prompter:   prompter,
		Envs:       ws.store,
		Cookies:    ws.store,
		Projects:   ws.store,
		Results:    ws.results,
		Changes:    changes,
		Invalidate: ws.suites.Flush,
		Logger:     logger.Component("tui"),
		Debug:      opts.debug(),
	}

	return tui.Run(cmd.Context(), deps)
}
