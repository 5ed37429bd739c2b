package tui

import (
	"log/slog"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ports"
	"github.com/aalvaropc/testdeck/internal/pubsub"
	"github.com/aalvaropc/testdeck/internal/ticket"
	"github.com/aalvaropc/testdeck/internal/usecase"
)

type Deps struct {
	Config    domain.Config
	Workbench *usecase.Workbench
	Tickets   pubsub.Subscriber[ticket.Event]
	Prompter  *Prompter

	Envs     ports.EnvironmentRepository
	Cookies  ports.CookieJarRepository
	Projects ports.ProjectRepository
	Results  ports.ResultStore

	// Changes signals edits on disk. Invalidate runs before the reload.
	Changes    <-chan struct{}
	Invalidate func()

	// InitialPath defaults to the test screen of the configured workspace.
	InitialPath string

	Logger *slog.Logger
	Debug  bool
}
