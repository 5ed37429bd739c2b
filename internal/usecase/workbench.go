package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ports"
	"github.com/aalvaropc/testdeck/internal/route"
	"github.com/aalvaropc/testdeck/internal/ticket"
)

// Issuer issues tickets. *ticket.Dispatcher implements it.
type Issuer interface {
	Issue(ctx context.Context, scope domain.Scope, op ticket.Operation) domain.Ticket
}

// Workbench holds the mutations of the unit test screen. Every mutation is
// issued as a ticket; confirmations and prompts are asked first and a
// declined or cancelled question issues nothing.
type Workbench struct {
	suites   ports.SuiteRepository
	envs     ports.EnvironmentRepository
	projects ports.ProjectRepository
	run      *RunSuite

	issuer   Issuer
	prompter Prompter
	log      *slog.Logger
}

type WorkbenchDeps struct {
	Suites   ports.SuiteRepository
	Envs     ports.EnvironmentRepository
	Projects ports.ProjectRepository
	Run      *RunSuite
	Issuer   Issuer
	Prompter Prompter
	Logger   *slog.Logger
}

func NewWorkbench(d WorkbenchDeps) *Workbench {
	log := d.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Workbench{
		suites:   d.Suites,
		envs:     d.Envs,
		projects: d.Projects,
		run:      d.Run,
		issuer:   d.Issuer,
		prompter: d.Prompter,
		log:      log,
	}
}

// ListTestSuites returns the suites of the selected workspace.
func (w *Workbench) ListTestSuites(ctx context.Context, sel route.Selection) ([]domain.TestSuite, error) {
	return w.suites.ListTestSuites(ctx, sel.WorkspaceID)
}

// CreateSuite asks for a name and issues a create-suite ticket whose
// output is the new suite id.
func (w *Workbench) CreateSuite(ctx context.Context, sel route.Selection) (domain.Ticket, bool, error) {
	name, ok, err := w.prompter.Text(ctx, CreateSuitePrompt())
	if err != nil {
		return domain.Ticket{}, false, err
	}
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		w.log.Debug("suite.create_cancelled", "workspace_id", sel.WorkspaceID)
		return domain.Ticket{}, false, nil
	}

	scope := domain.Scope{
		Action:         domain.ActionCreateSuite,
		OrganizationID: sel.OrganizationID,
		ProjectID:      sel.ProjectID,
		WorkspaceID:    sel.WorkspaceID,
	}
	t := w.issuer.Issue(ctx, scope, func(ctx context.Context, progress func()) (string, error) {
		progress()
		s, err := w.suites.CreateTestSuite(ctx, sel.WorkspaceID, name)
		if err != nil {
			return "", err
		}
		return s.ID, nil
	})
	return t, true, nil
}

// DeleteSuite confirms and issues a delete-suite ticket.
func (w *Workbench) DeleteSuite(ctx context.Context, sel route.Selection, suite domain.TestSuite) (domain.Ticket, bool, error) {
	yes, err := w.prompter.Confirm(ctx, deleteSuitePrompt(suite.Name))
	if err != nil || !yes {
		return domain.Ticket{}, false, err
	}

	scope := domain.Scope{
		Action:         domain.ActionDeleteSuite,
		OrganizationID: sel.OrganizationID,
		ProjectID:      sel.ProjectID,
		WorkspaceID:    sel.WorkspaceID,
		SuiteID:        suite.ID,
	}
	t := w.issuer.Issue(ctx, scope, func(ctx context.Context, progress func()) (string, error) {
		progress()
		if err := w.suites.DeleteTestSuite(ctx, sel.WorkspaceID, suite.ID); err != nil {
			return "", err
		}
		return suite.ID, nil
	})
	return t, true, nil
}

// RunAllTests issues a run-all-tests ticket whose output is the result id.
func (w *Workbench) RunAllTests(ctx context.Context, sel route.Selection, suiteID string) domain.Ticket {
	scope := domain.Scope{
		Action:         domain.ActionRunAllTests,
		OrganizationID: sel.OrganizationID,
		ProjectID:      sel.ProjectID,
		WorkspaceID:    sel.WorkspaceID,
		SuiteID:        suiteID,
	}
	return w.issuer.Issue(ctx, scope, func(ctx context.Context, progress func()) (string, error) {
		res, err := w.run.Execute(ctx, sel.WorkspaceID, suiteID, progress)
		if err != nil {
			return "", err
		}
		return res.ID, nil
	})
}

// SetActiveEnvironment issues a set-active-environment ticket.
func (w *Workbench) SetActiveEnvironment(ctx context.Context, sel route.Selection, environmentID string) domain.Ticket {
	scope := domain.Scope{
		Action:         domain.ActionSetActiveEnvironment,
		OrganizationID: sel.OrganizationID,
		ProjectID:      sel.ProjectID,
		WorkspaceID:    sel.WorkspaceID,
		EnvironmentID:  environmentID,
	}
	return w.issuer.Issue(ctx, scope, func(ctx context.Context, progress func()) (string, error) {
		progress()
		if err := w.envs.SetActiveEnvironment(ctx, sel.WorkspaceID, environmentID); err != nil {
			return "", err
		}
		return environmentID, nil
	})
}

// DeleteProject confirms and issues a delete-project ticket. Default
// projects are refused before anything is asked.
func (w *Workbench) DeleteProject(ctx context.Context, project domain.Project) (domain.Ticket, bool, error) {
	if domain.IsDefaultOrganizationProject(project) {
		return domain.Ticket{}, false, &domain.OpError{
			Op:   "usecase.delete_project",
			Kind: domain.KindPrecondition,
			Err:  domain.ErrDefaultProject,
		}
	}

	yes, err := w.prompter.Confirm(ctx, deleteProjectPrompt(project.Name))
	if err != nil || !yes {
		return domain.Ticket{}, false, err
	}

	scope := domain.Scope{
		Action:         domain.ActionDeleteProject,
		OrganizationID: project.OrganizationID,
		ProjectID:      project.ID,
	}
	t := w.issuer.Issue(ctx, scope, func(ctx context.Context, progress func()) (string, error) {
		progress()
		if err := w.projects.DeleteProject(ctx, project.OrganizationID, project.ID); err != nil {
			return "", err
		}
		return project.ID, nil
	})
	return t, true, nil
}
