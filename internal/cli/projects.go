package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/testdeck/internal/domain"
)

func projectsCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "projects",
		Short: "Manage the projects of the organization",
	}

	c.AddCommand(projectsListCmd(opts), projectsDeleteCmd(opts))
	return c
}

func projectsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			projects, err := ws.store.ListProjects(cmd.Context(), ws.cfg.Workspace.OrganizationID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "(no projects found)")
				return nil
			}
			for _, p := range projects {
				mark := " "
				if p.ID == ws.cfg.Workspace.ProjectID {
					mark = "*"
				}
				suffix := ""
				if domain.IsDefaultOrganizationProject(p) {
					suffix = "  (default)"
				}
				fmt.Fprintf(out, "%s %s  %s%s\n", mark, p.ID, p.Name, suffix)
			}
			return nil
		},
	}
}

func projectsDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project (default projects cannot be deleted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx := cmd.Context()
			project, err := ws.store.GetProject(ctx, ws.cfg.Workspace.OrganizationID, args[0])
			if err != nil {
				return err
			}

			wb := ws.workbench(newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout(), opts.yes()))
			ev, issued, err := issueAndWait(ctx, ws.tickets, func() (domain.Ticket, bool, error) {
				return wb.DeleteProject(ctx, project)
			}, nil)
			if err != nil {
				return err
			}
			if !issued {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := settled(ev); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", project.Name)
			return nil
		},
	}
}
