package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/testdeck/internal/domain"
)

func envsCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "envs",
		Short: "Manage environments in a workspace",
	}

	c.AddCommand(envsListCmd(opts), envsUseCmd(opts))
	return c
}

func envsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx := cmd.Context()
			base, err := ws.store.BaseEnvironment(ctx, ws.workspaceID())
			if err != nil {
				return err
			}
			subs, err := ws.store.SubEnvironments(ctx, ws.workspaceID())
			if err != nil {
				return err
			}
			activeID, err := ws.store.ActiveEnvironmentID(ctx, ws.workspaceID())
			if err != nil {
				return err
			}
			active := domain.ResolveActive(base, subs, activeID)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Workspace: %s\n\n", ws.root)
			for _, e := range append([]domain.Environment{base}, subs...) {
				mark := " "
				if e.ID == active.ID {
					mark = "*"
				}
				name := e.Name
				if e.ID == base.ID {
					name = domain.BaseEnvironmentLabel
				}
				fmt.Fprintf(out, "%s %s  %s  (%s)\n", mark, e.ID, name, plural(len(e.Vars), "var"))
			}
			return nil
		},
	}
}

func envsUseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "use <environment>",
		Short: "Make an environment active (id, name, or \"base\")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx := cmd.Context()
			base, err := ws.store.BaseEnvironment(ctx, ws.workspaceID())
			if err != nil {
				return err
			}
			subs, err := ws.store.SubEnvironments(ctx, ws.workspaceID())
			if err != nil {
				return err
			}
			env, err := findEnvironment(base, subs, args[0])
			if err != nil {
				return err
			}

			wb := ws.workbench(newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout(), opts.yes()))
			ev, _, err := issueAndWait(ctx, ws.tickets, func() (domain.Ticket, bool, error) {
				return wb.SetActiveEnvironment(ctx, ws.selection(), env.ID), true, nil
			}, nil)
			if err != nil {
				return err
			}
			if err := settled(ev); err != nil {
				return err
			}

			name := env.Name
			if env.ID == base.ID {
				name = domain.BaseEnvironmentLabel
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active environment: %s (%s)\n", name, env.ID)
			return nil
		},
	}
}
