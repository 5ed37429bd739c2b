package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/testdeck/internal/domain"
)

func suitesCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "suites",
		Short: "Manage test suites in a workspace",
	}

	c.AddCommand(suitesListCmd(opts), suitesCreateCmd(opts), suitesDeleteCmd(opts))
	return c
}

func suitesListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List test suites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			suites, err := ws.suites.ListTestSuites(cmd.Context(), ws.workspaceID())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(suites) == 0 {
				fmt.Fprintln(out, "(no test suites found)")
				return nil
			}

			fmt.Fprintf(out, "Workspace: %s\n\n", ws.root)
			for _, s := range suites {
				fmt.Fprintf(out, "- %s  %s  (%s)\n", s.ID, s.Name, plural(len(s.Tests), "test"))
			}
			return nil
		},
	}
}

func suitesCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create an empty test suite",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			p := newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout(), opts.yes())
			if len(args) == 1 {
				p.answer = strings.TrimSpace(args[0])
			}
			wb := ws.workbench(p)

			ctx := cmd.Context()
			ev, issued, err := issueAndWait(ctx, ws.tickets, func() (domain.Ticket, bool, error) {
				return wb.CreateSuite(ctx, ws.selection())
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

			fmt.Fprintf(cmd.OutOrStdout(), "Created test suite %s\n", ev.Output)
			return nil
		},
	}
}

func suitesDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <suite>",
		Short: "Delete a test suite by id or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx := cmd.Context()
			suites, err := ws.suites.ListTestSuites(ctx, ws.workspaceID())
			if err != nil {
				return err
			}
			suite, err := findSuite(suites, args[0])
			if err != nil {
				return err
			}

			wb := ws.workbench(newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout(), opts.yes()))
			ev, issued, err := issueAndWait(ctx, ws.tickets, func() (domain.Ticket, bool, error) {
				return wb.DeleteSuite(ctx, ws.selection(), suite)
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

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted test suite %s\n", suite.Name)
			return nil
		},
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
