package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func resultsCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "results",
		Short: "Inspect saved run results",
	}

	c.AddCommand(resultsListCmd(opts), resultsShowCmd(opts))
	return c
}

func resultsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list [suite]",
		Short: "List results, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			suiteID := ""
			if len(args) == 1 {
				suites, err := ws.suites.ListTestSuites(cmd.Context(), ws.workspaceID())
				if err != nil {
					return err
				}
				suite, err := findSuite(suites, args[0])
				if err != nil {
					return err
				}
				suiteID = suite.ID
			}

			results, err := ws.results.ListResults(suiteID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "(no results found)")
				return nil
			}
			for _, r := range results {
				passed, failed := r.Counts()
				fmt.Fprintf(out, "- %s  %s  %s  %d passed, %d failed\n",
					r.ID, r.SuiteName, r.StartedAt.Format(time.RFC3339), passed, failed)
			}
			return nil
		},
	}
}

func resultsShowCmd(opts *options) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "show <result-id>",
		Short: "Print a saved result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			res, err := ws.results.GetResult(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}
