package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/ticket"
)

func runCmd(opts *options) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "run <suite>",
		Short: "Run every test of a suite against the active environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pretty" && format != "json" && format != "" {
				return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
			}

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
			errOut := cmd.ErrOrStderr()
			ev, _, err := issueAndWait(ctx, ws.tickets, func() (domain.Ticket, bool, error) {
				return wb.RunAllTests(ctx, ws.selection(), suite.ID), true, nil
			}, func(ev ticket.Event) {
				if ev.Kind == ticket.Progressed {
					fmt.Fprintf(errOut, "Running %s…\n", suite.Name)
				}
			})
			if err != nil {
				return err
			}
			if err := settled(ev); err != nil {
				return err
			}

			res, err := ws.results.GetResult(ev.Output)
			if err != nil {
				return err
			}
			if err := printResult(cmd.OutOrStdout(), res, format); err != nil {
				return err
			}

			if _, failed := res.Counts(); failed > 0 {
				return fmt.Errorf("run failed (%d failed test(s))", failed)
			}
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printResult(w io.Writer, res domain.TestResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"result_id": res.ID,
			"result":    res,
		})
	case "pretty", "":
		printPrettyResult(w, res)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyResult(w io.Writer, res domain.TestResult) {
	env := res.EnvironmentName
	if env == "" {
		env = domain.BaseEnvironmentLabel
	}

	fmt.Fprintf(w, "Suite:      %s\n", res.SuiteName)
	fmt.Fprintf(w, "Env:        %s\n", env)
	fmt.Fprintf(w, "Started:    %s\n", res.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration:   %s\n", res.Duration())
	if res.ID != "" {
		fmt.Fprintf(w, "Result ID:  %s\n", res.ID)
	}
	fmt.Fprintln(w)

	for _, r := range res.Results {
		status := "OK"
		if r.Failed() {
			status = "FAIL"
		}

		fmt.Fprintf(w, "- [%s] %s (%s) %dms\n", status, r.Name, r.Method, r.LatencyMS)

		if r.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Error.Message, r.Error.Kind)
		} else {
			fmt.Fprintf(w, "  status: %d\n", r.StatusCode)
		}

		if len(r.Assertions) > 0 {
			pass, fail := countAssertions(r.Assertions)
			fmt.Fprintf(w, "  assertions: %d pass / %d fail\n", pass, fail)
			for _, a := range r.Assertions {
				mark := "✓"
				if !a.Passed {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s %s: %s\n", mark, a.Name, a.Message)
			}
		}

		if len(r.Extracts) > 0 {
			ok, bad := countExtracts(r.Extracts)
			fmt.Fprintf(w, "  extracts: %d ok / %d fail\n", ok, bad)
			for _, e := range r.Extracts {
				mark := "✓"
				if !e.Success {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s %s: %s\n", mark, e.Name, e.Message)
			}
		}

		fmt.Fprintln(w)
	}

	passed, failed := res.Counts()
	fmt.Fprintf(w, "%d passed, %d failed\n", passed, failed)
}

func countAssertions(in []domain.AssertionResult) (pass int, fail int) {
	for _, a := range in {
		if a.Passed {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}

func countExtracts(in []domain.ExtractResult) (ok int, bad int) {
	for _, e := range in {
		if e.Success {
			ok++
		} else {
			bad++
		}
	}
	return ok, bad
}
