package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/testdeck/internal/infra/fsworkspace"
	"github.com/aalvaropc/testdeck/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a testdeck workspace (config, example suite, environments)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := path
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = wd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized testdeck workspace in %s\n", root)
			fmt.Fprintln(out, "Next: `testdeck run ste_example` or just `testdeck`")
			return nil
		},
	}

	c.Flags().StringVarP(&path, "path", "p", "", "Workspace directory (default: current directory)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing scaffold files")
	return c
}
