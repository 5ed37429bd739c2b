package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// options carries the persistent settings every command reads. Values
// come from flags, TESTDECK_* env vars and ~/.config/testdeck/config.yaml.
type options struct {
	v       *viper.Viper
	cfgFile string
}

func (o *options) debug() bool       { return o.v.GetBool("debug") }
func (o *options) workspace() string { return strings.TrimSpace(o.v.GetString("workspace")) }
func (o *options) yes() bool         { return o.v.GetBool("yes") }

func (o *options) readConfig() error {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		o.v.AddConfigPath(filepath.Join(home, ".config", "testdeck"))
		o.v.SetConfigName("config")
		o.v.SetConfigType("yaml")
	}

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func newOptions() *options {
	v := viper.New()
	v.SetEnvPrefix("TESTDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &options{v: v}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(newOptions())
}

func buildRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "testdeck",
		Short:        "testdeck: terminal workbench for API test suites",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.readConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorkbench(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: ~/.config/testdeck/config.yaml)")
	pf.Bool("debug", false, "enable verbose logging to .testdeck/logs/testdeck.log")
	pf.StringP("workspace", "w", "", "workspace root (autodetected if omitted)")
	pf.BoolP("yes", "y", false, "answer yes to confirmations")
	for _, name := range []string{"debug", "workspace", "yes"} {
		_ = opts.v.BindPFlag(name, pf.Lookup(name))
	}

	cmd.AddCommand(
		initCmd(),
		suitesCmd(opts),
		runCmd(opts),
		envsCmd(opts),
		projectsCmd(opts),
		resultsCmd(opts),
		versionCmd(),
	)
	return cmd
}
