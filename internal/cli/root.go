// Package cli holds the modelsvc command tree: serve, predict and run-job.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modelsvc/internal/config"
	"modelsvc/internal/registry"
)

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root, rt := newRootCmd(registry.Default())
	root.SetArgs(args)
	if err := execute(ctx, root, rt); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

// execute runs root and then releases the log file. Cobra skips the post-run
// hooks when a command fails, so the close cannot live there alone.
func execute(ctx context.Context, root *cobra.Command, rt *runtime) error {
	err := root.ExecuteContext(ctx)
	if cerr := rt.close(); err == nil {
		err = cerr
	}
	return err
}

// runtime is the state shared by subcommands once flags are parsed.
type runtime struct {
	reg    *registry.Registry
	v      *viper.Viper
	cfg    config.Config
	log    zerolog.Logger
	closer io.Closer
}

// close releases the log file once; later calls are no-ops.
func (rt *runtime) close() error {
	c := rt.closer
	rt.closer = nil
	if c == nil {
		return nil
	}
	return c.Close()
}

// NewRootCmd builds the command tree over reg.
func NewRootCmd(reg *registry.Registry) *cobra.Command {
	root, _ := newRootCmd(reg)
	return root
}

func newRootCmd(reg *registry.Registry) (*cobra.Command, *runtime) {
	rt := &runtime{reg: reg, v: newViper(), log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "modelsvc",
		Short:         "Serve a prediction model over HTTP and run file jobs against it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (.yaml, .yml, .toml or .json)")
	pf.String("model", "", "Registered model to bind (defaults "+config.DefaultModel+")")
	pf.String("artifact", "", "Model artifact file, or a directory holding <model>.yaml")
	pf.String("metadata", "", "Path to model.yaml (default: discovered above the working directory)")
	pf.Bool("strict", false, "Reject unknown request fields")
	pf.String("log-level", "", "Log level: debug|info|warn|error")
	pf.String("log-file", "", "Also write JSON logs to this rotated file")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(rt.v, cmd); err != nil {
			return err
		}
		cfg, err := resolveConfig(rt.v)
		if err != nil {
			return err
		}
		rt.cfg = cfg
		l, closer, err := NewLogger(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		rt.log, rt.closer = l, closer
		return nil
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return rt.close()
	}

	root.AddCommand(newServeCmd(rt), newPredictCmd(rt), newRunJobCmd(rt), newModelsCmd(rt))

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	root.AddCommand(completionCmd)

	return root, rt
}

func newModelsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models built into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range rt.reg.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
