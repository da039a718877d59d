package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	configPath string
	verbose    bool
	logger     *zap.Logger
}

// NewRootCommand builds the nbcheck command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "nbcheck",
		Short: "Discover and execute notebooks in CI",
		Long: `nbcheck finds marimo notebooks under a root directory, skips the ones tagged
as needing an unavailable environment, and executes the rest in isolated
child processes with a timeout.

Results are printed as JSON. The exit status is non-zero when any notebook fails.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default nbcheck.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging and execution details on stderr")

	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newExecCommand(a))

	return rootCmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
