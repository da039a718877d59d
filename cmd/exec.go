package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/nbcheck/cmd/config"
	"github.com/zinc-sig/nbcheck/cmd/helpers"
	"github.com/zinc-sig/nbcheck/internal/runner"
)

func newExecCommand(a *app) *cobra.Command {
	var flags config.HarnessFlags

	cmd := &cobra.Command{
		Use:   "exec <notebook>",
		Short: "Execute a single notebook",
		Long: `Execute one notebook through the runner and print its result as JSON.
Tags are not consulted: the notebook runs even if it would be excluded.`,
		Example: `  nbcheck exec notebooks/intro.py
  nbcheck exec notebooks/heavy.py --timeout 20m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("notebook not found: %w", err)
			}

			cfg, err := helpers.ResolveConfig(cmd, a.configPath, &flags)
			if err != nil {
				return err
			}
			opts := cfg.NotebookOptions()
			opts.Logger = a.logger

			runConfig, err := runner.NotebookConfig(path, opts)
			if err != nil {
				return err
			}
			if a.verbose {
				runner.PrintPreExecution(cmd.ErrOrStderr(), path, runConfig)
			}

			result, err := runner.Execute(cmd.Context(), runConfig)
			if err != nil {
				return fmt.Errorf("failed to execute notebook: %w", err)
			}
			if a.verbose {
				runner.PrintPostExecution(cmd.ErrOrStderr(), result)
			}

			if err := helpers.OutputJSON(cmd.OutOrStdout(), helpers.NewResult(path, result, time.Duration(cfg.Timeout))); err != nil {
				return err
			}
			if result.Failed() {
				return fmt.Errorf("notebook %s %s with exit code %d", path, result.Status, result.ExitCode)
			}
			return nil
		},
	}

	helpers.SetupExecutionFlags(cmd, &flags)

	return cmd
}
