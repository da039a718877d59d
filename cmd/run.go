package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zinc-sig/nbcheck/cmd/config"
	"github.com/zinc-sig/nbcheck/cmd/helpers"
	"github.com/zinc-sig/nbcheck/internal/notebook"
	"github.com/zinc-sig/nbcheck/internal/output"
	"github.com/zinc-sig/nbcheck/internal/runner"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	harness config.HarnessFlags
	context config.ContextConfig
	webhook config.WebhookConfig
	upload  config.UploadConfig
}

func newRunCommand(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute every runnable notebook",
		Long: `Discover notebooks under the root, drop the excluded ones and execute the
rest. A JSON summary is printed when all notebooks have finished.

Finding no notebooks is not an error: the summary reports "skipped": true.`,
		Example: `  nbcheck run
  nbcheck run --root notebooks --timeout 15m --jobs 4
  nbcheck run --exclude-tag slow --context-kv pipeline=nightly
  nbcheck run --upload-provider minio --upload-config-file minio.yaml --webhook-url https://ci.example.com/hook`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNotebooks(cmd, opts)
		},
	}

	helpers.SetupRootFlag(cmd, &opts.harness)
	helpers.SetupExecutionFlags(cmd, &opts.harness)
	cmd.Flags().IntVarP(&opts.harness.Jobs, "jobs", "j", 1, "Number of notebooks executed concurrently")
	helpers.SetupContextFlags(cmd, &opts.context)
	helpers.SetupWebhookFlags(cmd, &opts.webhook)
	helpers.SetupUploadFlags(cmd, &opts.upload)

	return cmd
}

func (a *app) runNotebooks(cmd *cobra.Command, opts *runOptions) error {
	ctx := cmd.Context()

	cfg, err := helpers.ResolveConfig(cmd, a.configPath, &opts.harness)
	if err != nil {
		return err
	}
	runContext, err := helpers.BuildContext(&opts.context)
	if err != nil {
		return err
	}
	webhookCfg, retryCfg, err := helpers.ParseWebhookConfig(&opts.webhook)
	if err != nil {
		return err
	}
	provider, err := helpers.SetupUploadProvider(ctx, &opts.upload)
	if err != nil {
		return err
	}

	runnable, excluded, err := notebook.Runnable(cfg.Root, cfg.ExcludeTags)
	if err != nil {
		return err
	}

	summary := &output.Summary{
		RunID:    uuid.NewString(),
		Root:     cfg.Root,
		Excluded: excluded,
		Results:  []output.Result{},
		Context:  runContext,
	}
	logger := a.logger.With(zap.String("run_id", summary.RunID))
	for _, ex := range excluded {
		logger.Info("notebook excluded", zap.String("notebook", ex.Path), zap.String("tag", ex.Tag))
	}

	start := time.Now()
	if len(runnable) == 0 {
		logger.Warn("no notebooks found", zap.String("root", cfg.Root))
		summary.Skipped = true
	} else {
		results, err := a.executeAll(ctx, cmd, cfg.Jobs, runnable, cfg.NotebookOptions(), logger)
		if err != nil {
			return err
		}
		for _, r := range results {
			summary.Add(r)
		}
	}
	summary.DurationSeconds = output.Seconds(time.Since(start))

	helpers.PublishLogs(ctx, provider, summary, logger)
	helpers.SendWebhook(ctx, summary, webhookCfg, retryCfg, logger)

	if err := helpers.OutputJSON(cmd.OutOrStdout(), summary); err != nil {
		return err
	}

	logger.Info("run finished",
		zap.Int("total", summary.Total),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Int("timed_out", summary.TimedOut))
	if !summary.OK() {
		return fmt.Errorf("%d of %d notebooks failed", summary.Failed, summary.Total)
	}
	return nil
}

// executeAll runs the notebooks with at most jobs in flight. Results keep
// the order of paths. Only start failures and cancellation abort the run.
func (a *app) executeAll(ctx context.Context, cmd *cobra.Command, jobs int, paths []string, base runner.NotebookOptions, logger *zap.Logger) ([]output.Result, error) {
	results := make([]output.Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			nbOpts := base
			nbOpts.Logger = logger.With(zap.String("notebook", path))

			runConfig, err := runner.NotebookConfig(path, nbOpts)
			if err != nil {
				return err
			}
			if a.verbose && jobs == 1 {
				runner.PrintPreExecution(cmd.ErrOrStderr(), path, runConfig)
			}

			result, err := runner.Execute(ctx, runConfig)
			if err != nil {
				return fmt.Errorf("failed to execute %s: %w", path, err)
			}
			if a.verbose && jobs == 1 {
				runner.PrintPostExecution(cmd.ErrOrStderr(), result)
			}

			results[i] = helpers.NewResult(path, result, base.Timeout)
			nbOpts.Logger.Info("notebook finished",
				zap.String("status", string(result.Status)),
				zap.Int("exit_code", result.ExitCode),
				zap.Duration("duration", result.Duration))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
