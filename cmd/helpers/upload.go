package helpers

import (
	"context"
	"fmt"

	"github.com/zinc-sig/nbcheck/cmd/config"
	"github.com/zinc-sig/nbcheck/internal/output"
	"github.com/zinc-sig/nbcheck/internal/params"
	"github.com/zinc-sig/nbcheck/internal/upload"
	"go.uber.org/zap"
)

// BuildUploadConfig builds upload configuration from all sources
func BuildUploadConfig(cfg *config.UploadConfig) (map[string]any, error) {
	settings, err := params.BuildMap(upload.EnvPrefix, cfg.Config, cfg.ConfigKV, cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	return settings, nil
}

// SetupUploadProvider creates and configures an upload provider. It
// returns nil when no provider is requested.
func SetupUploadProvider(ctx context.Context, cfg *config.UploadConfig) (upload.Provider, error) {
	if cfg.Provider == "" {
		return nil, nil
	}

	settings, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := upload.NewProvider(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, nil
}

// PublishLogs uploads the captured streams of every failed notebook and
// links them from the summary. The first failure is kept in UploadError;
// remaining notebooks are still attempted.
func PublishLogs(ctx context.Context, provider upload.Provider, summary *output.Summary, logger *zap.Logger) {
	if provider == nil {
		return
	}

	for i := range summary.Results {
		result := &summary.Results[i]
		if result.ExitCode == 0 {
			continue
		}

		paths, err := upload.UploadLogs(ctx, provider, summary.RunID, result.Notebook, result.Stdout, result.Stderr)
		if err != nil {
			logger.Error("log upload failed", zap.String("notebook", result.Notebook), zap.Error(err))
			if summary.UploadError == "" {
				summary.UploadError = err.Error()
			}
			continue
		}

		result.StdoutLog = paths.Stdout
		result.StderrLog = paths.Stderr
		logger.Debug("uploaded notebook logs",
			zap.String("provider", provider.Name()),
			zap.String("notebook", result.Notebook),
			zap.String("stdout", paths.Stdout),
			zap.String("stderr", paths.Stderr))
	}
}
