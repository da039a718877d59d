package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/zinc-sig/nbcheck/internal/output"
	"github.com/zinc-sig/nbcheck/internal/runner"
	"github.com/zinc-sig/nbcheck/internal/webhook"
	"go.uber.org/zap"
)

// NewResult converts an execution outcome into its JSON record. Output
// streams are kept only when the notebook failed.
func NewResult(notebook string, result *runner.Result, timeout time.Duration) output.Result {
	jsonResult := output.Result{
		Notebook:        notebook,
		Command:         result.Command,
		Status:          string(result.Status),
		ExitCode:        result.ExitCode,
		ExecutionTime:   result.ExecutionTime,
		DurationSeconds: output.Seconds(result.Duration),
	}

	// Add timeout if it was set
	if timeout > 0 {
		timeoutMs := timeout.Milliseconds()
		jsonResult.Timeout = &timeoutMs
	}

	if result.Failed() {
		jsonResult.Stdout = result.Stdout
		jsonResult.Stderr = result.Stderr
	}

	return jsonResult
}

// OutputJSON marshals v and writes it as one line
func OutputJSON(w io.Writer, v any) error {
	jsonOutput, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}

// SendWebhook delivers the summary and records the outcome on it. A
// delivery failure never fails the run.
func SendWebhook(ctx context.Context, summary *output.Summary, cfg *webhook.Config, retryCfg *webhook.RetryConfig, logger *zap.Logger) {
	if cfg == nil || cfg.URL == "" {
		return
	}

	client := webhook.NewClient(cfg, retryCfg, logger)
	logger.Debug("sending webhook", zap.String("url", cfg.URL))

	// The webhook status fields only make sense in local output
	payload := *summary
	payload.WebhookSent = false
	payload.WebhookError = ""

	if err := client.Send(ctx, &payload); err != nil {
		logger.Error("webhook delivery failed", zap.Error(err))
		summary.WebhookSent = false
		summary.WebhookError = err.Error()
		return
	}
	summary.WebhookSent = true
}
