package helpers

import (
	"fmt"

	"github.com/zinc-sig/nbcheck/cmd/config"
	"github.com/zinc-sig/nbcheck/internal/params"
	"github.com/zinc-sig/nbcheck/internal/webhook"
)

// BuildWebhookConfig builds webhook settings from all sources.
// Precedence: env < file < json < kv < direct flags
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	webhookConf, err := params.BuildMap(webhook.EnvPrefix, cfg.Config, cfg.ConfigKV, cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}

	// Flags left at their defaults do not override other sources
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != "POST" {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != "none" {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}

	return webhookConf, nil
}

// ParseWebhookConfig resolves the webhook client configuration. Both
// results are nil when no URL is configured anywhere.
func ParseWebhookConfig(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	settings, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return webhook.FromSettings(settings)
}
