package helpers

import (
	"github.com/spf13/cobra"
	"github.com/zinc-sig/nbcheck/cmd/config"
)

// SetupContextFlags adds context-related flags to a command
func SetupContextFlags(cmd *cobra.Command, cfg *config.ContextConfig) {
	cmd.Flags().StringVar(&cfg.JSON, "context", "", "Context data as JSON string")
	cmd.Flags().StringArrayVar(&cfg.KV, "context-kv", nil, "Context key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.File, "context-file", "", "Path to JSON or YAML file containing context data")
}

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "upload-provider", "", "Upload provider for logs of failed notebooks (e.g., minio)")
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON or YAML file containing upload configuration")
}

// SetupRootFlag adds the notebook root and exclusion flags
func SetupRootFlag(cmd *cobra.Command, flags *config.HarnessFlags) {
	cmd.Flags().StringVar(&flags.Root, "root", "", "Directory searched for notebooks (default from config, else notebooks)")
	cmd.Flags().StringArrayVar(&flags.ExcludeTags, "exclude-tag", nil, "Additional tag that excludes a notebook (can be used multiple times)")
}

// SetupExecutionFlags adds the flags that control how notebooks are executed
func SetupExecutionFlags(cmd *cobra.Command, flags *config.HarnessFlags) {
	cmd.Flags().StringVarP(&flags.TimeoutStr, "timeout", "t", "", "Per-notebook timeout (e.g., 90s, 10m)")
	cmd.Flags().StringVar(&flags.Runner, "runner", "", "Runner command template using {notebook} and {output}")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	// Direct configuration flags
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send the run summary to")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: GET, POST, PUT, PATCH, DELETE")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")

	// Alternative configuration methods
	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON or YAML file containing webhook configuration")
}
