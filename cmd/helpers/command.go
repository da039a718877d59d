package helpers

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/nbcheck/cmd/config"
	harness "github.com/zinc-sig/nbcheck/internal/config"
	"github.com/zinc-sig/nbcheck/internal/runner"
)

// ParseTimeout parses and validates a timeout duration string
func ParseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout duration: %w", err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}

	return timeout, nil
}

// ResolveConfig loads the config file and environment, then applies the
// flags the user actually set. --exclude-tag adds to the configured tags.
func ResolveConfig(cmd *cobra.Command, path string, flags *config.HarnessFlags) (*harness.Config, error) {
	cfg, err := harness.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Root != "" {
		cfg.Root = flags.Root
	}
	if cmd.Flags().Changed("timeout") {
		timeout, err := ParseTimeout(flags.TimeoutStr)
		if err != nil {
			return nil, err
		}
		cfg.Timeout = harness.Duration(timeout)
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = flags.Jobs
	}
	cfg.ExcludeTags = append(cfg.ExcludeTags, flags.ExcludeTags...)
	if flags.Runner != "" {
		argv, err := runner.ParseRunner(flags.Runner)
		if err != nil {
			return nil, err
		}
		cfg.Runner = argv
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
