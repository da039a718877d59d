// Package config resolves harness settings from defaults, an optional
// nbcheck.yaml file and NBCHECK_CONFIG* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/zinc-sig/nbcheck/internal/notebook"
	"github.com/zinc-sig/nbcheck/internal/params"
	"github.com/zinc-sig/nbcheck/internal/runner"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "nbcheck.yaml"

// EnvPrefix selects the environment overrides (NBCHECK_CONFIG as a JSON
// object, or NBCHECK_CONFIG_ROOT, NBCHECK_CONFIG_TIMEOUT, ...).
const EnvPrefix = "NBCHECK_CONFIG"

type Config struct {
	Root        string   `yaml:"root"`
	Timeout     Duration `yaml:"timeout"`
	Jobs        int      `yaml:"jobs"`
	ExcludeTags []string `yaml:"exclude_tags"`
	Runner      Command  `yaml:"runner"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Root:        notebook.DefaultRoot,
		Timeout:     Duration(runner.DefaultTimeout),
		Jobs:        1,
		ExcludeTags: append([]string(nil), notebook.DefaultExcludeTags...),
		Runner:      append(Command(nil), runner.DefaultRunner...),
	}
}

// Load applies the config file and then the environment on top of the
// defaults. An empty path reads DefaultFile if it exists; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(params.ParseEnv(EnvPrefix)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env map[string]any) error {
	if env == nil {
		return nil
	}
	if root, ok := params.String(env, "root"); ok {
		c.Root = root
	}
	d, ok, err := params.Duration(env, "timeout")
	if err != nil {
		return err
	}
	if ok {
		c.Timeout = Duration(d)
	}
	c.Jobs = params.Int(env, "jobs", c.Jobs)
	if tags, ok := params.Strings(env, "exclude_tags"); ok {
		c.ExcludeTags = tags
	}
	if command, ok := params.String(env, "runner"); ok {
		argv, err := runner.ParseRunner(command)
		if err != nil {
			return err
		}
		c.Runner = argv
	}
	return nil
}

// Validate rejects settings the harness cannot run with.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1")
	}
	if len(c.Runner) == 0 {
		return fmt.Errorf("runner command must not be empty")
	}
	return nil
}

// NotebookOptions converts the settings for runner.ExecuteNotebook.
func (c *Config) NotebookOptions() runner.NotebookOptions {
	return runner.NotebookOptions{
		Runner:  c.Runner,
		Timeout: time.Duration(c.Timeout),
	}
}

// Duration reads "90s" style strings or a bare number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, _, err := params.Duration(map[string]any{"timeout": raw}, "timeout")
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Command is a runner command line, written either as a list or as a
// single whitespace-separated string.
type Command []string

func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		argv, err := runner.ParseRunner(node.Value)
		if err != nil {
			return err
		}
		*c = argv
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*c = list
	return nil
}
