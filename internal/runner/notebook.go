package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is generous because some notebooks do real computation.
const DefaultTimeout = 600 * time.Second

// Placeholders expanded in a runner command template.
const (
	NotebookPlaceholder = "{notebook}"
	OutputPlaceholder   = "{output}"
)

// DefaultRunner exports the notebook to static HTML, which forces every cell
// to execute without an interactive session. The rendered file is discarded.
var DefaultRunner = []string{"uvx", "marimo", "export", "html", NotebookPlaceholder, "-o", OutputPlaceholder}

type NotebookOptions struct {
	// Runner is the command template; empty means DefaultRunner.
	Runner []string
	// Timeout of zero means DefaultTimeout.
	Timeout time.Duration
	// Dir is the working directory of the runner, usually the repository root.
	Dir    string
	Env    []string
	Logger *zap.Logger
}

// NotebookConfig builds the Config that executes one notebook.
func NotebookConfig(path string, opts NotebookOptions) (*Config, error) {
	template := opts.Runner
	if len(template) == 0 {
		template = DefaultRunner
	}
	if strings.TrimSpace(template[0]) == "" {
		return nil, fmt.Errorf("runner command must not be empty")
	}

	argv := make([]string, len(template))
	for i, part := range template {
		part = strings.ReplaceAll(part, NotebookPlaceholder, path)
		argv[i] = strings.ReplaceAll(part, OutputPlaceholder, os.DevNull)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Config{
		Command: argv[0],
		Args:    argv[1:],
		Dir:     opts.Dir,
		Env:     opts.Env,
		Timeout: timeout,
		Logger:  opts.Logger,
	}, nil
}

// ExecuteNotebook runs a single notebook through the configured runner.
func ExecuteNotebook(ctx context.Context, path string, opts NotebookOptions) (*Result, error) {
	config, err := NotebookConfig(path, opts)
	if err != nil {
		return nil, err
	}
	return Execute(ctx, config)
}

// ParseRunner splits a runner command line on whitespace. Quoting is not
// supported; use the list form in the config file for arguments with spaces.
func ParseRunner(command string) ([]string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("runner command must not be empty")
	}
	if !strings.Contains(command, NotebookPlaceholder) {
		fields = append(fields, NotebookPlaceholder)
	}
	return fields, nil
}
