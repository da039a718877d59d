package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// TimeoutExitCode is reported when a command is killed for running too long.
const TimeoutExitCode = -1

// waitDelay bounds how long Wait lingers on inherited pipes after a kill.
const waitDelay = 2 * time.Second

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

type Config struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration // zero disables the timeout
	Logger  *zap.Logger
}

type Result struct {
	Command       string
	Status        Status
	ExitCode      int
	Stdout        string
	Stderr        string
	Duration      time.Duration
	ExecutionTime int64 // milliseconds
}

// Failed reports whether the command did not exit cleanly.
func (r *Result) Failed() bool {
	return r.ExitCode != 0
}

// Execute runs the command once and waits for it. A non-zero exit or a
// timeout is reported in the Result; the error is reserved for commands
// that could not be started and for cancellation of ctx.
func Execute(ctx context.Context, config *Config) (*Result, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	startTime := time.Now()
	runCtx := ctx
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, config.Command, config.Args...)
	cmd.Dir = config.Dir
	if len(config.Env) > 0 {
		cmd.Env = append(cmd.Environ(), config.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	isolate(cmd)

	fullCommand := FullCommand(config)
	logger.Debug("starting command",
		zap.String("command", fullCommand),
		zap.Duration("timeout", config.Timeout))

	err := cmd.Run()
	duration := time.Since(startTime)

	result := &Result{
		Command:       fullCommand,
		Duration:      duration,
		ExecutionTime: duration.Milliseconds(),
	}

	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.Status = StatusTimeout
		result.ExitCode = TimeoutExitCode
		result.Stderr = fmt.Sprintf("Notebook execution exceeded %s timeout", formatTimeout(config.Timeout))
		logger.Warn("command timed out",
			zap.String("command", fullCommand),
			zap.Duration("timeout", config.Timeout),
			zap.Duration("elapsed", duration))
		return result, nil
	}
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("command %q canceled: %w", fullCommand, ctx.Err())
	}

	// The runner exited but something it spawned still holds the output
	// pipes. Its own exit status decides the verdict; the stragglers die.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		logger.Warn("output still open after command exited",
			zap.String("command", fullCommand),
			zap.Int("exit_code", cmd.ProcessState.ExitCode()))
		killGroup(cmd)
		err = nil
		if !cmd.ProcessState.Success() {
			err = &exec.ExitError{ProcessState: cmd.ProcessState}
		}
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			return nil, fmt.Errorf("failed to start command: %w", err)
		}
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			result.ExitCode = 128 + int(status.Signal())
		} else if ok {
			result.ExitCode = status.ExitStatus()
		} else {
			result.ExitCode = exitError.ExitCode()
		}
		if result.ExitCode == 0 {
			result.ExitCode = 1
		}
		result.Status = StatusFailed
	} else {
		result.Status = StatusSuccess
	}

	logger.Debug("command finished",
		zap.String("command", fullCommand),
		zap.String("status", string(result.Status)),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("elapsed", duration))

	return result, nil
}

// FullCommand renders the command line the way it is reported in results.
func FullCommand(config *Config) string {
	if len(config.Args) == 0 {
		return config.Command
	}
	return config.Command + " " + strings.Join(config.Args, " ")
}

// formatTimeout prints whole-second timeouts as "600s" and anything finer
// with Go duration syntax.
func formatTimeout(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
	return d.String()
}
