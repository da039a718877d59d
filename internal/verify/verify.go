package verify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/zinc-sig/nbcheck/internal/notebook"
	"github.com/zinc-sig/nbcheck/internal/output"
	"github.com/zinc-sig/nbcheck/internal/runner"
	"go.uber.org/zap"
)

type Options struct {
	Root        string
	ExcludeTags []string
	Runner      []string
	Timeout     time.Duration
	// Dir is where the runner is started; empty means the test's working directory.
	Dir    string
	Logger *zap.Logger
}

// Suite is the fixed set of notebooks a test run will execute.
type Suite struct {
	opts      Options
	Notebooks []string
	Excluded  []notebook.Exclusion
	err       error
}

// Collect discovers and filters notebooks once. A discovery error is kept
// and reported by Run so that collection can happen at package init.
func Collect(opts Options) *Suite {
	if opts.Root == "" {
		opts.Root = notebook.DefaultRoot
	}
	if opts.ExcludeTags == nil {
		opts.ExcludeTags = notebook.DefaultExcludeTags
	}
	runnable, excluded, err := notebook.Runnable(opts.Root, opts.ExcludeTags)
	return &Suite{opts: opts, Notebooks: runnable, Excluded: excluded, err: err}
}

// Run executes every collected notebook as its own subtest.
func (s *Suite) Run(t *testing.T) {
	t.Helper()
	if s.err != nil {
		t.Fatalf("notebook discovery failed: %v", s.err)
	}
	if len(s.Notebooks) == 0 {
		t.Skipf("no runnable notebooks under %s", s.opts.Root)
	}

	opts := runner.NotebookOptions{
		Runner:  s.opts.Runner,
		Timeout: s.opts.Timeout,
		Dir:     s.opts.Dir,
		Logger:  s.opts.Logger,
	}
	for _, path := range s.Notebooks {
		t.Run(TestName(s.opts.Root, path), func(t *testing.T) {
			result, err := runner.ExecuteNotebook(context.Background(), path, opts)
			if err != nil {
				t.Fatalf("Notebook execution could not start: %s: %v", path, err)
			}
			if err := Check(path, result); err != nil {
				if IsTimeout(err) {
					t.Logf("%s hit the %s execution timeout", TestName(s.opts.Root, path), timeoutOf(opts))
				}
				t.Fatal(err)
			}
		})
	}
}

func timeoutOf(opts runner.NotebookOptions) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	return runner.DefaultTimeout
}

// RequireNotebooks is the discovery sanity check. An empty notebook tree is
// skipped rather than passed, so "nothing to verify yet" is never mistaken
// for a green run.
func RequireNotebooks(t testing.TB, root string) []string {
	t.Helper()
	notebooks, err := notebook.Discover(root)
	if err != nil {
		t.Fatalf("notebook discovery failed: %v", err)
	}
	if len(notebooks) == 0 {
		t.Skipf("No notebooks found in %s/ directory", filepath.ToSlash(filepath.Clean(root)))
	}
	return notebooks
}

// FailureError carries the diagnostic for a notebook that did not exit 0.
type FailureError struct {
	Notebook string
	Result   *runner.Result
}

func (e *FailureError) Error() string {
	return Diagnostic(e.Notebook, e.Result)
}

// Check returns a *FailureError when the notebook's exit code is non-zero.
func Check(path string, result *runner.Result) error {
	if result.ExitCode == 0 {
		return nil
	}
	return &FailureError{Notebook: path, Result: result}
}

// IsTimeout reports whether err is a failure caused by the execution timeout.
func IsTimeout(err error) bool {
	var failure *FailureError
	return errors.As(err, &failure) && failure.Result.Status == runner.StatusTimeout
}

// Diagnostic is the failure message: notebook, exit code, duration and both
// output streams, enough to debug without re-running by hand.
func Diagnostic(path string, result *runner.Result) string {
	return fmt.Sprintf(`
Notebook execution failed: %s
Exit code: %d
Duration: %ss

Standard Output:
%s

Standard Error:
%s
`, path, result.ExitCode, output.FormatSeconds(result.Duration), result.Stdout, result.Stderr)
}

// TestName is the subtest name for a notebook: its slash-separated path
// relative to root.
func TestName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// RunnerAvailable reports whether the runner executable can be found.
func RunnerAvailable(command []string) bool {
	if len(command) == 0 {
		command = runner.DefaultRunner
	}
	_, err := exec.LookPath(command[0])
	return err == nil
}
