package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNotebookConfig(t *testing.T) {
	tests := []struct {
		name        string
		opts        NotebookOptions
		wantCommand string
		wantArgs    []string
		wantTimeout time.Duration
		wantErr     bool
	}{
		{
			name:        "default runner and timeout",
			opts:        NotebookOptions{},
			wantCommand: "uvx",
			wantArgs:    []string{"marimo", "export", "html", "notebooks/a.py", "-o", os.DevNull},
			wantTimeout: DefaultTimeout,
		},
		{
			name:        "custom runner",
			opts:        NotebookOptions{Runner: []string{"python", "{notebook}"}, Timeout: 30 * time.Second},
			wantCommand: "python",
			wantArgs:    []string{"notebooks/a.py"},
			wantTimeout: 30 * time.Second,
		},
		{
			name:        "placeholder inside an argument",
			opts:        NotebookOptions{Runner: []string{"run", "--in={notebook}", "--out={output}"}},
			wantCommand: "run",
			wantArgs:    []string{"--in=notebooks/a.py", "--out=" + os.DevNull},
			wantTimeout: DefaultTimeout,
		},
		{
			name:    "blank command",
			opts:    NotebookOptions{Runner: []string{" ", "{notebook}"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := NotebookConfig("notebooks/a.py", tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("NotebookConfig() error = %v", err)
			}
			if config.Command != tt.wantCommand {
				t.Errorf("Command = %q, want %q", config.Command, tt.wantCommand)
			}
			if !reflect.DeepEqual(config.Args, tt.wantArgs) {
				t.Errorf("Args = %v, want %v", config.Args, tt.wantArgs)
			}
			if config.Timeout != tt.wantTimeout {
				t.Errorf("Timeout = %v, want %v", config.Timeout, tt.wantTimeout)
			}
		})
	}
}

func TestNotebookConfigDoesNotMutateDefault(t *testing.T) {
	before := append([]string(nil), DefaultRunner...)
	if _, err := NotebookConfig("x.py", NotebookOptions{}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, DefaultRunner) {
		t.Errorf("DefaultRunner changed to %v", DefaultRunner)
	}
}

func TestParseRunner(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{in: "uvx marimo export html {notebook} -o {output}", want: []string{"uvx", "marimo", "export", "html", "{notebook}", "-o", "{output}"}},
		{in: "python", want: []string{"python", "{notebook}"}},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRunner(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRunner(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRunner(%q) error = %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseRunner(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExecuteNotebook(t *testing.T) {
	dir := t.TempDir()
	pass := filepath.Join(dir, "pass.py")
	fail := filepath.Join(dir, "fail.py")
	slow := filepath.Join(dir, "slow.py")
	_ = os.WriteFile(pass, []byte("echo rendered\n"), 0644)
	_ = os.WriteFile(fail, []byte("echo 'NameError: x' >&2\nexit 1\n"), 0644)
	_ = os.WriteFile(slow, []byte("sleep 5\n"), 0644)

	runner := []string{"sh", "{notebook}"}

	result, err := ExecuteNotebook(context.Background(), pass, NotebookOptions{Runner: runner, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("ExecuteNotebook() error = %v", err)
	}
	if result.Status != StatusSuccess || result.Stdout != "rendered\n" {
		t.Errorf("pass notebook: status %s stdout %q", result.Status, result.Stdout)
	}
	if result.Duration <= 0 || result.Duration >= 5*time.Second {
		t.Errorf("pass notebook duration %v out of range", result.Duration)
	}

	result, err = ExecuteNotebook(context.Background(), fail, NotebookOptions{Runner: runner, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("ExecuteNotebook() error = %v", err)
	}
	if result.ExitCode != 1 || result.Stderr != "NameError: x\n" {
		t.Errorf("fail notebook: exit %d stderr %q", result.ExitCode, result.Stderr)
	}

	result, err = ExecuteNotebook(context.Background(), slow, NotebookOptions{Runner: runner, Timeout: 150 * time.Millisecond})
	if err != nil {
		t.Fatalf("ExecuteNotebook() error = %v", err)
	}
	if result.Status != StatusTimeout || result.ExitCode != TimeoutExitCode {
		t.Errorf("slow notebook: status %s exit %d", result.Status, result.ExitCode)
	}
	if result.Duration < 150*time.Millisecond {
		t.Errorf("slow notebook duration %v below timeout", result.Duration)
	}
}

func TestPrinter(t *testing.T) {
	config := &Config{Command: "sh", Args: []string{"a.py"}, Timeout: time.Minute}
	var buf bytes.Buffer
	PrintPreExecution(&buf, "a.py", config)
	PrintPostExecution(&buf, &Result{Status: StatusFailed, ExitCode: 3, ExecutionTime: 12, Stderr: "boom"})

	out := buf.String()
	for _, want := range []string{"Notebook: a.py", "Command:  sh a.py", "Timeout:  1m0s", "Status:         failed", "Exit Code:      3", "Execution Time: 12 ms", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("printer output missing %q\n%s", want, out)
		}
	}
}
