package runner

import (
	"fmt"
	"io"
)

// PrintPreExecution prints notebook details before execution
func PrintPreExecution(w io.Writer, notebook string, config *Config) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Notebook Execution Details")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Notebook: %s\n", notebook)
	fmt.Fprintf(w, "Command:  %s\n", FullCommand(config))
	if config.Timeout > 0 {
		fmt.Fprintf(w, "Timeout:  %s\n", config.Timeout)
	}
	fmt.Fprintln(w, "----------------------------------------")
}

// PrintPostExecution prints execution results after the notebook completes
func PrintPostExecution(w io.Writer, result *Result) {
	fmt.Fprintln(w, "Execution Results:")
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Status:         %s\n", result.Status)
	fmt.Fprintf(w, "Exit Code:      %d\n", result.ExitCode)
	fmt.Fprintf(w, "Execution Time: %d ms\n", result.ExecutionTime)
	if result.Failed() && result.Stderr != "" {
		fmt.Fprintln(w, "----------------------------------------")
		fmt.Fprintln(w, "Standard Error:")
		fmt.Fprintln(w, result.Stderr)
	}
	fmt.Fprintln(w, "========================================")
}
