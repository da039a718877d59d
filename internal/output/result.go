package output

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zinc-sig/nbcheck/internal/notebook"
)

// Result is the JSON record for one notebook execution.
type Result struct {
	Notebook        string          `json:"notebook"`
	Command         string          `json:"command"`
	Status          string          `json:"status"`
	ExitCode        int             `json:"exit_code"`
	ExecutionTime   int64           `json:"execution_time"` // milliseconds
	DurationSeconds decimal.Decimal `json:"duration_seconds"`
	Timeout         *int64          `json:"timeout,omitempty"` // in milliseconds

	// Captured streams are only kept for failed notebooks
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`

	// Remote locations of uploaded logs
	StdoutLog string `json:"stdout_log,omitempty"`
	StderrLog string `json:"stderr_log,omitempty"`
}

// Summary is the JSON record for a whole run.
type Summary struct {
	RunID           string               `json:"run_id"`
	Root            string               `json:"root"`
	Skipped         bool                 `json:"skipped,omitempty"`
	Total           int                  `json:"total"`
	Passed          int                  `json:"passed"`
	Failed          int                  `json:"failed"`
	TimedOut        int                  `json:"timed_out"`
	DurationSeconds decimal.Decimal      `json:"duration_seconds"`
	Excluded        []notebook.Exclusion `json:"excluded,omitempty"`
	Results         []Result             `json:"results"`
	Context         any                  `json:"context,omitempty"`

	UploadError string `json:"upload_error,omitempty"`

	// Webhook status (only in local output, not sent to webhook)
	WebhookSent  bool   `json:"webhook_sent,omitempty"`
	WebhookError string `json:"webhook_error,omitempty"`
}

// Add records one notebook result and updates the counters.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	s.Total++
	switch {
	case r.ExitCode == 0:
		s.Passed++
	case r.Status == "timeout":
		s.TimedOut++
		s.Failed++
	default:
		s.Failed++
	}
}

// OK reports whether every executed notebook passed.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// Seconds converts d to seconds rounded to one decimal place.
func Seconds(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(d.Milliseconds()).Shift(-3).Round(1)
}

// FormatSeconds renders d like "12.3".
func FormatSeconds(d time.Duration) string {
	return Seconds(d).StringFixed(1)
}
