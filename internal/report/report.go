// Package report provides retention and retrieval of diagnosis reports,
// so MCP clients can drill back into earlier runs by ID.
package report

import "time"

// Report is the assembled record of one diagnose invocation.
type Report struct {
	ID     string   `json:"id"`
	Script string   `json:"script"`
	Args   []string `json:"args,omitempty"`

	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
	TimedOut bool   `json:"timed_out,omitempty"`

	Hint      string `json:"hint,omitempty"`
	Diagnosis string `json:"diagnosis,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Failed reports whether the underlying run exited non-zero.
func (r *Report) Failed() bool {
	return r.ExitCode != 0
}

// Store persists and retrieves reports.
type Store interface {
	Save(report *Report) error
	Load(runID string) (*Report, error)
}
