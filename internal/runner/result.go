package runner

// Result holds the captured output of a single script run.
type Result struct {
	RunID    string // unique identifier for this run
	Script   string // path of the script that was run
	Stdout   string // captured stdout (may be partial on timeout)
	Stderr   string // captured stderr, or the timeout message
	ExitCode int    // child exit code; 124 signals a timeout
	TimedOut bool   // true if the child was killed for exceeding the timeout
}

// Failed reports whether the run should trigger diagnosis.
func (r *Result) Failed() bool {
	return r.ExitCode != 0
}
