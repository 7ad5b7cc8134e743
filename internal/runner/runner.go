// Package runner provides command execution over interchangeable transports.
//
// The two implementations, Local and SSH, share one contract: run a single
// shell command, drain its combined stdout/stderr completely, and report the
// exit code. A non-zero exit code is a normal, inspectable result and never
// surfaces as an error; errors are reserved for transport failures where no
// trustworthy output exists at all.
package runner

import "context"

// Result holds the outcome of one command execution.
// Output is the merged stdout and stderr, fully drained before Run returns.
type Result struct {
	ExitCode int
	Output   string
}

// OK reports whether the command exited zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Runner executes a single shell command string.
type Runner interface {
	// Run executes command and returns its exit code and combined output.
	// The returned error is non-nil only when the transport itself failed
	// (process could not be started, SSH session broken); in that case the
	// Result must not be trusted.
	Run(ctx context.Context, command string) (Result, error)
}
