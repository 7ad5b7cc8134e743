package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Local executes commands through the local shell. It is meant to be used
// when the tool runs directly on the Proxmox node.
type Local struct {
	// Shell is the shell binary used for interpretation. Defaults to /bin/sh.
	Shell string
}

// NewLocal creates a Local runner using /bin/sh.
func NewLocal() *Local {
	return &Local{Shell: "/bin/sh"}
}

// Run executes command via the shell and captures combined output.
func (l *Local) Run(ctx context.Context, command string) (Result, error) {
	shell := l.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Command ran and exited non-zero: a normal result.
			return Result{ExitCode: exitErr.ExitCode(), Output: string(output)}, nil
		}
		return Result{}, fmt.Errorf("failed to start command: %w", err)
	}

	return Result{ExitCode: 0, Output: string(output)}, nil
}
