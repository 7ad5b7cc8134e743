package pveum

import (
	"context"
	"fmt"

	"github.com/imamik/pvebootstrap/internal/runner"
)

// fakeRunner scripts command responses and records every command issued.
type fakeRunner struct {
	commands []string
	respond  func(cmd string) (runner.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd string) (runner.Result, error) {
	f.commands = append(f.commands, cmd)
	return f.respond(cmd)
}

// scripted builds a fakeRunner that answers exact command strings from the
// given table and fails the test-visible way on anything unexpected.
func scripted(responses map[string]runner.Result) *fakeRunner {
	return &fakeRunner{
		respond: func(cmd string) (runner.Result, error) {
			if res, ok := responses[cmd]; ok {
				return res, nil
			}
			return runner.Result{}, fmt.Errorf("unexpected command: %q", cmd)
		},
	}
}

func ok(output string) runner.Result {
	return runner.Result{ExitCode: 0, Output: output}
}

func failed(output string) runner.Result {
	return runner.Result{ExitCode: 255, Output: output}
}
