package pveum

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imamik/pvebootstrap/internal/runner"
)

// jsonFlagVariants are the structured-output flag spellings, newest first.
var jsonFlagVariants = []string{"--output-format json", "--format json"}

// ProbeResult is the outcome of a structured-output negotiation.
type ProbeResult struct {
	Result runner.Result

	// Structured is true when Result.Output parsed as JSON.
	Structured bool
}

// Probe runs baseCommand with each structured-output flag variant in order
// and stops at the first zero exit. A zero exit whose output fails to parse
// as JSON is returned as-is with Structured=false: the command ran, just
// without structured output, so trying further variants would only repeat
// it. If every variant exits non-zero the bare command is run once and its
// result returned unstructured.
func Probe(ctx context.Context, r runner.Runner, baseCommand string) (ProbeResult, error) {
	for _, flag := range jsonFlagVariants {
		res, err := r.Run(ctx, baseCommand+" "+flag)
		if err != nil {
			return ProbeResult{}, fmt.Errorf("transport failure running %q: %w", baseCommand, err)
		}
		if res.OK() {
			return ProbeResult{Result: res, Structured: json.Valid([]byte(res.Output))}, nil
		}
	}

	res, err := r.Run(ctx, baseCommand)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("transport failure running %q: %w", baseCommand, err)
	}
	return ProbeResult{Result: res, Structured: false}, nil
}
