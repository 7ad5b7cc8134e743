package pveum

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/pvebootstrap/internal/runner"
)

func TestProbe_FirstVariantStructured(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user list --output-format json": ok(`[{"userid":"root@pam"}]`),
	})

	probe, err := Probe(context.Background(), r, "pveum user list")
	require.NoError(t, err)
	assert.True(t, probe.Structured)
	assert.Equal(t, `[{"userid":"root@pam"}]`, probe.Result.Output)
	assert.Equal(t, []string{"pveum user list --output-format json"}, r.commands)
}

func TestProbe_ZeroExitWithoutJSONStopsImmediately(t *testing.T) {
	// A zero exit means the command ran; further flag variants would only
	// repeat it, so the plain output is returned as-is.
	r := scripted(map[string]runner.Result{
		"pveum user list --output-format json": ok("root@pam\nansible@pve\n"),
	})

	probe, err := Probe(context.Background(), r, "pveum user list")
	require.NoError(t, err)
	assert.False(t, probe.Structured)
	assert.Equal(t, "root@pam\nansible@pve\n", probe.Result.Output)
	assert.Len(t, r.commands, 1)
}

func TestProbe_FallsBackToSecondVariant(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user list --output-format json": failed("Unknown option: output-format"),
		"pveum user list --format json":        ok(`[{"userid":"root@pam"}]`),
	})

	probe, err := Probe(context.Background(), r, "pveum user list")
	require.NoError(t, err)
	assert.True(t, probe.Structured)
	assert.Equal(t, []string{
		"pveum user list --output-format json",
		"pveum user list --format json",
	}, r.commands)
}

func TestProbe_AllVariantsFailRerunsBareCommand(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user list --output-format json": failed("Unknown option: output-format"),
		"pveum user list --format json":        failed("Unknown option: format"),
		"pveum user list":                      ok("root@pam\n"),
	})

	probe, err := Probe(context.Background(), r, "pveum user list")
	require.NoError(t, err)
	assert.False(t, probe.Structured)
	assert.Equal(t, 0, probe.Result.ExitCode)
	assert.Equal(t, "root@pam\n", probe.Result.Output)
	assert.Len(t, r.commands, 3)
}

func TestProbe_BareCommandFailureIsReturnedNotSwallowed(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user list --output-format json": failed("permission denied"),
		"pveum user list --format json":        failed("permission denied"),
		"pveum user list":                      failed("permission denied"),
	})

	probe, err := Probe(context.Background(), r, "pveum user list")
	require.NoError(t, err)
	assert.False(t, probe.Structured)
	assert.Equal(t, 255, probe.Result.ExitCode)
}

func TestProbe_TransportFailure(t *testing.T) {
	r := &fakeRunner{
		respond: func(string) (runner.Result, error) {
			return runner.Result{}, errors.New("connection lost")
		},
	}

	_, err := Probe(context.Background(), r, "pveum user list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport failure")
	assert.Contains(t, err.Error(), "connection lost")
}
