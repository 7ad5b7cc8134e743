package pveum

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/pvebootstrap/internal/provision"
	"github.com/imamik/pvebootstrap/internal/runner"
)

const tokenAdd = "pveum user token add ansible@pve ansible --privsep 1 --output-format json"

func TestCreateToken_StructuredValueField(t *testing.T) {
	r := scripted(map[string]runner.Result{
		tokenAdd: ok(`{"full-tokenid":"ansible@pve!ansible","value":"abcd1234"}`),
	})
	c := NewClient(r)

	tokenID, secret, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.NoError(t, err)
	assert.Equal(t, "ansible@pve!ansible", tokenID)
	assert.Equal(t, "abcd1234", secret)
}

func TestCreateToken_StructuredSecretFieldFallback(t *testing.T) {
	r := scripted(map[string]runner.Result{
		tokenAdd: ok(`{"secret":"abcd1234"}`),
	})
	c := NewClient(r)

	_, secret, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.NoError(t, err)
	assert.Equal(t, "abcd1234", secret)
}

func TestCreateToken_StructuredSingleElementList(t *testing.T) {
	r := scripted(map[string]runner.Result{
		tokenAdd: ok(`[{"value":"abcd1234"}]`),
	})
	c := NewClient(r)

	_, secret, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.NoError(t, err)
	assert.Equal(t, "abcd1234", secret)
}

func TestCreateToken_PlainTextLabelFallback(t *testing.T) {
	r := scripted(map[string]runner.Result{
		tokenAdd: ok("Token created.\nToken value: abcd1234\n"),
	})
	c := NewClient(r)

	tokenID, secret, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.NoError(t, err)
	assert.Equal(t, "ansible@pve!ansible", tokenID)
	assert.Equal(t, "abcd1234", secret)
}

func TestCreateToken_LowercaseValueLabel(t *testing.T) {
	r := scripted(map[string]runner.Result{
		tokenAdd: ok("full-tokenid: ansible@pve!ansible\nvalue: a.b-c_d1\n"),
	})
	c := NewClient(r)

	_, secret, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.NoError(t, err)
	assert.Equal(t, "a.b-c_d1", secret)
}

func TestCreateToken_NoRecoverableSecretFailsWithRawOutput(t *testing.T) {
	raw := "Token created.\nPlease check the web UI.\n"
	r := scripted(map[string]runner.Result{
		tokenAdd: ok(raw),
	})
	c := NewClient(r)

	_, _, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.Error(t, err)

	var secretLoss *provision.SecretLossError
	require.ErrorAs(t, err, &secretLoss)
	assert.Equal(t, "ansible@pve!ansible", secretLoss.TokenID)
	assert.Equal(t, raw, secretLoss.Output)
	assert.Contains(t, err.Error(), raw)
}

func TestCreateToken_EmptyJSONObjectIsSecretLoss(t *testing.T) {
	// Parses fine but carries no secret; must not report success.
	r := scripted(map[string]runner.Result{
		tokenAdd: ok(`{}`),
	})
	c := NewClient(r)

	_, _, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	var secretLoss *provision.SecretLossError
	require.ErrorAs(t, err, &secretLoss)
}

func TestCreateToken_ExistingTokenIsFatalGuidance(t *testing.T) {
	r := scripted(map[string]runner.Result{
		tokenAdd: failed("create token failed: token 'ansible' already exists\n"),
		"pveum user token add ansible@pve ansible --privsep 1 --format json": failed("create token failed: token 'ansible' already exists\n"),
		"pveum user token add ansible@pve ansible --privsep 1":               failed("create token failed: token 'ansible' already exists\n"),
	})
	c := NewClient(r)

	_, _, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.ErrorIs(t, err, provision.ErrTokenExists)
	assert.Contains(t, err.Error(), "choose a new token name")
}

func TestCreateToken_UnknownFailureSurfacesOutput(t *testing.T) {
	r := scripted(map[string]runner.Result{
		tokenAdd: failed("no such user ('ansible@pve')\n"),
		"pveum user token add ansible@pve ansible --privsep 1 --format json": failed("no such user ('ansible@pve')\n"),
		"pveum user token add ansible@pve ansible --privsep 1":               failed("no such user ('ansible@pve')\n"),
	})
	c := NewClient(r)

	_, _, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.Error(t, err)
	assert.NotErrorIs(t, err, provision.ErrTokenExists)
	assert.Contains(t, err.Error(), "no such user")
}

func TestCreateToken_PrivsepDisabled(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user token add ansible@pve ansible --privsep 0 --output-format json": ok(`{"value":"abcd1234"}`),
	})
	c := NewClient(r)

	_, _, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"pveum user token add ansible@pve ansible --privsep 0 --output-format json"}, r.commands)
}

func TestCreateToken_TransportFailure(t *testing.T) {
	r := &fakeRunner{
		respond: func(string) (runner.Result, error) {
			return runner.Result{}, errors.New("session torn down")
		},
	}
	c := NewClient(r)

	_, _, err := c.CreateToken(context.Background(), "ansible@pve", "ansible", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session torn down")
}

func TestTokenID(t *testing.T) {
	assert.Equal(t, "ansible@pve!ansible", TokenID("ansible@pve", "ansible"))
}
