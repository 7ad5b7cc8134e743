package pveum

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/pvebootstrap/internal/runner"
)

const userList = "pveum user list --output-format json"

func TestEnsureUser_CreatesWhenAbsent(t *testing.T) {
	r := scripted(map[string]runner.Result{
		userList: ok(`[{"userid":"root@pam"}]`),
		"pveum user add ansible@pve --comment 'Automation user'": ok(""),
	})
	c := NewClient(r)

	created, err := c.EnsureUser(context.Background(), "ansible@pve", "Automation user", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, r.commands, 2)
}

func TestEnsureUser_SecondCallIsANoop(t *testing.T) {
	listings := []string{
		`[{"userid":"root@pam"}]`,
		`[{"userid":"root@pam"},{"userid":"ansible@pve"}]`,
	}
	call := 0
	r := &fakeRunner{}
	r.respond = func(cmd string) (runner.Result, error) {
		switch cmd {
		case userList:
			out := listings[call]
			call++
			return ok(out), nil
		case "pveum user add ansible@pve --comment 'Automation user'":
			return ok(""), nil
		}
		return runner.Result{}, errors.New("unexpected command: " + cmd)
	}
	c := NewClient(r)

	created, err := c.EnsureUser(context.Background(), "ansible@pve", "Automation user", "")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.EnsureUser(context.Background(), "ansible@pve", "Automation user", "")
	require.NoError(t, err)
	assert.False(t, created)

	// Exactly one create command across both calls.
	creates := 0
	for _, cmd := range r.commands {
		if cmd == "pveum user add ansible@pve --comment 'Automation user'" {
			creates++
		}
	}
	assert.Equal(t, 1, creates)
}

func TestEnsureUser_PasswordPassedInline(t *testing.T) {
	r := scripted(map[string]runner.Result{
		userList: ok(`[]`),
		"pveum user add ansible@pve --comment 'Automation user' --password 's3cret pw'": ok(""),
	})
	c := NewClient(r)

	created, err := c.EnsureUser(context.Background(), "ansible@pve", "Automation user", "s3cret pw")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestEnsureUser_PlainTextListingSubstringMatch(t *testing.T) {
	r := scripted(map[string]runner.Result{
		userList: ok("userid        comment\nroot@pam\nansible@pve   Automation user\n"),
	})
	c := NewClient(r)

	created, err := c.EnsureUser(context.Background(), "ansible@pve", "Automation user", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, r.commands, 1)
}

func TestEnsureUser_CreateRaceToleratesAlreadyExists(t *testing.T) {
	r := scripted(map[string]runner.Result{
		userList: ok(`[]`),
		"pveum user add ansible@pve --comment 'Automation user'": failed("create user failed: user 'ansible@pve' already exists\n"),
	})
	c := NewClient(r)

	created, err := c.EnsureUser(context.Background(), "ansible@pve", "Automation user", "")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestEnsureUser_CreateFailureIsFatal(t *testing.T) {
	r := scripted(map[string]runner.Result{
		userList: ok(`[]`),
		"pveum user add ansible@pve --comment 'Automation user'": failed("invalid realm 'pve'\n"),
	})
	c := NewClient(r)

	_, err := c.EnsureUser(context.Background(), "ansible@pve", "Automation user", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create user")
	assert.Contains(t, err.Error(), "invalid realm")
}

func TestEnsureUser_ListFailureIsFatal(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user list --output-format json": failed("permission denied"),
		"pveum user list --format json":        failed("permission denied"),
		"pveum user list":                      failed("permission denied"),
	})
	c := NewClient(r)

	_, err := c.EnsureUser(context.Background(), "ansible@pve", "Automation user", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list users")
}

func TestSetPassword_FirstVariantWins(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user modify ansible@pve --password s3cret": ok(""),
	})
	c := NewClient(r)

	require.NoError(t, c.SetPassword(context.Background(), "ansible@pve", "s3cret"))
	assert.Len(t, r.commands, 1)
}

func TestSetPassword_FallsBackToPasswdSpelling(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user modify ansible@pve --password s3cret": failed("Unknown command: modify"),
		"pveum passwd ansible@pve --password s3cret":      ok(""),
	})
	c := NewClient(r)

	require.NoError(t, c.SetPassword(context.Background(), "ansible@pve", "s3cret"))
	assert.Len(t, r.commands, 2)
}

func TestSetPassword_AllVariantsFailSurfacesLastOutput(t *testing.T) {
	r := scripted(map[string]runner.Result{
		"pveum user modify ansible@pve --password s3cret": failed("Unknown command: modify"),
		"pveum passwd ansible@pve --password s3cret":      failed("password too weak"),
	})
	c := NewClient(r)

	err := c.SetPassword(context.Background(), "ansible@pve", "s3cret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password too weak")
	assert.NotContains(t, err.Error(), "Unknown command")
}
