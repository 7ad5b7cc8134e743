package pveum

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/imamik/pvebootstrap/internal/runner"
)

// userRecord is the subset of a pveum user list entry we match on.
type userRecord struct {
	UserID string `json:"userid"`
}

// EnsureUser makes sure the user principal (name@realm) exists, creating it
// with the given comment when absent. A non-empty password is set inline at
// creation time. Returns true when this call performed the creation.
//
// Existence is checked against the user listing. With structured output the
// match is exact on the userid field. With plain text output the check
// degrades to a substring search, which can over-match when the principal is
// a substring of another userid or of unrelated listing text; an over-match
// only skips creation here, and the token step will still fail loudly if
// the user genuinely does not exist.
func (c *Client) EnsureUser(ctx context.Context, userID, comment, password string) (bool, error) {
	probe, err := Probe(ctx, c.runner, "pveum user list")
	if err != nil {
		return false, err
	}
	if !probe.Result.OK() {
		return false, fmt.Errorf("failed to list users:\n%s", probe.Result.Output)
	}

	if userExists(probe, userID) {
		return false, nil
	}

	cmd := fmt.Sprintf("pveum user add %s --comment %s", runner.Quote(userID), runner.Quote(comment))
	if password != "" {
		cmd += " --password " + runner.Quote(password)
	}

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return false, err
	}
	if !res.OK() && !strings.Contains(strings.ToLower(res.Output), "already exists") {
		return false, fmt.Errorf("failed to create user %s:\n%s", userID, res.Output)
	}
	// "already exists" on create means another actor won the race; the
	// desired state holds either way.
	return true, nil
}

func userExists(probe ProbeResult, userID string) bool {
	if probe.Structured {
		var records []userRecord
		if err := json.Unmarshal([]byte(probe.Result.Output), &records); err == nil {
			for _, rec := range records {
				if rec.UserID == userID {
					return true
				}
			}
		}
		return false
	}
	return strings.Contains(probe.Result.Output, userID)
}

// passwordCommandVariants returns the modification command spellings to try,
// in order. The subcommand differs across Proxmox releases.
func passwordCommandVariants(userID, password string) []string {
	return []string{
		fmt.Sprintf("pveum user modify %s --password %s", runner.Quote(userID), runner.Quote(password)),
		fmt.Sprintf("pveum passwd %s --password %s", runner.Quote(userID), runner.Quote(password)),
	}
}

// SetPassword sets or resets the password of an existing user, trying each
// known command spelling until one exits zero. When every variant fails the
// last variant's output is surfaced for diagnosis.
func (c *Client) SetPassword(ctx context.Context, userID, password string) error {
	var lastOutput string
	for _, cmd := range passwordCommandVariants(userID, password) {
		res, err := c.runner.Run(ctx, cmd)
		if err != nil {
			return err
		}
		if res.OK() {
			return nil
		}
		lastOutput = res.Output
	}
	return fmt.Errorf("failed to set password for %s, last output:\n%s", userID, lastOutput)
}
