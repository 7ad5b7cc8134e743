package pveum

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/imamik/pvebootstrap/internal/provision"
	"github.com/imamik/pvebootstrap/internal/runner"
)

// secretLabelPattern matches a "value: <secret>" or "Token value: <secret>"
// style line in plain text output.
var secretLabelPattern = regexp.MustCompile(`(?:value|Token value)\s*:\s*([A-Za-z0-9.\-_]+)`)

// CreateToken creates an API token for the user and returns the full token
// id (user!name) and its one-time secret. It never reports success without
// a secret: if none is recoverable from either structured or plain output a
// *provision.SecretLossError carrying the raw output is returned.
func (c *Client) CreateToken(ctx context.Context, userID, tokenName string, privsep bool) (string, string, error) {
	sep := 0
	if privsep {
		sep = 1
	}
	base := fmt.Sprintf("pveum user token add %s %s --privsep %d",
		runner.Quote(userID), runner.Quote(tokenName), sep)

	probe, err := Probe(ctx, c.runner, base)
	if err != nil {
		return "", "", err
	}
	if !probe.Result.OK() {
		if strings.Contains(strings.ToLower(probe.Result.Output), "already exists") {
			return "", "", provision.ErrTokenExists
		}
		return "", "", fmt.Errorf("failed to create token:\n%s", probe.Result.Output)
	}

	tokenID := TokenID(userID, tokenName)

	secret := ""
	if probe.Structured {
		secret = secretFromJSON(probe.Result.Output)
	}
	if secret == "" {
		if m := secretLabelPattern.FindStringSubmatch(probe.Result.Output); m != nil {
			secret = m[1]
		}
	}
	if secret == "" {
		return "", "", &provision.SecretLossError{TokenID: tokenID, Output: probe.Result.Output}
	}

	return tokenID, secret, nil
}

// secretFromJSON pulls the secret out of pveum's JSON token-creation
// output. Current versions print a single object with a "value" field; some
// print "secret" instead, and some wrap the object in a one-element array.
func secretFromJSON(output string) string {
	var obj map[string]any
	if err := json.Unmarshal([]byte(output), &obj); err == nil {
		return secretField(obj)
	}

	var list []map[string]any
	if err := json.Unmarshal([]byte(output), &list); err == nil && len(list) > 0 {
		return secretField(list[0])
	}

	return ""
}

func secretField(obj map[string]any) string {
	if v, ok := obj["value"].(string); ok && v != "" {
		return v
	}
	if v, ok := obj["secret"].(string); ok && v != "" {
		return v
	}
	return ""
}
