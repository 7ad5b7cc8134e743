package pveapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/imamik/pvebootstrap/internal/provision"
)

// CreateToken issues a new API token and returns its id and one-time
// secret. The API only reveals the secret in the create response, so a
// pre-existing token with the same name aborts with ErrTokenExists
// before any create is attempted.
func (c *Client) CreateToken(ctx context.Context, userID, tokenName string, privsep bool) (string, string, error) {
	tokenID := userID + "!" + tokenName

	listPath := "/access/users/" + url.PathEscape(userID) + "/token"
	body, err := c.do(ctx, http.MethodGet, listPath, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to list tokens for %s: %w", userID, err)
	}

	var list struct {
		Data []struct {
			TokenID string `json:"tokenid"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return "", "", fmt.Errorf("failed to decode token list: %w", err)
	}
	for _, tok := range list.Data {
		if tok.TokenID == tokenName {
			return "", "", provision.ErrTokenExists
		}
	}

	privsepValue := "0"
	if privsep {
		privsepValue = "1"
	}
	form := url.Values{"privsep": {privsepValue}}

	createPath := listPath + "/" + url.PathEscape(tokenName)
	body, err = c.do(ctx, http.MethodPost, createPath, form)
	if err != nil {
		if isAlreadyExists(err) {
			return "", "", provision.ErrTokenExists
		}
		return "", "", fmt.Errorf("failed to create token %s: %w", tokenID, err)
	}

	var out struct {
		Data struct {
			Value string `json:"value"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Data.Value == "" {
		return "", "", &provision.SecretLossError{TokenID: tokenID, Output: string(body)}
	}

	return tokenID, out.Data.Value, nil
}
