package pveapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type userRecord struct {
	UserID string `json:"userid"`
}

// EnsureUser creates the user if it does not already exist. It returns
// true when the user was created by this call.
func (c *Client) EnsureUser(ctx context.Context, userID, comment, password string) (bool, error) {
	body, err := c.do(ctx, http.MethodGet, "/access/users", nil)
	if err != nil {
		return false, fmt.Errorf("failed to list users: %w", err)
	}

	var list struct {
		Data []userRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return false, fmt.Errorf("failed to decode user list: %w", err)
	}
	for _, u := range list.Data {
		if u.UserID == userID {
			return false, nil
		}
	}

	form := url.Values{
		"userid":  {userID},
		"comment": {comment},
	}
	if password != "" {
		form.Set("password", password)
	}
	if _, err := c.do(ctx, http.MethodPost, "/access/users", form); err != nil {
		// Another actor created the user between list and create.
		if isAlreadyExists(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create user %s: %w", userID, err)
	}
	return true, nil
}

// SetPassword updates the password of an existing user.
func (c *Client) SetPassword(ctx context.Context, userID, password string) error {
	form := url.Values{
		"userid":   {userID},
		"password": {password},
	}
	if _, err := c.do(ctx, http.MethodPut, "/access/password", form); err != nil {
		return fmt.Errorf("failed to set password for %s: %w", userID, err)
	}
	return nil
}
