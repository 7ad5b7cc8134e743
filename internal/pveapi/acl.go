package pveapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type aclEntry struct {
	Path   string `json:"path"`
	RoleID string `json:"roleid"`
	Type   string `json:"type"`
	UGID   string `json:"ugid"`
}

// GrantRole assigns a role to the principal on the given path. An
// identical existing grant is left untouched; PUT /access/acl is
// otherwise additive, matching the aclmod semantics of pveum.
func (c *Client) GrantRole(ctx context.Context, path, principal, role string, viaToken bool) error {
	body, err := c.do(ctx, http.MethodGet, "/access/acl", nil)
	if err != nil {
		return fmt.Errorf("failed to list ACLs: %w", err)
	}

	var list struct {
		Data []aclEntry `json:"data"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("failed to decode ACL list: %w", err)
	}

	wantType := "user"
	if viaToken {
		wantType = "token"
	}
	for _, entry := range list.Data {
		if entry.Path == path && entry.RoleID == role && entry.UGID == principal && entry.Type == wantType {
			return nil
		}
	}

	form := url.Values{
		"path":  {path},
		"roles": {role},
	}
	if viaToken {
		form.Set("tokens", principal)
	} else {
		form.Set("users", principal)
	}
	if _, err := c.do(ctx, http.MethodPut, "/access/acl", form); err != nil {
		return fmt.Errorf("failed to assign ACL on %s: %w", path, err)
	}
	return nil
}
