package config

import (
	"fmt"
	"strings"
)

// MinPasswordLength is the minimum length of the automation user password.
const MinPasswordLength = 8

// Validate checks the configuration for errors after defaults are applied.
func (c *Config) Validate() error {
	switch c.Connection.Mode {
	case ModeLocal:
		// Host is only informational in local mode (it still ends up in
		// the credential bundle), so it may stay empty.
	case ModeSSH, ModeAPI:
		if c.Host == "" {
			return fmt.Errorf("host is required for %s mode", c.Connection.Mode)
		}
	default:
		return fmt.Errorf("connection.mode must be one of %s, %s, %s (got %q)",
			ModeSSH, ModeLocal, ModeAPI, c.Connection.Mode)
	}

	if c.Connection.Mode == ModeAPI && c.Connection.API.Password == "" {
		return fmt.Errorf("connection.api.password is required for api mode")
	}

	if c.User.Name == "" || c.User.Realm == "" {
		return fmt.Errorf("user.name and user.realm must not be empty")
	}
	if strings.ContainsAny(c.User.Name, "@!") || strings.ContainsAny(c.User.Realm, "@!") {
		return fmt.Errorf("user.name and user.realm must not contain '@' or '!'")
	}
	if c.User.Password != "" && len(c.User.Password) < MinPasswordLength {
		return fmt.Errorf("user.password must be at least %d characters", MinPasswordLength)
	}

	if c.Token.Name == "" {
		return fmt.Errorf("token.name must not be empty")
	}
	if strings.ContainsAny(c.Token.Name, "@!") {
		return fmt.Errorf("token.name must not contain '@' or '!'")
	}

	if c.ACL.Role == "" {
		return fmt.Errorf("acl.role must not be empty")
	}
	if len(c.ACL.Paths) == 0 {
		return fmt.Errorf("acl.paths must not be empty")
	}
	for _, p := range c.ACL.Paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("acl path %q must start with '/'", p)
		}
	}

	return nil
}
