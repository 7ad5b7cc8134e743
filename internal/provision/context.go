// Package provision sequences the credential bootstrap: ensure the
// automation user, optionally set its password, issue an API token and
// grant a role on the configured ACL paths. Phases run strictly
// sequentially against a single access-control client; the first failure
// halts the run.
package provision

import (
	"context"

	"github.com/imamik/pvebootstrap/internal/config"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Client   Client
	Observer Observer
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, client Client) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    &State{},
		Client:   client,
		Observer: NewConsoleObserver(),
	}
}

// Credentials renders the final bundle from the completed state.
func (c *Context) Credentials() Credentials {
	return Credentials{
		Host:          c.Config.Host,
		User:          c.Config.UserID(),
		TokenID:       c.State.TokenID,
		Secret:        c.State.Secret,
		ValidateCerts: c.Config.Output.ValidateCerts,
	}
}
