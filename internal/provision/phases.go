package provision

import "fmt"

// Plan returns the phases of a full provisioning run, in order.
func Plan() []Phase {
	return []Phase{
		&UserPhase{},
		&PasswordPhase{},
		&TokenPhase{},
		&ACLPhase{},
	}
}

// UserPhase ensures the automation user exists.
type UserPhase struct{}

// Name implements Phase.
func (p *UserPhase) Name() string { return "user" }

// Provision implements Phase.
func (p *UserPhase) Provision(ctx *Context) error {
	userID := ctx.Config.UserID()

	created, err := ctx.Client.EnsureUser(ctx, userID, ctx.Config.User.Comment, ctx.Config.User.Password)
	if err != nil {
		return err
	}

	ctx.State.UserCreated = created
	if created {
		LogResourceCreated(ctx.Observer, p.Name(), "user", userID)
	} else {
		LogResourceExists(ctx.Observer, p.Name(), "user", userID)
	}
	return nil
}

// PasswordPhase sets the user password when one is configured and the user
// pre-existed. A freshly created user already got the password inline, so
// the modification fallback is only needed for the pre-existing case.
type PasswordPhase struct{}

// Name implements Phase.
func (p *PasswordPhase) Name() string { return "password" }

// Provision implements Phase.
func (p *PasswordPhase) Provision(ctx *Context) error {
	if ctx.Config.User.Password == "" || ctx.State.UserCreated {
		ctx.Observer.Event(Event{Type: EventPhaseSkipped, Phase: p.Name(), Message: "nothing to do"})
		return nil
	}
	return ctx.Client.SetPassword(ctx, ctx.Config.UserID(), ctx.Config.User.Password)
}

// TokenPhase issues the API token and records its one-time secret.
type TokenPhase struct{}

// Name implements Phase.
func (p *TokenPhase) Name() string { return "token" }

// Provision implements Phase.
func (p *TokenPhase) Provision(ctx *Context) error {
	tokenID, secret, err := ctx.Client.CreateToken(
		ctx, ctx.Config.UserID(), ctx.Config.Token.Name, ctx.Config.Token.PrivilegeSeparation)
	if err != nil {
		return err
	}
	if secret == "" {
		// Guard against a client that violates the secret-non-loss
		// contract; downstream must never see a token without a secret.
		return fmt.Errorf("client returned token %s without a secret", tokenID)
	}

	ctx.State.TokenID = tokenID
	ctx.State.Secret = secret
	LogResourceCreated(ctx.Observer, p.Name(), "token", tokenID)
	return nil
}

// ACLPhase grants the configured role on every ACL path. With privilege
// separation the grant targets the token itself, which keeps it revocable
// independently of the user; otherwise the user principal is granted
// directly.
type ACLPhase struct{}

// Name implements Phase.
func (p *ACLPhase) Name() string { return "acl" }

// Provision implements Phase.
func (p *ACLPhase) Provision(ctx *Context) error {
	viaToken := ctx.Config.Token.PrivilegeSeparation

	principal := ctx.Config.UserID()
	if viaToken {
		principal = ctx.State.TokenID
	}

	for _, path := range ctx.Config.ACL.Paths {
		if err := ctx.Client.GrantRole(ctx, path, principal, ctx.Config.ACL.Role, viaToken); err != nil {
			return err
		}
		ctx.Observer.Event(Event{
			Type:     EventResourceCreated,
			Phase:    p.Name(),
			Resource: path,
			Message:  fmt.Sprintf("role %s granted to %s", ctx.Config.ACL.Role, principal),
		})
	}

	ctx.State.GrantedPrincipal = principal
	ctx.State.GrantedPaths = ctx.Config.ACL.Paths
	return nil
}
