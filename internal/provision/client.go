package provision

import (
	"context"
	"fmt"
)

// Client is the access-control surface the provisioning pipeline needs.
// Two implementations exist: pveum.Client drives the pveum CLI through a
// command transport (local shell or SSH), and pveapi.Client talks to the
// Proxmox REST API. The pipeline does not care which one it gets.
type Client interface {
	// EnsureUser makes sure the user principal exists, creating it with
	// the comment (and password, when non-empty) if absent. Returns true
	// when this call performed the creation.
	EnsureUser(ctx context.Context, userID, comment, password string) (bool, error)

	// SetPassword sets or resets the password of an existing user.
	SetPassword(ctx context.Context, userID, password string) error

	// CreateToken creates an API token and returns its full id
	// (user!name) and one-time secret. Implementations must never report
	// success without a secret.
	CreateToken(ctx context.Context, userID, tokenName string, privsep bool) (tokenID, secret string, err error)

	// GrantRole grants role to a principal on an ACL path. The principal
	// is a token id when viaToken is true, a user id otherwise.
	GrantRole(ctx context.Context, path, principal, role string, viaToken bool) error
}

// ErrTokenExists is returned when token creation hits a name collision.
// Proxmox shows a token secret exactly once, at creation time, so the
// secret of an existing token cannot be recovered; deleting the token or
// picking a new name is an operator decision this tool must not make
// silently.
var ErrTokenExists = fmt.Errorf("token already exists and Proxmox will not re-show the secret; delete it (pveum user token delete ...) or choose a new token name")

// SecretLossError reports a token that was created but whose one-time
// secret could not be recovered. The raw platform output is carried
// verbatim so the operator can capture the secret before it is lost for
// good.
type SecretLossError struct {
	TokenID string
	Output  string
}

func (e *SecretLossError) Error() string {
	return fmt.Sprintf(
		"token %s created but the secret could not be detected automatically; capture it now, Proxmox shows it only once. Raw output:\n%s",
		e.TokenID, e.Output,
	)
}
