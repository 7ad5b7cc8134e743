package pveum

import (
	"context"
	"fmt"

	"github.com/imamik/pvebootstrap/internal/runner"
)

// GrantRole grants role to a principal on an ACL path. The principal is a
// token id when viaToken is true and a user id otherwise. No pre-check is
// done: pveum aclmod overwrites an existing grant idempotently, unlike user
// and token creation where a collision would clobber state or lose a
// secret.
func (c *Client) GrantRole(ctx context.Context, path, principal, role string, viaToken bool) error {
	flag := "-user"
	if viaToken {
		flag = "-token"
	}

	cmd := fmt.Sprintf("pveum aclmod %s %s %s -role %s",
		runner.Quote(path), flag, runner.Quote(principal), runner.Quote(role))

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("failed to assign ACL on %s:\n%s", path, res.Output)
	}
	return nil
}
