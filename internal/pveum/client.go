package pveum

import (
	"github.com/imamik/pvebootstrap/internal/runner"
)

// Client performs Proxmox access-control operations by shelling out to
// pveum over a runner.Runner. It implements provision.Client.
type Client struct {
	runner runner.Runner
}

// NewClient creates a pveum client on top of the given transport.
func NewClient(r runner.Runner) *Client {
	return &Client{runner: r}
}

// TokenID builds the full token identifier for a user principal.
// Token principals are always derived this way, never constructed directly.
func TokenID(userID, tokenName string) string {
	return userID + "!" + tokenName
}
