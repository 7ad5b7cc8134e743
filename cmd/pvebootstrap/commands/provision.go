package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/pvebootstrap/cmd/pvebootstrap/handlers"
)

// Provision returns the command that runs the credential bootstrap.
//
// This command connects to the configured Proxmox node (over SSH, the
// local shell or the REST API), ensures the automation user exists,
// issues an API token and grants the configured role, then prints the
// credential bundle.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: pvebootstrap.yaml)
func Provision() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the automation user, token and ACL grant",
		Long: `Bootstrap API credentials on a Proxmox VE node.

This command ensures the configured automation user exists, issues an
API token for it and grants a role on the configured ACL paths. All
steps are idempotent except token creation: Proxmox reveals a token
secret exactly once, so a pre-existing token aborts the run with
instructions instead of silently continuing without a secret.

If no config file is specified, it looks for pvebootstrap.yaml in the
current directory. Use 'pvebootstrap init' to create one.

Examples:
  # Provision using pvebootstrap.yaml in the current directory
  pvebootstrap provision

  # Provision using a specific config file
  pvebootstrap provision -c lab.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: pvebootstrap.yaml)")

	return cmd
}
