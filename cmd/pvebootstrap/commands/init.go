package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/pvebootstrap/cmd/pvebootstrap/handlers"
	"github.com/imamik/pvebootstrap/internal/config"
)

// Init returns the command for interactively creating a configuration.
//
// This command guides users through creating a pvebootstrap YAML file
// using an interactive wizard.
//
// Flags:
//
//	--output, -o: Path to output file (default "pvebootstrap.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a pvebootstrap configuration file.

This command guides you through configuring the credential bootstrap
step by step. It will ask about:

  - The Proxmox node and how to reach it (SSH, local shell or REST API)
  - Connection credentials for the chosen transport
  - The automation user and token to create
  - The role and ACL paths to grant
  - An optional password for the automation user`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")

	return cmd
}
