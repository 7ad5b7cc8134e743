package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/imamik/pvebootstrap/internal/config"
	"github.com/imamik/pvebootstrap/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	wizardRun = wizard.RunWizard

	wizardWriteConfig = config.WriteFile
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if wizardFileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := wizardRun(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg, err := result.ToConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := wizardWriteConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

func printWelcome() {
	fmt.Println()
	fmt.Println("pvebootstrap - Proxmox VE credential bootstrap")
	fmt.Println("==============================================")
	fmt.Println()
	fmt.Println("This wizard creates a configuration with sensible defaults.")
	fmt.Println("Every step of the bootstrap is idempotent except token creation,")
	fmt.Println("which fails loudly rather than lose the one-time secret.")
	fmt.Println()
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Node:       %s (via %s)\n", cfg.Host, cfg.Connection.Mode)
	fmt.Printf("  User:       %s\n", cfg.UserID())
	fmt.Printf("  Token:      %s (privilege separation: %t)\n", cfg.Token.Name, cfg.Token.PrivilegeSeparation)
	fmt.Printf("  Grant:      %s on %s\n", cfg.ACL.Role, strings.Join(cfg.ACL.Paths, ", "))
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Run the bootstrap:")
	fmt.Printf("     pvebootstrap provision -c %s\n", outputPath)
	fmt.Println()
}
