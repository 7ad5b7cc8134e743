package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/imamik/pvebootstrap/internal/config"
	"github.com/imamik/pvebootstrap/internal/provision"
)

var writeFile = os.WriteFile

// renderCredentials prints the credential bundle, including a copy-paste
// Ansible variables block, and optionally persists it to disk. The token
// secret is shown exactly once; there is no way to retrieve it again.
func renderCredentials(cfg *config.Config, creds provision.Credentials) error {
	printCredentialsStyled(creds)
	fmt.Print(ansibleVarsBlock(creds))

	if cfg.Output.CredentialsFile != "" {
		if err := writeCredentialsFile(cfg.Output.CredentialsFile, creds); err != nil {
			return err
		}
		fmt.Printf("\nCredentials written to %s (mode 0600).\n", cfg.Output.CredentialsFile)
	}

	return nil
}

func printCredentialsStyled(creds provision.Credentials) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	entries := []struct {
		name  string
		value string
	}{
		{"api_host", creds.Host},
		{"api_user", creds.User},
		{"api_token_id", creds.TokenID},
		{"api_token_secret", creds.Secret},
		{"validate_certs", fmt.Sprintf("%t", creds.ValidateCerts)},
	}

	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("  pvebootstrap credentials: %s", creds.Host)))
	fmt.Println(dimStyle.Render("  " + strings.Repeat("=", 35)))
	fmt.Println()

	for _, entry := range entries {
		fmt.Printf("  %s  %s\n", nameStyle.Render(fmt.Sprintf("%-18s", entry.name)), valueStyle.Render(entry.value))
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("  The token secret is shown only once. Store it now."))
	fmt.Println()
}

// ansibleVarsBlock renders the bundle as YAML variables ready to paste
// into an inventory or group_vars file.
func ansibleVarsBlock(creds provision.Credentials) string {
	content, err := yaml.Marshal(creds)
	if err != nil {
		// Credentials is a flat struct of scalars; marshaling cannot fail.
		return ""
	}

	var b strings.Builder
	b.WriteString("# Ansible variables (move api_token_secret into a vault)\n")
	b.Write(content)
	return b.String()
}

func writeCredentialsFile(path string, creds provision.Credentials) error {
	content, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	header := "# Generated by pvebootstrap. Contains a live API token secret.\n"
	if err := writeFile(path, append([]byte(header), content...), 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
