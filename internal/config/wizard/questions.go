package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/pvebootstrap/internal/config"
)

// runConnectionGroup prompts for the Proxmox host and transport mode.
func runConnectionGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Proxmox Host").
				Description("FQDN or IP of the Proxmox node; also used as api_host in the credential bundle").
				Placeholder("pve.example.com").
				Value(&result.Host).
				Validate(validateHost),
			huh.NewSelect[string]().
				Title("Connection").
				Description("How to reach the node").
				Options(ModeOptions...).
				Value(&result.Mode),
		).Title("Connection"),
	).RunWithContext(ctx)
}

// runSSHAuthGroup prompts for SSH credentials.
func runSSHAuthGroup(ctx context.Context, result *Result) error {
	useKey := true

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SSH User").
				Value(&result.SSHUser),
			huh.NewConfirm().
				Title("Use SSH key authentication?").
				Value(&useKey),
		).Title("SSH Access"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if useKey {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Private Key Path").
					Placeholder("~/.ssh/id_ed25519").
					Value(&result.SSHKeyPath),
			),
		).RunWithContext(ctx)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SSH Password").
				EchoMode(huh.EchoModePassword).
				Value(&result.SSHPassword),
		),
	).RunWithContext(ctx)
}

// runAPIAuthGroup prompts for REST API credentials.
func runAPIAuthGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API User").
				Description("Principal used to authenticate, e.g. root@pam").
				Value(&result.APIUser),
			huh.NewInput().
				Title("API Password").
				EchoMode(huh.EchoModePassword).
				Value(&result.APIPassword),
			huh.NewConfirm().
				Title("Skip TLS certificate verification?").
				Description("Needed for nodes running the default self-signed certificate").
				Value(&result.InsecureTLS),
		).Title("API Access"),
	).RunWithContext(ctx)
}

// runPrincipalGroup prompts for the automation user and token names.
func runPrincipalGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Automation Username").
				Value(&result.UserName).
				Validate(validateName),
			huh.NewInput().
				Title("Realm").
				Value(&result.Realm).
				Validate(validateName),
			huh.NewInput().
				Title("Token Name").
				Value(&result.TokenName).
				Validate(validateName),
			huh.NewConfirm().
				Title("Enable privilege separation for the token?").
				Description("The grant then targets the token itself, revocable independently of the user").
				Value(&result.Privsep),
		).Title("User and Token"),
	).RunWithContext(ctx)
}

// runGrantGroup prompts for the role and ACL paths.
func runGrantGroup(ctx context.Context, result *Result) error {
	paths := strings.Join(result.ACLPaths, ", ")

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Role").
				Description("Proxmox role to grant, e.g. PVEAdmin").
				Value(&result.Role),
			huh.NewInput().
				Title("ACL Paths").
				Description("Comma-separated, each starting with /").
				Value(&paths).
				Validate(validateACLPaths),
		).Title("Grant"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.ACLPaths = ParseACLPaths(paths)
	return nil
}

// runPasswordGroup optionally collects a password for the automation user.
func runPasswordGroup(ctx context.Context, result *Result) error {
	wantPassword := false

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Set a password for the automation user?").
				Description("Not needed for token-only access").
				Value(&wantPassword),
		).Title("User Password"),
	).RunWithContext(ctx)
	if err != nil || !wantPassword {
		return err
	}

	var password, confirm string
	for {
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(validatePassword),
				huh.NewInput().
					Title("Confirm Password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm),
			),
		).RunWithContext(ctx)
		if err != nil {
			return err
		}
		if password == confirm {
			break
		}
		password, confirm = "", ""
		fmt.Println("Passwords do not match. Try again.")
	}

	result.UserPassword = password
	return nil
}

func validateHost(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("host must not be empty")
	}
	return nil
}

func validateName(s string) error {
	if s == "" {
		return fmt.Errorf("must not be empty")
	}
	if strings.ContainsAny(s, "@!") {
		return fmt.Errorf("must not contain '@' or '!'")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < config.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", config.MinPasswordLength)
	}
	return nil
}

func validateACLPaths(s string) error {
	paths := ParseACLPaths(s)
	if len(paths) == 0 {
		return fmt.Errorf("at least one path is required")
	}
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("path %q must start with '/'", p)
		}
	}
	return nil
}

// ParseACLPaths splits a comma-separated path list, dropping empty entries.
func ParseACLPaths(s string) []string {
	var paths []string
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}
