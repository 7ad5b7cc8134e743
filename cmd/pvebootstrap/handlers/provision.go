// Package handlers implements the CLI command logic.
package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/imamik/pvebootstrap/internal/config"
	"github.com/imamik/pvebootstrap/internal/provision"
	"github.com/imamik/pvebootstrap/internal/pveapi"
	"github.com/imamik/pvebootstrap/internal/pveum"
	"github.com/imamik/pvebootstrap/internal/runner"
)

// Factory function variables for provision - can be replaced in tests.
var (
	loadConfig     = config.LoadFile
	newClient      = buildClient
	runPhases      = provision.RunPhases
	promptPassword = askPassword
	stdinIsTTY     = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
)

// Provision runs the full credential bootstrap against the configured node
// and renders the resulting credential bundle.
func Provision(ctx context.Context, configPath string) error {
	if configPath == "" {
		configPath = config.DefaultConfigFilename
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.User.PromptPassword && cfg.User.Password == "" {
		if stdinIsTTY() {
			password, err := promptPassword()
			if err != nil {
				return fmt.Errorf("password prompt canceled: %w", err)
			}
			cfg.User.Password = password
		} else {
			fmt.Fprintln(os.Stderr, "Warning: stdin is not a terminal, skipping password prompt")
		}
	}

	client, cleanup, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	pctx := provision.NewContext(ctx, cfg, client)
	if err := runPhases(pctx, provision.Plan()); err != nil {
		return err
	}

	return renderCredentials(cfg, pctx.Credentials())
}

// buildClient constructs the access-control client for the configured
// transport. The returned cleanup func releases the underlying connection.
func buildClient(ctx context.Context, cfg *config.Config) (provision.Client, func(), error) {
	switch cfg.Connection.Mode {
	case config.ModeLocal:
		return pveum.NewClient(runner.NewLocal()), func() {}, nil

	case config.ModeSSH:
		sshCfg := &runner.SSHConfig{
			Host:     cfg.Host,
			Port:     cfg.Connection.SSH.Port,
			User:     cfg.Connection.SSH.User,
			Password: cfg.Connection.SSH.Password,
		}
		if cfg.Connection.SSH.PrivateKey != "" {
			key, err := os.ReadFile(expandHome(cfg.Connection.SSH.PrivateKey))
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read private key: %w", err)
			}
			sshCfg.PrivateKey = key
		}

		ssh, err := runner.NewSSH(sshCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := ssh.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to %s: %w", cfg.Host, err)
		}
		return pveum.NewClient(ssh), func() { _ = ssh.Close() }, nil

	case config.ModeAPI:
		api := pveapi.NewClient(&pveapi.Config{
			Host:        cfg.Host,
			Port:        cfg.Connection.API.Port,
			User:        cfg.Connection.API.User,
			Password:    cfg.Connection.API.Password,
			InsecureTLS: cfg.Connection.API.InsecureTLS,
		})
		if err := api.Login(ctx); err != nil {
			return nil, nil, err
		}
		return api, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown connection mode %q", cfg.Connection.Mode)
}

// expandHome resolves a leading ~/ against the current user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func askPassword() (string, error) {
	var password string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Password for the automation user").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if len(s) < config.MinPasswordLength {
					return fmt.Errorf("must be at least %d characters", config.MinPasswordLength)
				}
				return nil
			}).
			Value(&password),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return password, nil
}
