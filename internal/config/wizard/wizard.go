// Package wizard implements the interactive configuration setup for
// pvebootstrap, built on charmbracelet/huh forms.
package wizard

import (
	"context"
	"fmt"

	"github.com/imamik/pvebootstrap/internal/config"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	// Connection
	Host string
	Mode string

	// SSH transport
	SSHUser     string
	SSHKeyPath  string
	SSHPassword string

	// API transport
	APIUser     string
	APIPassword string
	InsecureTLS bool

	// Principal
	UserName  string
	Realm     string
	TokenName string
	Privsep   bool

	// Grant
	Role     string
	ACLPaths []string

	// Optional user password
	UserPassword string
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g. Ctrl+C).
func RunWizard(ctx context.Context) (*Result, error) {
	result := &Result{
		Mode:      config.ModeSSH,
		SSHUser:   "root",
		APIUser:   "root@pam",
		UserName:  "ansible",
		Realm:     "pve",
		TokenName: "ansible",
		Privsep:   true,
		Role:      "PVEAdmin",
		ACLPaths:  []string{"/"},
	}

	if err := runConnectionGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("connection: %w", err)
	}

	switch result.Mode {
	case config.ModeSSH:
		if err := runSSHAuthGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("ssh auth: %w", err)
		}
	case config.ModeAPI:
		if err := runAPIAuthGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("api auth: %w", err)
		}
	}

	if err := runPrincipalGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("principal: %w", err)
	}

	if err := runGrantGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("grant: %w", err)
	}

	if err := runPasswordGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("password: %w", err)
	}

	return result, nil
}

// ToConfig converts wizard answers into a validated configuration.
func (r *Result) ToConfig() (*config.Config, error) {
	cfg := &config.Config{
		Host: r.Host,
		Connection: config.ConnectionConfig{
			Mode: r.Mode,
			SSH: config.SSHConfig{
				User:       r.SSHUser,
				Port:       22,
				PrivateKey: r.SSHKeyPath,
				Password:   r.SSHPassword,
			},
			API: config.APIConfig{
				Port:        8006,
				User:        r.APIUser,
				Password:    r.APIPassword,
				InsecureTLS: r.InsecureTLS,
			},
		},
		User: config.UserConfig{
			Name:     r.UserName,
			Realm:    r.Realm,
			Comment:  "Automation user (created by pvebootstrap)",
			Password: r.UserPassword,
		},
		Token: config.TokenConfig{
			Name:                r.TokenName,
			PrivilegeSeparation: r.Privsep,
		},
		ACL: config.ACLConfig{
			Role:  r.Role,
			Paths: r.ACLPaths,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
