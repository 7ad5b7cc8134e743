package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, defaults and validates the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses, defaults and validates a configuration from bytes.
func LoadBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	applyDefaults(&cfg, raw)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in unset fields. The raw document is consulted for
// the one boolean that defaults to true, so an explicit false survives.
func applyDefaults(cfg *Config, raw map[string]interface{}) {
	if cfg.Connection.Mode == "" {
		cfg.Connection.Mode = ModeSSH
	}
	if cfg.Connection.SSH.User == "" {
		cfg.Connection.SSH.User = "root"
	}
	if cfg.Connection.SSH.Port == 0 {
		cfg.Connection.SSH.Port = 22
	}
	if cfg.Connection.API.Port == 0 {
		cfg.Connection.API.Port = 8006
	}
	if cfg.Connection.API.User == "" {
		cfg.Connection.API.User = "root@pam"
	}

	if cfg.User.Name == "" {
		cfg.User.Name = "ansible"
	}
	if cfg.User.Realm == "" {
		cfg.User.Realm = "pve"
	}
	if cfg.User.Comment == "" {
		cfg.User.Comment = "Automation user (created by pvebootstrap)"
	}

	if cfg.Token.Name == "" {
		cfg.Token.Name = "ansible"
	}
	if !cfg.Token.PrivilegeSeparation {
		cfg.Token.PrivilegeSeparation = privsepDefault(raw)
	}

	if cfg.ACL.Role == "" {
		cfg.ACL.Role = "PVEAdmin"
	}
	if len(cfg.ACL.Paths) == 0 {
		cfg.ACL.Paths = []string{"/"}
	}
}

// privsepDefault reports whether privilege separation should default to
// enabled: true unless token.privilege_separation was explicitly false.
func privsepDefault(raw map[string]interface{}) bool {
	tokenMap, ok := raw["token"].(map[string]interface{})
	if !ok {
		return true
	}
	_, explicitlySet := tokenMap["privilege_separation"]
	return !explicitlySet
}
