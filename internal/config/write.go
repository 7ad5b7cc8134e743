package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const fileHeader = `# pvebootstrap configuration
# Run 'pvebootstrap provision' to apply it.
`

// WriteFile writes the configuration as YAML, readable only by the owner
// since it may carry an SSH or API password.
func WriteFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
