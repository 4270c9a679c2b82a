package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Roomfolio")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Roomfolio")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "roomfolio")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "roomfolio")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// A pages list in the file replaces the default pages as a whole.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// UnmarshalYAML fills the page switches that default to on before decoding,
// so a page written in YAML keeps them unless it says otherwise.
func (p *PageConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain PageConfig
	page := plain{HoverCursor: true, ToggleOnClick: true}
	if err := value.Decode(&page); err != nil {
		return err
	}
	*p = PageConfig(page)
	return nil
}
