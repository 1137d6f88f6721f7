package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/evade.yaml
var defaultYAML []byte

// Embedded is the source name reported when the built-in defaults are used.
const Embedded = "embedded"

// Load loads the configuration and returns it together with the path it came
// from. Values are merged onto Default, so a file may set any subset of keys.
//
// Search order: customPath -> ~/.evade/config.yaml -> ./configs/evade.yaml -> embedded default.
// An explicit customPath must exist and parse; the other locations are skipped
// when missing or unreadable.
func Load(customPath string) (Config, string, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	for _, path := range []string{userConfigPath(), filepath.Join("configs", "evade.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Parse(data); err == nil {
			return cfg, path, nil
		}
	}

	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), Embedded, nil
	}
	return cfg, Embedded, nil
}

// Parse decodes YAML onto Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".evade", "config.yaml")
}
