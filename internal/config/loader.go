package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBlocky loads Blocky configuration.
// Search order: customPath -> ~/.arcade/configs/blocky.yaml -> ./configs/blocky.yaml -> embedded default.
// Keys missing from a file keep their default values. A custom path that
// cannot be read, parsed or validated is an error; the other locations
// are skipped silently when unusable.
func LoadBlocky(customPath string) (BlockyConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := readBlocky(customPath)
		if err != nil {
			return DefaultBlockyConfig(), err
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("blocky.yaml"); userCfgPath != "" {
		if cfg, err := readBlocky(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := readBlocky(filepath.Join("configs", "blocky.yaml")); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := ParseBlocky(defaultBlockyYAML)
	if err != nil {
		return DefaultBlockyConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseBlocky decodes YAML on top of the defaults and validates the result.
func ParseBlocky(data []byte) (BlockyConfig, error) {
	cfg := DefaultBlockyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse blocky: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readBlocky(path string) (BlockyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BlockyConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseBlocky(data)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
