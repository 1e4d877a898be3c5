package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the user and local directories.
const FileName = "slidecam.yaml"

// Load loads the slidecam configuration.
// Search order: customPath -> ~/.slidecam/config.yaml -> ./configs/slidecam.yaml -> embedded default.
// An explicit customPath must exist, parse and validate; other locations are
// skipped when they do not.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return Config{}, err
		}
		if err := Validate(cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if cfg, err := loadFile(userCfgPath); err == nil && Validate(cfg) == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := loadFile(filepath.Join("configs", FileName)); err == nil && Validate(cfg) == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil || Validate(cfg) != nil {
		return Default(), nil
	}
	cfg.LoadedFrom = "embedded"
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.LoadedFrom = path
	return cfg, nil
}

// parse decodes YAML over the built-in defaults, so a file only needs the
// keys it changes. A levels list replaces the default list wholesale.
func parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.Levels = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = Default().Levels
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".slidecam", filename)
}

// DataDir returns ~/.slidecam, creating it if needed.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home dir: %w", err)
	}
	dir := filepath.Join(home, ".slidecam")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: create %s: %w", dir, err)
	}
	return dir, nil
}
