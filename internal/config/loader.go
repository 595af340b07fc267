package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileEnvVar names the variable holding the optional YAML file path.
const FileEnvVar = "CONFIG_FILE"

// Load builds the configuration from defaults, the file named by CONFIG_FILE
// and the environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(FileEnvVar))
}

// LoadFrom is Load with an explicit file path. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays the YAML document at path onto cfg. Keys absent from the
// file keep their current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
