package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the settings file looked up in the working directory
const FileName = ".keycheck.config"

const (
	// DefaultKey is the lookup name used by earlier releases of this check.
	// Override it with `key:` in the config file or --key.
	DefaultKey        = "b4844eae6f90c04e603ddf90fe2d7485"
	DefaultEnvFile    = ".env"
	DefaultMaskPrefix = 4
)

// Config represents the keycheck configuration file
type Config struct {
	Key        string `yaml:"key"`         // Name of the variable holding the API key
	EnvFile    string `yaml:"env_file"`    // Configuration source to load
	MaskPrefix int    `yaml:"mask_prefix"` // Characters of the key shown when masking
	Override   bool   `yaml:"override"`    // File values replace ambient environment values
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Key:        DefaultKey,
		EnvFile:    DefaultEnvFile,
		MaskPrefix: DefaultMaskPrefix,
	}
}

// LoadConfig loads the .keycheck.config file from the specified directory.
// Fields missing from the file keep their defaults.
func LoadConfig(rootPath string) (*Config, error) {
	configPath := filepath.Join(rootPath, FileName)
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Key = strings.TrimSpace(cfg.Key)
	cfg.EnvFile = strings.TrimSpace(cfg.EnvFile)
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.EnvFile == "" {
		cfg.EnvFile = DefaultEnvFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the final configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("key name cannot be empty")
	}
	if strings.ContainsAny(c.Key, "= \t\n") {
		return fmt.Errorf("invalid key name %q", c.Key)
	}
	if c.MaskPrefix < 0 {
		return fmt.Errorf("mask_prefix must be >= 0, got %d", c.MaskPrefix)
	}
	return nil
}

// Template is written by init-config
const Template = `# .keycheck.config
# Configuration file for keycheck

# Name of the environment variable holding the API key
key: ` + DefaultKey + `

# File the key is loaded from (.env, .envrc, docker-compose.yml, *-secret.yaml, *.service)
env_file: .env

# Number of leading characters shown by --show-masked
mask_prefix: 4

# Let values from env_file replace variables already exported in the shell
override: false
`

// WriteTemplate creates .keycheck.config in dir. It refuses to overwrite an existing file.
func WriteTemplate(dir string) (string, error) {
	configPath := filepath.Join(dir, FileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("%s already exists in %s", FileName, dir)
	}

	if err := os.WriteFile(configPath, []byte(Template), 0644); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", FileName, err)
	}
	return configPath, nil
}
