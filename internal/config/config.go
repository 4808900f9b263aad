// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Seed policies for loops that require a story seed. Strict treats a
// missing seed as a hard precondition failure; warn logs and proceeds.
const (
	SeedPolicyStrict = "strict"
	SeedPolicyWarn   = "warn"
)

// Config holds all configuration values for qf.
type Config struct {
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	SeedPolicy string `mapstructure:"seed_policy" yaml:"seed_policy"`
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("qf")

	v.SetDefault("data_dir", filepath.Join(".questfoundry", "state"))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("seed_policy", SeedPolicyStrict)

	// ENV binding with QF_ prefix
	v.SetEnvPrefix("QF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range map[string]string{
		"data_dir":    "QF_DATA_DIR",
		"log_level":   "QF_LOG_LEVEL",
		"log_file":    "QF_LOG_FILE",
		"seed_policy": "QF_SEED_POLICY",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.SeedPolicy != SeedPolicyStrict && cfg.SeedPolicy != SeedPolicyWarn {
		return nil, fmt.Errorf("invalid seed_policy %q (must be %s or %s)",
			cfg.SeedPolicy, SeedPolicyStrict, SeedPolicyWarn)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/qf/qf.yml or $XDG_CONFIG_HOME/qf/qf.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "qf", "qf.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "qf", "qf.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./qf.yml in the current working directory.
func ProjectPath() string {
	return "qf.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return writeConfig(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return writeConfig(ProjectPath(), cfg)
}

func writeConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
