// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for tada.
type Config struct {
	APIURL         string        `mapstructure:"api_url" yaml:"api_url"`
	APIToken       string        `mapstructure:"api_token" yaml:"api_token"`
	User           string        `mapstructure:"user" yaml:"user"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	DataDir        string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string        `mapstructure:"log_file" yaml:"log_file"`
	Autosave       bool          `mapstructure:"autosave" yaml:"autosave"`
	SchemaFile     string        `mapstructure:"schema_file" yaml:"schema_file"`
	ListenAddr     string        `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("tada")

	// Set defaults (api_token has no default - remote stores require one)
	v.SetDefault("api_url", "http://localhost:8642")
	v.SetDefault("user", "")
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("data_dir", ".tada")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("autosave", true)
	v.SetDefault("schema_file", "")
	v.SetDefault("listen_addr", "localhost:8642")

	// Setup ENV binding with TADA_ prefix
	v.SetEnvPrefix("TADA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better bool/duration parsing
	// Note: BindEnv errors are very rare (only invalid key names), but we check them anyway
	envKeys := []string{
		"api_url", "api_token", "user", "request_timeout", "data_dir",
		"log_level", "log_file", "autosave", "schema_file", "listen_addr",
	}
	for _, key := range envKeys {
		if err := v.BindEnv(key, "TADA_"+strings.ToUpper(key)); err != nil {
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
		// Need to set config file explicitly for merge
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/tada/tada.yml or $XDG_CONFIG_HOME/tada/tada.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tada", "tada.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tada", "tada.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./tada.yml in the current working directory.
func ProjectPath() string {
	return "tada.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ProjectPath(), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
