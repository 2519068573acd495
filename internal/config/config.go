// Package config provides YAML-based configuration with environment
// overrides. A default config file is written on first run so a fresh
// deployment is self-documenting.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Refresh  RefreshConfig  `mapstructure:"refresh" yaml:"refresh"`
	Security SecurityConfig `mapstructure:"security" yaml:"security"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `mapstructure:"port" yaml:"port"`
	BindAddress  string `mapstructure:"bind_address" yaml:"bind_address"`
	EnableCORS   bool   `mapstructure:"enable_cors" yaml:"enable_cors"`
	AllowOrigins string `mapstructure:"allow_origins" yaml:"allow_origins"`
	ReadTimeout  int    `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeout int    `mapstructure:"write_timeout_seconds" yaml:"write_timeout_seconds"`
	IdleTimeout  int    `mapstructure:"idle_timeout_seconds" yaml:"idle_timeout_seconds"`
	BodyLimit    string `mapstructure:"body_limit" yaml:"body_limit"`
}

// StorageConfig contains snapshot and report storage settings.
type StorageConfig struct {
	DataDirectory    string `mapstructure:"data_directory" yaml:"data_directory"`
	ReportsDirectory string `mapstructure:"reports_directory" yaml:"reports_directory"`
	SnapshotFile     string `mapstructure:"snapshot_file" yaml:"snapshot_file"`
}

// RefreshConfig controls snapshot auto-refresh.
type RefreshConfig struct {
	WatchSnapshot bool `mapstructure:"watch_snapshot" yaml:"watch_snapshot"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	AllowReportDeletion bool `mapstructure:"allow_report_deletion" yaml:"allow_report_deletion"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level                string `mapstructure:"level" yaml:"level"`
	EnableRequestLogging bool   `mapstructure:"enable_request_logging" yaml:"enable_request_logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8084,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "32M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			ReportsDirectory: "./data/reports",
			SnapshotFile:     "./data/dashboard_data.json",
		},
		Refresh: RefreshConfig{
			WatchSnapshot: true,
		},
		Security: SecurityConfig{
			AllowReportDeletion: true,
		},
		Log: LogConfig{
			Level:                "info",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from the given YAML file, with KYCDASH_*
// environment variables overriding file values. If the file does not exist
// a default one is written first.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := DefaultConfig().Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.bind_address", defaults.Server.BindAddress)
	v.SetDefault("server.enable_cors", defaults.Server.EnableCORS)
	v.SetDefault("server.allow_origins", defaults.Server.AllowOrigins)
	v.SetDefault("server.read_timeout_seconds", defaults.Server.ReadTimeout)
	v.SetDefault("server.write_timeout_seconds", defaults.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout_seconds", defaults.Server.IdleTimeout)
	v.SetDefault("server.body_limit", defaults.Server.BodyLimit)
	v.SetDefault("storage.data_directory", defaults.Storage.DataDirectory)
	v.SetDefault("storage.reports_directory", defaults.Storage.ReportsDirectory)
	v.SetDefault("storage.snapshot_file", defaults.Storage.SnapshotFile)
	v.SetDefault("refresh.watch_snapshot", defaults.Refresh.WatchSnapshot)
	v.SetDefault("security.allow_report_deletion", defaults.Security.AllowReportDeletion)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.enable_request_logging", defaults.Log.EnableRequestLogging)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvPrefix("KYCDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.resolvePaths(filepath.Dir(configPath))
	return &cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# KYC Expiry Dashboard configuration\n# This file is auto-generated on first run\n\n")
	if err := os.WriteFile(configPath, append(header, output...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// resolvePaths converts relative paths to absolute based on the config file
// location.
func (c *Config) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.ReportsDirectory) {
		c.Storage.ReportsDirectory = filepath.Join(configDir, c.Storage.ReportsDirectory)
	}
	if !filepath.IsAbs(c.Storage.SnapshotFile) {
		c.Storage.SnapshotFile = filepath.Join(configDir, c.Storage.SnapshotFile)
	}
}

// GetServerAddr returns the server bind address.
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.ReportsDirectory,
		filepath.Dir(c.Storage.SnapshotFile),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
