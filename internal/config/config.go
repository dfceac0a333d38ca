// Package config provides Viper-based configuration loading for the battle simulator.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ProviderConfig holds creature data provider settings.
type ProviderConfig struct {
	// BaseURL is the PokéAPI root, e.g. "https://pokeapi.co/api/v2".
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds every single provider call.
	Timeout time.Duration `mapstructure:"timeout"`
	// UserAgent is sent with every request when non-empty.
	UserAgent string `mapstructure:"user_agent"`
	// MaxBodyBytes caps every response body; a larger body is malformed.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// BattleConfig holds battle engine settings.
type BattleConfig struct {
	// Seed selects the randomness source: 0 uses crypto/rand, anything else
	// seeds a reproducible stream for every battle.
	Seed int64 `mapstructure:"seed"`
}

// MCPConfig holds Model Context Protocol server settings.
type MCPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// GRPCConfig holds gRPC listener settings.
type GRPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Provider ProviderConfig `mapstructure:"provider"`
	Battle   BattleConfig   `mapstructure:"battle"`
	MCP      MCPConfig      `mapstructure:"mcp"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateProvider(c.Provider); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMCP(c.MCP); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGRPC(c.GRPC); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTracing(c.Tracing); err != nil {
		errs = append(errs, err.Error())
	}
	if !c.MCP.Enabled && !c.GRPC.Enabled {
		errs = append(errs, "at least one of mcp.enabled or grpc.enabled must be true")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateProvider(p ProviderConfig) error {
	var errs []string
	u, err := url.Parse(p.BaseURL)
	if p.BaseURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("provider.base_url must be an absolute URL, got %q", p.BaseURL))
	}
	if p.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("provider.timeout must be > 0, got %s", p.Timeout))
	}
	if p.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Sprintf("provider.max_body_bytes must be > 0, got %d", p.MaxBodyBytes))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMCP(m MCPConfig) error {
	if m.Enabled && m.Name == "" {
		return errors.New("mcp.name must not be empty")
	}
	return nil
}

func validateGRPC(g GRPCConfig) error {
	if !g.Enabled {
		return nil
	}
	var errs []string
	if g.Host == "" {
		errs = append(errs, "grpc.host must not be empty")
	}
	if g.Port < 1 || g.Port > 65535 {
		errs = append(errs, fmt.Sprintf("grpc.port must be 1-65535, got %d", g.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTracing(t TracingConfig) error {
	if !t.Enabled {
		return nil
	}
	var errs []string
	if t.Endpoint == "" {
		errs = append(errs, "tracing.endpoint must not be empty when tracing is enabled")
	}
	if t.ServiceName == "" {
		errs = append(errs, "tracing.service_name must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with BATTLESIM_ prefix
	v.SetEnvPrefix("BATTLESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("provider.base_url", "https://pokeapi.co/api/v2")
	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("provider.user_agent", "battlesim")
	v.SetDefault("provider.max_body_bytes", 8<<20)

	v.SetDefault("battle.seed", 0)

	v.SetDefault("mcp.enabled", true)
	v.SetDefault("mcp.name", "pokemon-server")
	v.SetDefault("mcp.version", "v1.0.0")

	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.host", "127.0.0.1")
	v.SetDefault("grpc.port", 50051)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "battlesim")
}
