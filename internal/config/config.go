package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/mcpforge/internal/codegen"
	"github.com/bobmcallan/mcpforge/internal/common"
)

// Transports accepted by [mcp] transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig         `toml:"server"`
	MCP       MCPConfig            `toml:"mcp"`
	Generator GeneratorConfig      `toml:"generator"`
	Logging   common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Port         int    `toml:"port"`
	Host         string `toml:"host"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`

	// Timeouts in seconds. Package builds are the slowest responses.
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Seconds converts a timeout setting to a duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// MCPConfig contains settings for mcpforge's own MCP server.
type MCPConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"`
	Port      int    `toml:"port"`
}

// GeneratorConfig contains code generation defaults.
type GeneratorConfig struct {
	Target    string `toml:"target"`
	OutputDir string `toml:"output_dir"`
}

// Address returns host:port for the HTTP API.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// MCPAddress returns host:port for the streamable MCP listener.
func (c *Config) MCPAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.MCP.Port))
}

// Target resolves the configured generator target.
func (c *Config) Target() (codegen.Target, error) {
	return codegen.TargetByName(c.Generator.Target)
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	switch c.MCP.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid mcp transport %q (want %s or %s)", c.MCP.Transport, TransportStdio, TransportHTTP)
	}
	if _, err := c.Target(); err != nil {
		return fmt.Errorf("invalid generator target: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	timeouts := []struct {
		name  string
		value int
	}{
		{"read_timeout", c.Server.ReadTimeout},
		{"write_timeout", c.Server.WriteTimeout},
		{"idle_timeout", c.Server.IdleTimeout},
		{"shutdown_timeout", c.Server.ShutdownTimeout},
	}
	for _, tt := range timeouts {
		if tt.value <= 0 {
			return fmt.Errorf("invalid server %s %d (want seconds > 0)", tt.name, tt.value)
		}
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging format %q (want text or json)", c.Logging.Format)
	}
	return nil
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies MCPFORGE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("MCPFORGE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MCPFORGE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if name := os.Getenv("MCPFORGE_MCP_NAME"); name != "" {
		config.MCP.Name = name
	}
	if transport := os.Getenv("MCPFORGE_MCP_TRANSPORT"); transport != "" {
		config.MCP.Transport = strings.ToLower(transport)
	}
	if port := os.Getenv("MCPFORGE_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.MCP.Port = p
		}
	}
	if target := os.Getenv("MCPFORGE_TARGET"); target != "" {
		config.Generator.Target = target
	}
	if dir := os.Getenv("MCPFORGE_OUTPUT_DIR"); dir != "" {
		config.Generator.OutputDir = dir
	}
	if level := os.Getenv("MCPFORGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("MCPFORGE_LOG_FORMAT"); format != "" {
		config.Logging.Format = strings.ToLower(format)
	}
}

// FlagOverrides holds command-line values; zero values leave config alone.
type FlagOverrides struct {
	Port      int
	Host      string
	Transport string
	Target    string
	LogLevel  string
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, flags FlagOverrides) {
	if flags.Port > 0 {
		config.Server.Port = flags.Port
	}
	if flags.Host != "" {
		config.Server.Host = flags.Host
	}
	if flags.Transport != "" {
		config.MCP.Transport = strings.ToLower(flags.Transport)
	}
	if flags.Target != "" {
		config.Generator.Target = flags.Target
	}
	if flags.LogLevel != "" {
		config.Logging.Level = flags.LogLevel
	}
}
