package config

import "github.com/bobmcallan/mcpforge/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            4250,
			Host:            "localhost",
			MaxBodyBytes:    1 << 20,
			ReadTimeout:     30,
			WriteTimeout:    120,
			IdleTimeout:     120,
			ShutdownTimeout: 10,
		},
		MCP: MCPConfig{
			Name:      "mcpforge",
			Transport: TransportStdio,
			Port:      4251,
		},
		Generator: GeneratorConfig{
			Target:    "python",
			OutputDir: "./out",
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
	}
}
