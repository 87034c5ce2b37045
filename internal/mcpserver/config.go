package mcpserver

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIURL       = "http://127.0.0.1:8080"
	defaultInstructions = "CarbonJar certificate tools. Look up, verify, list and revoke course completion certificates."
	defaultTimeout      = 30 * time.Second
)

// Config is the MCP bridge configuration loaded from mcp.yaml.
type Config struct {
	APIURL         string                  `yaml:"api_url"`
	Instructions   string                  `yaml:"instructions"`
	TimeoutSeconds int                     `yaml:"timeout_seconds"`
	Tools          map[string]ToolOverride `yaml:"tools"`
}

// ToolOverride customizes or disables a single tool.
type ToolOverride struct {
	Description string `yaml:"description"`
	Disabled    bool   `yaml:"disabled"`
}

// LoadConfig reads and parses the mcp.yaml configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses mcp.yaml configuration from raw bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Instructions == "" {
		cfg.Instructions = defaultInstructions
	}
	if cfg.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("parse mcp config: timeout_seconds must not be negative")
	}

	for name := range cfg.Tools {
		if !knownTool(name) {
			return nil, fmt.Errorf("parse mcp config: unknown tool %q", name)
		}
	}

	return &cfg, nil
}

// Timeout bounds each proxied API call.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds == 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
