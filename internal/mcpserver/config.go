package mcpserver

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed tools.yaml
var defaultConfig []byte

// Config customizes the tool set: server instructions plus per-tool
// descriptions and annotations.
type Config struct {
	Instructions string                  `yaml:"instructions"`
	Tools        map[string]ToolOverride `yaml:"tools"`
}

// ToolOverride allows per-tool customization.
type ToolOverride struct {
	Description string `yaml:"description"`
	ReadOnly    *bool  `yaml:"readonly"`
	Destructive *bool  `yaml:"destructive"`
	Idempotent  *bool  `yaml:"idempotent"`
}

// DefaultConfig returns the embedded configuration.
func DefaultConfig() (*Config, error) {
	return ParseConfig(defaultConfig)
}

// LoadConfig reads tool configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mcp config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses tool configuration from raw YAML.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}
	return &cfg, nil
}

// toolOptions returns the description and annotation options for a tool.
func (c *Config) toolOptions(name, fallbackDesc string) []mcp.ToolOption {
	o, ok := c.Tools[name]
	desc := fallbackDesc
	if ok && o.Description != "" {
		desc = o.Description
	}

	opts := []mcp.ToolOption{mcp.WithDescription(desc)}
	if !ok {
		return opts
	}
	if o.ReadOnly != nil {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(*o.ReadOnly))
	}
	if o.Destructive != nil {
		opts = append(opts, mcp.WithDestructiveHintAnnotation(*o.Destructive))
	}
	if o.Idempotent != nil {
		opts = append(opts, mcp.WithIdempotentHintAnnotation(*o.Idempotent))
	}
	return opts
}
