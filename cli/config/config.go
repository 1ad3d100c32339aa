// Package config handles YAML config file loading for the formwire CLI.
package config

import (
	"fmt"
	"time"
)

// Config represents a formwire.yaml configuration file.
// All values are optional and act as defaults for formwire encode flags.
// CLI flags always override config values.
type Config struct {
	// Encoding is the default body encoding (urlencoded or multipart).
	Encoding string `yaml:"encoding"`
	// Output is the default output path; "-" means stdout.
	Output string `yaml:"output"`
	// S3 holds defaults for s3:// source references.
	S3 S3Config `yaml:"s3"`
	// Deliver holds delivery adapter defaults.
	Deliver DeliverConfig `yaml:"deliver"`
}

// S3Config holds S3 source defaults from the config file.
type S3Config struct {
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// DeliverConfig holds delivery adapter defaults from the config file.
type DeliverConfig struct {
	Type    string            `yaml:"type"` // webhook or redis
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate checks cross-field constraints that YAML parsing cannot.
func (c *Config) Validate() error {
	switch c.Deliver.Type {
	case "", "webhook", "redis":
	default:
		return fmt.Errorf("invalid deliver type %q (must be webhook or redis)", c.Deliver.Type)
	}
	if c.Deliver.Type != "" && c.Deliver.URL == "" {
		return fmt.Errorf("deliver type %q requires a url", c.Deliver.Type)
	}
	return nil
}
