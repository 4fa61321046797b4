package config

import (
	"fmt"
	"strings"
	"time"
)

// NATSConfig configures the JetStream publisher of product events.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Url            string        `koanf:"url"`
	Timeout        time.Duration `koanf:"timeout"`
	PublishTimeout time.Duration `koanf:"publishtimeout"`
}

// String returns a string representation of the NATS configuration.
func (c *NATSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- NATS ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  url: %s\n", c.Url))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  publishtimeout: %s\n", c.PublishTimeout))
	return b.String()
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("nats dial timeout is not configured")
	}
	if c.PublishTimeout <= 0 {
		return fmt.Errorf("nats publish timeout is not configured")
	}
	return nil
}
