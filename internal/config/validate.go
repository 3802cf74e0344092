package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGateway(); err != nil {
		return err
	}
	if err := c.validateUI(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

// ValidateGatewayURL checks that raw is an absolute http(s) URL with a host.
func ValidateGatewayURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("gateway.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("gateway.base_url must use http or https, got %q", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("gateway.base_url must include a host, got %q", raw)
	}
	return nil
}

func (c *Config) validateGateway() error {
	if err := ValidateGatewayURL(c.Gateway.BaseURL); err != nil {
		return err
	}
	if c.Gateway.RequestTimeout < minRequestTimeout {
		return fmt.Errorf("gateway.request_timeout must be at least %d seconds", minRequestTimeout)
	}
	return nil
}

func (c *Config) validateUI() error {
	if _, err := language.Parse(c.UI.Language); err != nil {
		return fmt.Errorf("ui.language: %w", err)
	}
	if c.UI.HexPreviewBytes > defaultMaxHexPreviewBytes {
		return fmt.Errorf("ui.hex_preview_bytes must be <= %d", defaultMaxHexPreviewBytes)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return errors.New("notifications.ntfy_topic must be a full http(s) URL")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
