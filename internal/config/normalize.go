package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeGateway()
	if err := c.normalizeSession(); err != nil {
		return err
	}
	if err := c.normalizeUI(); err != nil {
		return err
	}
	c.normalizeNotifications()
	return c.normalizeLogging()
}

func (c *Config) normalizeGateway() {
	if value, ok := os.LookupEnv(envGatewayURL); ok && strings.TrimSpace(value) != "" {
		c.Gateway.BaseURL = value
	}
	c.Gateway.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gateway.BaseURL), "/")
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = defaultGatewayURL
	}
	// Field protocol scans (BACnet, OPC UA browse) routinely take tens of seconds.
	if c.Gateway.RequestTimeout < minRequestTimeout {
		c.Gateway.RequestTimeout = minRequestTimeout
	}
}

func (c *Config) normalizeSession() error {
	var err error
	if strings.TrimSpace(c.Session.StateDir) == "" {
		c.Session.StateDir = defaultStateDir()
	}
	if c.Session.StateDir, err = expandPath(c.Session.StateDir); err != nil {
		return fmt.Errorf("session.state_dir: %w", err)
	}
	c.Session.LoginPath = strings.TrimSpace(c.Session.LoginPath)
	if c.Session.LoginPath == "" {
		c.Session.LoginPath = defaultLoginPath
	}
	if !strings.HasPrefix(c.Session.LoginPath, "/") {
		c.Session.LoginPath = "/" + c.Session.LoginPath
	}
	return nil
}

func (c *Config) normalizeUI() error {
	if value, ok := os.LookupEnv(envLanguage); ok && strings.TrimSpace(value) != "" {
		c.UI.Language = value
	}
	c.UI.Language = strings.TrimSpace(c.UI.Language)
	if c.UI.Language == "" {
		c.UI.Language = defaultLanguage
	}
	if c.UI.HexPreviewBytes <= 0 {
		c.UI.HexPreviewBytes = defaultHexPreviewBytes
	}
	if strings.TrimSpace(c.UI.DownloadDir) == "" {
		c.UI.DownloadDir = defaultDownloadDir
	}
	var err error
	if c.UI.DownloadDir, err = expandPath(c.UI.DownloadDir); err != nil {
		return fmt.Errorf("ui.download_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv(envNtfyTopic); ok {
			c.Notifications.NtfyTopic = value
		}
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
