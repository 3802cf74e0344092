package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Gateway contains connection settings for the gateway management API.
type Gateway struct {
	BaseURL            string `toml:"base_url"`
	RequestTimeout     int    `toml:"request_timeout"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
}

// Session contains configuration for persisted login state.
type Session struct {
	StateDir  string `toml:"state_dir"`
	LoginPath string `toml:"login_path"`
}

// UI contains presentation settings shared by CLI commands.
type UI struct {
	Language        string `toml:"language"`
	HexPreviewBytes int    `toml:"hex_preview_bytes"`
	DownloadDir     string `toml:"download_dir"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for edgectl.
//
// Configuration sections by subsystem:
//   - Gateway: base URL and request deadline for the management API
//   - Session: where login state is persisted and which route is public
//   - UI: label language, hex preview width, download directory
//   - Notifications: optional ntfy topic mirroring console notices
//   - Logging: log format, level, and optional file directory
type Config struct {
	Gateway       Gateway       `toml:"gateway"`
	Session       Session       `toml:"session"`
	UI            UI            `toml:"ui"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("edgectl.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory so the session store can lock
// and write its record.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Session.StateDir, 0o700); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Session.StateDir, err)
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		if err := os.MkdirAll(c.Logging.Dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Logging.Dir, err)
		}
	}
	return nil
}

// SessionFile returns the path of the persisted login record.
func (c *Config) SessionFile() string {
	return filepath.Join(c.Session.StateDir, sessionFileName)
}

// RequestTimeout returns the per-request deadline for gateway calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Gateway.RequestTimeout) * time.Second
}

// NotificationTimeout returns the deadline for ntfy deliveries.
func (c *Config) NotificationTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "edgectl")
	}
	return "~/.local/state/edgectl"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	return CreateSampleFor(path, "")
}

// CreateSampleFor writes the sample with gateway.base_url pointed at baseURL.
// An empty baseURL keeps the loopback default.
func CreateSampleFor(path, baseURL string) error {
	content := sampleConfig
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		if err := ValidateGatewayURL(baseURL); err != nil {
			return err
		}
		content = strings.Replace(content, "base_url = "+strconv.Quote(defaultGatewayURL), "base_url = "+strconv.Quote(baseURL), 1)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
