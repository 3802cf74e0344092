package testsupport

import (
	"path/filepath"
	"testing"

	"edgectl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Logging stays quiet and the language is English unless overridden.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Session.StateDir = filepath.Join(base, "state")
	cfg.UI.DownloadDir = filepath.Join(base, "downloads")
	cfg.UI.Language = "en-US"
	cfg.Logging.Dir = ""
	cfg.Logging.Level = "error"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithGatewayURL points the test config at a gateway, typically an
// httptest server.
func WithGatewayURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Gateway.BaseURL = url
	}
}

// WithLogDir enables file logging under the config's temp tree.
func WithLogDir() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Logging.Dir = filepath.Join(BaseDir(cfg), "logs")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Session.StateDir)
}
