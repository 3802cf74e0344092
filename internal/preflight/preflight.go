package preflight

import (
	"context"
	"net/http"
	"strings"

	"edgectl/internal/config"
	"edgectl/internal/session"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Advisory results describe state rather than faults; a failed advisory
	// check is a warning.
	Advisory bool
}

// Doer issues HTTP requests.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, doer Doer, store session.Store) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckGateway(ctx, doer, cfg.Gateway.BaseURL),
		CheckDirectoryAccess("State directory", cfg.Session.StateDir),
		CheckDownloadDir("Download directory", cfg.UI.DownloadDir),
	}
	if strings.TrimSpace(cfg.Logging.Dir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}
	if store != nil {
		results = append(results, CheckSession(store))
	}
	return results
}

// Failed reports whether any non-advisory check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Advisory {
			return true
		}
	}
	return false
}
