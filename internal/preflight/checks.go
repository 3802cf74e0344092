package preflight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"edgectl/internal/config"
	"edgectl/internal/session"
)

const gatewayCheckTimeout = 5 * time.Second

// CheckGateway verifies that the gateway answers its public system-info
// endpoint with a success envelope.
func CheckGateway(ctx context.Context, doer Doer, baseURL string) Result {
	const name = "Gateway"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if doer == nil {
		doer = &http.Client{Timeout: gatewayCheckTimeout}
	}

	checkCtx, cancel := context.WithTimeout(ctx, gatewayCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/api/auth/system-info", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", base, err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := doer.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", base, summarizeError(err))}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("%s (unexpected status %d)", base, resp.StatusCode)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (read response: %v)", base, err)}
	}
	var envelope struct {
		Code json.RawMessage `json:"code"`
		Data struct {
			Name    string `json:"name"`
			SoftVer string `json:"softVer"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (not a gateway response)", base)}
	}
	if code := string(bytes.Trim(envelope.Code, `"`)); code != "0" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (gateway returned code %s)", base, code)}
	}
	detail := base
	if envelope.Data.Name != "" {
		detail = fmt.Sprintf("%s %s at %s", envelope.Data.Name, envelope.Data.SoftVer, base)
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(strings.Fields(detail), " ")}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDownloadDir is CheckDirectoryAccess for a directory that is created on
// first save. A missing directory passes when its nearest existing ancestor
// is writable.
func CheckDownloadDir(name, path string) Result {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first save)", path)}
}

// CheckSession describes the stored login. It is advisory: being logged out
// is a state, not a fault.
func CheckSession(store session.Store) Result {
	const name = "Session"

	info, ok := store.Load()
	if !ok {
		return Result{Name: name, Advisory: true, Detail: "not logged in"}
	}
	exp, ok := info.ExpiresAt()
	if !ok {
		return Result{Name: name, Passed: true, Advisory: true, Detail: info.Username}
	}
	if !exp.After(time.Now()) {
		return Result{Name: name, Advisory: true, Detail: fmt.Sprintf("%s (token expired %s)", info.Username, humanize.Time(exp))}
	}
	return Result{Name: name, Passed: true, Advisory: true, Detail: fmt.Sprintf("%s (expires %s)", info.Username, humanize.Time(exp))}
}

// summarizeError produces a human-readable summary for connectivity failures.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out (gateway unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (gateway unreachable)"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("unreachable (%v)", opErr.Err)
	}
	return err.Error()
}
