package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edgectl/internal/gateway"
)

const (
	cliUser     = "admin"
	cliPassword = "123456"
	cliNonce    = "nonce-1"
	cliToken    = "tok-cli"
)

type cliTestEnv struct {
	server      *httptest.Server
	configPath  string
	stateDir    string
	downloadDir string
	logDir      string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("EDGECTL_GATEWAY_URL", "")
	t.Setenv("EDGECTL_NTFY_TOPIC", "")
	t.Setenv("EDGECTL_LANG", "")

	srv := httptest.NewServer(newFakeGatewayHandler())
	t.Cleanup(srv.Close)

	env := &cliTestEnv{
		server:      srv,
		configPath:  filepath.Join(homeDir, ".config", "edgectl", "config.toml"),
		stateDir:    filepath.Join(base, "state"),
		downloadDir: filepath.Join(base, "downloads"),
		logDir:      filepath.Join(base, "logs"),
	}
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[gateway]
base_url = %q

[session]
state_dir = %q

[ui]
language = "en-US"
hex_preview_bytes = 4
download_dir = %q

[logging]
level = "error"
dir = %q
`, srv.URL, env.stateDir, env.downloadDir, env.logDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func newFakeGatewayHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/system-info", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, `{"code":"0","data":{"name":"edge-cli","softVer":"v1.0.0"}}`)
	})
	mux.HandleFunc("GET /api/auth/nonce", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, `{"code":"0","data":{"nonce":"`+cliNonce+`"}}`)
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Data struct {
				Username string `json:"username"`
				Password string `json:"password"`
			} `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Data.Username != cliUser || req.Data.Password != gateway.HashPassword(cliPassword, cliNonce) {
			writeTestJSON(w, http.StatusOK, `{"code":"1","msg":"wrong password"}`)
			return
		}
		writeTestJSON(w, http.StatusOK, `{"code":"0","msg":"Success","data":{"username":"admin","token":"`+cliToken+`","permissions":["admin"]}}`)
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, `{"code":"0","msg":"Logged out"}`)
	})
	mux.HandleFunc("GET /api/channels", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+cliToken {
			writeTestJSON(w, http.StatusUnauthorized, `{"code":"401","msg":"unauthorized"}`)
			return
		}
		writeTestJSON(w, http.StatusOK, `[
			{"id":"ch-1","name":"Line 1","protocol":"modbus-tcp","enable":true,"devices":[{}],"runtime":{"state":3,"fail_count":7,"success_count":3}},
			{"id":"ch-2","name":"Boiler","protocol":"s7","enable":false,"status":"Excellent"}
		]`)
	})
	return mux
}

func writeTestJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
