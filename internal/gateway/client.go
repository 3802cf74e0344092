package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"edgectl/internal/logging"
	"edgectl/internal/notifications"
	"edgectl/internal/request"
	"edgectl/internal/session"
)

// Sender is the pipeline surface the client needs.
type Sender interface {
	Send(ctx context.Context, r *request.Request) request.Result
}

// Client calls the gateway management API.
type Client struct {
	sender   Sender
	store    session.Store
	notifier notifications.Service
	logger   *slog.Logger
}

// New builds a client. store receives the session on Login and is cleared
// on Logout.
func New(sender Sender, store session.Store, notifier notifications.Service, logger *slog.Logger) *Client {
	if notifier == nil {
		notifier = notifications.Noop()
	}
	return &Client{
		sender:   sender,
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "gateway"),
	}
}

// SystemInfo is the public identity of the gateway.
type SystemInfo struct {
	Name    string `json:"name"`
	SoftVer string `json:"softVer"`
}

type loginRequest struct {
	LoginFlag bool `json:"loginFlag"`
	Data      struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Nonce    string `json:"nonce"`
	} `json:"data"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
	Nonce       string `json:"nonce"`
}

// HashPassword returns hex(sha256(password + nonce)), the form the gateway
// verifies credentials in.
func HashPassword(password, nonce string) string {
	sum := sha256.Sum256([]byte(password + nonce))
	return hex.EncodeToString(sum[:])
}

func (c *Client) SystemInfo(ctx context.Context) (SystemInfo, error) {
	var info SystemInfo
	if err := c.call(ctx, http.MethodGet, "/api/auth/system-info", nil, &info, true); err != nil {
		return SystemInfo{}, err
	}
	return info, nil
}

// Nonce fetches a single-use login nonce.
func (c *Client) Nonce(ctx context.Context) (string, error) {
	var data struct {
		Nonce string `json:"nonce"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/auth/nonce", nil, &data, true); err != nil {
		return "", err
	}
	if strings.TrimSpace(data.Nonce) == "" {
		return "", fmt.Errorf("decode gateway response: empty nonce")
	}
	return data.Nonce, nil
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, username, password string) (session.Info, error) {
	nonce, err := c.Nonce(ctx)
	if err != nil {
		return session.Info{}, fmt.Errorf("fetch login nonce: %w", err)
	}

	var body loginRequest
	body.LoginFlag = true
	body.Data.Username = username
	body.Data.Password = HashPassword(password, nonce)
	body.Data.Nonce = nonce

	var info session.Info
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", body, &info, true); err != nil {
		return session.Info{}, err
	}
	if !info.Valid() {
		return session.Info{}, fmt.Errorf("decode gateway response: login returned no token")
	}
	if info.Username == "" {
		info.Username = username
	}
	if err := c.store.Save(info); err != nil {
		return session.Info{}, fmt.Errorf("store session: %w", err)
	}
	c.logger.Info("logged in",
		logging.String("username", info.Username),
		logging.Int("permissions", len(info.Permissions)),
	)
	return info, nil
}

// Logout notifies the gateway and clears the local session even when the
// call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.store.Clear()
	if _, ok := c.store.Load(); !ok {
		return nil
	}
	return c.call(ctx, http.MethodPost, "/api/auth/logout", nil, nil, false)
}

// ChangePassword updates the logged-in user's password and returns the
// gateway's confirmation message.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	nonce, err := c.Nonce(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch password nonce: %w", err)
	}
	body := changePasswordRequest{
		OldPassword: HashPassword(oldPassword, nonce),
		NewPassword: newPassword,
		Nonce:       nonce,
	}
	return c.callMessage(ctx, http.MethodPost, "/api/auth/change-password", body)
}

// RestartSystem asks the gateway process to restart.
func (c *Client) RestartSystem(ctx context.Context) (string, error) {
	return c.callMessage(ctx, http.MethodPost, "/api/system/restart", nil)
}

// Channels lists the acquisition channels. The endpoint returns a bare array.
func (c *Client) Channels(ctx context.Context) ([]Channel, error) {
	body, err := c.send(ctx, http.MethodGet, "/api/channels", nil)
	if err != nil {
		return nil, err
	}
	var channels []Channel
	if err := json.Unmarshal(body, &channels); err != nil {
		return nil, fmt.Errorf("decode channels: %w", err)
	}
	return channels, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	res := c.sender.Send(ctx, &request.Request{Method: method, URL: path, Body: body})
	if !res.OK() {
		return nil, res.Err
	}
	return res.Body, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, requireCode bool) error {
	raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if _, err := decodeEnvelope(raw, out, requireCode); err != nil {
		return c.reject(ctx, path, err)
	}
	return nil
}

func (c *Client) callMessage(ctx context.Context, method, path string, body any) (string, error) {
	raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	env, err := decodeEnvelope(raw, nil, false)
	if err != nil {
		return "", c.reject(ctx, path, err)
	}
	return env.message(), nil
}

// reject publishes business rejections. Transport failures were already
// published by the pipeline.
func (c *Client) reject(ctx context.Context, path string, err error) error {
	c.logger.Warn("gateway call rejected", logging.String("path", path), logging.Error(err))
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Msg != "" {
		if perr := c.notifier.Publish(ctx, rejected.Msg, notifications.SeverityError); perr != nil {
			c.logger.Warn("notification delivery failed", logging.Error(perr))
		}
	}
	return err
}
