package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"edgectl/internal/config"
)

const ntfyTitle = "edgectl"

var ntfyTags = map[Severity]string{
	SeverityInfo:    "edgectl,info",
	SeveritySuccess: "edgectl,white_check_mark",
	SeverityWarning: "edgectl,warning",
	SeverityError:   "edgectl,rotating_light",
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

// NewNtfy posts notices to the ntfy topic URL.
func NewNtfy(endpoint string, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

func (n *ntfyService) Publish(ctx context.Context, message string, severity Severity) error {
	if n == nil || n.client == nil || n.endpoint == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", config.UserAgent())
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", ntfyTitle)
	if tags, ok := ntfyTags[severity]; ok {
		req.Header.Set("Tags", tags)
	}
	switch severity {
	case SeverityError:
		req.Header.Set("Priority", "high")
	case SeverityInfo:
		req.Header.Set("Priority", "low")
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
