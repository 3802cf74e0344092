package notifications

import (
	"context"
	"errors"
	"strings"
	"sync"

	"edgectl/internal/config"
)

// Severity classifies a notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Service is the publish surface used by the request pipeline and commands.
type Service interface {
	Publish(ctx context.Context, message string, severity Severity) error
}

// NewService builds the console notifier, fanned out to ntfy when a topic is
// configured.
func NewService(cfg *config.Config, console Service) Service {
	if console == nil {
		console = Noop()
	}
	if cfg == nil {
		return console
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return console
	}
	return Fanout(console, NewNtfy(topic, cfg.NotificationTimeout()))
}

type fanout []Service

// Fanout publishes to every service in order and joins their errors.
func Fanout(services ...Service) Service {
	out := make(fanout, 0, len(services))
	for _, svc := range services {
		if svc != nil {
			out = append(out, svc)
		}
	}
	return out
}

func (f fanout) Publish(ctx context.Context, message string, severity Severity) error {
	var errs []error
	for _, svc := range f {
		if err := svc.Publish(ctx, message, severity); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopService struct{}

// Noop discards every notice.
func Noop() Service { return noopService{} }

func (noopService) Publish(context.Context, string, Severity) error { return nil }

// Notice is a published message captured by Recorder.
type Notice struct {
	Message  string
	Severity Severity
}

// Recorder keeps every published notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Publish(_ context.Context, message string, severity Severity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Message: message, Severity: severity})
	return nil
}

// Notices returns a copy of the captured notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
