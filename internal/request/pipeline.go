package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"edgectl/internal/i18n"
	"edgectl/internal/logging"
	"edgectl/internal/notifications"
	"edgectl/internal/session"
)

const (
	// MinTimeout is the shortest per-request deadline. Field protocol scans
	// on the gateway routinely take tens of seconds.
	MinTimeout = 30 * time.Second

	// HeaderRequestID carries the correlation id of each request.
	HeaderRequestID = "X-Request-ID"

	defaultLoginPath = "/login"
	maxBodyBytes     = 32 << 20
)

// Doer abstracts http.Client.Do for testing.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Navigator is the routing surface the pipeline drives on session expiry.
type Navigator interface {
	CurrentPath() string
	// Redirect performs a hard navigation that bypasses the route guard.
	Redirect(path string)
}

// Request describes one outbound call. URL may be relative to the pipeline's
// base URL. Body may be nil, an io.Reader, a []byte, or any JSON-encodable
// value.
type Request struct {
	Method  string
	URL     string
	Header  Header
	Body    any
	Timeout time.Duration
}

// Pipeline sends requests with session headers attached and handles the
// response side effects. It is safe for concurrent use.
type Pipeline struct {
	baseURL   string
	doer      Doer
	store     session.Store
	notifier  notifications.Service
	navigator Navigator
	lang      i18n.Lang
	loginPath string
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithBaseURL sets the prefix for relative request URLs.
func WithBaseURL(base string) Option {
	return func(p *Pipeline) { p.baseURL = strings.TrimRight(strings.TrimSpace(base), "/") }
}

// WithDoer overrides the HTTP transport.
func WithDoer(doer Doer) Option {
	return func(p *Pipeline) {
		if doer != nil {
			p.doer = doer
		}
	}
}

func WithNotifier(svc notifications.Service) Option {
	return func(p *Pipeline) {
		if svc != nil {
			p.notifier = svc
		}
	}
}

func WithNavigator(nav Navigator) Option {
	return func(p *Pipeline) { p.navigator = nav }
}

func WithLanguage(lang i18n.Lang) Option {
	return func(p *Pipeline) { p.lang = lang }
}

// WithLoginPath sets the route the navigator is sent to on 401.
func WithLoginPath(path string) Option {
	return func(p *Pipeline) {
		if path = strings.TrimSpace(path); path != "" {
			p.loginPath = path
		}
	}
}

// WithTimeout sets the default deadline. Values below MinTimeout are raised.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(p *Pipeline) { p.userAgent = ua }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.NewComponentLogger(logger, "request") }
}

// New builds a pipeline reading credentials from store.
func New(store session.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		doer:      http.DefaultClient,
		store:     store,
		notifier:  notifications.Noop(),
		lang:      i18n.Default,
		loginPath: defaultLoginPath,
		timeout:   MinTimeout,
		logger:    logging.NewComponentLogger(nil, "request"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Do sends r and returns the response body. On failure the returned error is
// ErrAuthExpired or a *TransportError, after side effects have run.
func (p *Pipeline) Do(ctx context.Context, r *Request) ([]byte, error) {
	res := p.Send(ctx, r)
	return res.Body, res.Err
}

// Send runs the request through the pipeline and reports the tagged outcome.
func (p *Pipeline) Send(ctx context.Context, r *Request) Result {
	res := Result{RequestID: uuid.NewString(), Trace: []State{StatePending}}
	ctx = logging.WithRequestID(ctx, res.RequestID)
	logger := logging.WithContext(ctx, p.logger).With(
		logging.String("method", r.Method),
		logging.String("url", r.URL),
	)

	if r.Header == nil {
		r.Header = HTTPHeader{}
	}
	if p.injectAuth(r, logger) {
		res.Trace = append(res.Trace, StateHeadersInjected)
	} else {
		res.Trace = append(res.Trace, StateHeadersSkipped)
	}

	ctx, cancel := context.WithTimeout(ctx, p.deadline(r))
	defer cancel()

	httpReq, err := p.build(ctx, r, logger)
	if err != nil {
		return p.fail(ctx, res, &TransportError{Kind: KindNetwork, Message: err.Error(), Err: err}, logger)
	}
	httpReq.Header.Set(HeaderRequestID, res.RequestID)

	res.Trace = append(res.Trace, StateSent)
	logger.Debug("request sent", logging.String("state", string(res.Trace[1])))

	resp, err := p.doer.Do(httpReq)
	if err != nil {
		kind := KindNetwork
		if isTimeout(err) {
			kind = KindTimeout
		}
		return p.fail(ctx, res, &TransportError{Kind: kind, Message: err.Error(), Err: err}, logger)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	res.Status = resp.StatusCode
	if err != nil {
		kind := KindNetwork
		if isTimeout(err) {
			kind = KindTimeout
		}
		return p.fail(ctx, res, &TransportError{Kind: kind, Status: resp.StatusCode, Message: err.Error(), Err: err}, logger)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		res.Outcome = Success
		res.Body = body
		res.Trace = append(res.Trace, StateSuccess)
		logger.Debug("request succeeded", logging.Int("status", resp.StatusCode))
		return res
	case resp.StatusCode == http.StatusUnauthorized:
		return p.expire(ctx, res, body, logger)
	default:
		message := backendMessage(body)
		if message == "" {
			message = fmt.Sprintf("request failed with status code %d", resp.StatusCode)
		}
		return p.fail(ctx, res, &TransportError{Kind: KindHTTPStatus, Status: resp.StatusCode, Message: message}, logger)
	}
}

// injectAuth attaches session headers. Any failure, including a panic from
// the store or header container, leaves the request unauthenticated: both
// auth headers are removed again, and a container that cannot even do that is
// replaced with an empty one.
func (p *Pipeline) injectAuth(r *Request, logger *slog.Logger) (injected bool) {
	defer func() {
		if rec := recover(); rec != nil {
			injected = false
			logger.Warn("auth headers skipped", logging.Error(fmt.Errorf("%w: %v", ErrHeaderInjection, rec)))
			if !stripAuth(r.Header) {
				logger.Warn("header container unusable, sending without caller headers")
				r.Header = HTTPHeader{}
			}
		}
	}()
	if p.store == nil {
		return false
	}
	info, ok := p.store.Load()
	if !ok {
		return false
	}
	r.Header.Set("token", info.Token)
	r.Header.Set("Authorization", "Bearer "+info.Token)
	return true
}

// stripAuth removes partially written auth headers. It reports false when the
// container panics.
func stripAuth(h Header) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	h.Del("token")
	h.Del("Authorization")
	return true
}

func (p *Pipeline) deadline(r *Request) time.Duration {
	d := p.timeout
	if r.Timeout > 0 {
		d = r.Timeout
	}
	if d < MinTimeout {
		d = MinTimeout
	}
	return d
}

func (p *Pipeline) build(ctx context.Context, r *Request, logger *slog.Logger) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}

	var (
		reader io.Reader
		isJSON bool
	)
	switch body := r.Body.(type) {
	case nil:
	case io.Reader:
		reader = body
	case []byte:
		reader = bytes.NewReader(body)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
		isJSON = true
	}

	req, err := http.NewRequestWithContext(ctx, method, p.resolve(r.URL), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if isJSON {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	if err := copyHeader(req.Header, r.Header); err != nil {
		logger.Warn("caller headers dropped", logging.Error(err))
	}
	return req, nil
}

func (p *Pipeline) resolve(target string) string {
	if p.baseURL == "" || strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return p.baseURL + "/" + strings.TrimLeft(target, "/")
}

func (p *Pipeline) expire(ctx context.Context, res Result, body []byte, logger *slog.Logger) Result {
	if p.store != nil {
		p.store.Clear()
	}
	if p.navigator != nil && p.navigator.CurrentPath() != p.loginPath {
		p.navigator.Redirect(p.loginPath)
	}

	res.Outcome = AuthExpired
	res.Message = i18n.T(p.lang, i18n.MsgSessionExpired)
	res.Err = fmt.Errorf("%w: %w", ErrAuthExpired, &TransportError{
		Kind:    KindHTTPStatus,
		Status:  http.StatusUnauthorized,
		Message: backendMessage(body),
	})
	res.Trace = append(res.Trace, StateAuthExpired)
	logger.Info("session expired; credentials cleared")
	p.publish(ctx, res.Message, logger)
	return res
}

func (p *Pipeline) fail(ctx context.Context, res Result, terr *TransportError, logger *slog.Logger) Result {
	message := strings.TrimSpace(terr.Message)
	if message == "" {
		message = i18n.T(p.lang, i18n.MsgRequestFailed)
	}
	res.Outcome = OtherFailure
	res.Kind = terr.Kind
	res.Message = message
	res.Err = terr
	res.Trace = append(res.Trace, StateOtherFailure)
	logger.Warn("request failed",
		logging.String("kind", string(terr.Kind)),
		logging.Int("status", terr.Status),
		logging.String("message", message),
	)
	p.publish(ctx, message, logger)
	return res
}

func (p *Pipeline) publish(ctx context.Context, message string, logger *slog.Logger) {
	// The request deadline may already be spent; the notice must still go out.
	if err := p.notifier.Publish(context.WithoutCancel(ctx), message, notifications.SeverityError); err != nil {
		logger.Warn("notification delivery failed", logging.Error(err))
	}
}

// backendMessage extracts the gateway's message, preferring "message" over
// "msg".
func backendMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var envelope struct {
		Message any `json:"message"`
		Msg     any `json:"msg"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, v := range []any{envelope.Message, envelope.Msg} {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
