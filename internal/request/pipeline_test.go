package request_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"edgectl/internal/i18n"
	"edgectl/internal/notifications"
	"edgectl/internal/request"
	"edgectl/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

type fakeNavigator struct {
	mu        sync.Mutex
	current   string
	redirects []string
}

func (n *fakeNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *fakeNavigator) Redirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, path)
	n.current = path
}

func (n *fakeNavigator) Redirects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.redirects...)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

type panickingStore struct{ session.MemoryStore }

func (*panickingStore) Load() (session.Info, bool) { panic("storage unavailable") }

type fixture struct {
	srv      *httptest.Server
	store    *session.MemoryStore
	nav      *fakeNavigator
	notices  *notifications.Recorder
	pipeline *request.Pipeline
	seen     chan http.Header
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{
		store:   session.NewMemoryStore(),
		nav:     &fakeNavigator{current: "/channels"},
		notices: &notifications.Recorder{},
		seen:    make(chan http.Header, 8),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.seen <- r.Header.Clone()
		handler(w, r)
	}))
	t.Cleanup(f.srv.Close)
	f.pipeline = request.New(f.store,
		request.WithBaseURL(f.srv.URL),
		request.WithDoer(f.srv.Client()),
		request.WithNavigator(f.nav),
		request.WithNotifier(f.notices),
		request.WithLanguage(i18n.ZH_CN),
	)
	return f
}

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, body)
	}
}

func statusHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}
}

func TestSendInjectsHeadersForBothContainerShapes(t *testing.T) {
	f := newFixture(t, okHandler(`{"code":"0"}`))
	require.NoError(t, f.store.Save(session.Info{Username: "admin", Token: "tok-123"}))

	shapes := map[string]request.Header{
		"nil":        nil,
		"map":        request.MapHeader{"x-trace": "a"},
		"http":       request.HTTPHeader(http.Header{"X-Trace": {"a"}}),
		"empty map":  request.MapHeader{},
		"empty http": request.HTTPHeader{},
	}
	for name, header := range shapes {
		t.Run(name, func(t *testing.T) {
			req := &request.Request{Method: http.MethodGet, URL: "/api/auth/system-info", Header: header}
			res := f.pipeline.Send(context.Background(), req)
			require.Equal(t, request.Success, res.Outcome, "err: %v", res.Err)

			got := <-f.seen
			assert.Equal(t, "tok-123", got.Get("token"))
			assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
			assert.Equal(t, res.RequestID, got.Get(request.HeaderRequestID))
			assert.Equal(t, "tok-123", req.Header.Get("token"))
			assert.Equal(t, []request.State{
				request.StatePending,
				request.StateHeadersInjected,
				request.StateSent,
				request.StateSuccess,
			}, res.Trace)
		})
	}
}

func TestSendWithoutSessionOmitsHeaders(t *testing.T) {
	f := newFixture(t, okHandler(`{"code":"0","data":{"version":"1.2.0"}}`))

	body, err := f.pipeline.Do(context.Background(), &request.Request{URL: "/api/auth/system-info"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"0","data":{"version":"1.2.0"}}`, string(body))

	got := <-f.seen
	assert.Empty(t, got.Values("token"))
	assert.Empty(t, got.Values("Authorization"))
	assert.Empty(t, f.notices.Notices())
}

func TestSendDegradesWhenStorePanics(t *testing.T) {
	f := newFixture(t, okHandler(`{}`))
	p := request.New(&panickingStore{}, request.WithBaseURL(f.srv.URL), request.WithDoer(f.srv.Client()))

	res := p.Send(context.Background(), &request.Request{URL: "/api/channels"})
	require.True(t, res.OK())
	assert.Contains(t, res.Trace, request.StateHeadersSkipped)

	got := <-f.seen
	assert.Empty(t, got.Get("Authorization"))
}

// readOnlyHeader rejects every write.
type readOnlyHeader struct{ request.MapHeader }

func (readOnlyHeader) Set(string, string) { panic("header container is read-only") }

// halfWritableHeader accepts one write and rejects the rest.
type halfWritableHeader struct {
	request.MapHeader
	writes int
}

func (h *halfWritableHeader) Set(key, value string) {
	if h.writes > 0 {
		panic("header container is full")
	}
	h.writes++
	h.MapHeader.Set(key, value)
}

// brokenHeader fails on every access.
type brokenHeader struct{}

func (brokenHeader) Get(string) string      { panic("header container closed") }
func (brokenHeader) Set(string, string)     { panic("header container closed") }
func (brokenHeader) Del(string)             { panic("header container closed") }
func (brokenHeader) Values(string) []string { panic("header container closed") }
func (brokenHeader) Keys() []string         { panic("header container closed") }

func TestSendDegradesWhenHeaderWritesFail(t *testing.T) {
	f := newFixture(t, okHandler(`{}`))
	require.NoError(t, f.store.Save(session.Info{Username: "admin", Token: "tok-123"}))

	tests := []struct {
		name      string
		header    request.Header
		wantTrace string
	}{
		{"nil map", request.MapHeader(nil), ""},
		{"read only", readOnlyHeader{request.MapHeader{"X-Trace": "a"}}, "a"},
		{"fails after first write", &halfWritableHeader{MapHeader: request.MapHeader{"X-Trace": "a"}}, "a"},
		{"unusable container", brokenHeader{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res request.Result
			require.NotPanics(t, func() {
				res = f.pipeline.Send(context.Background(), &request.Request{URL: "/api/channels", Header: tt.header})
			})
			require.True(t, res.OK(), "err: %v", res.Err)
			assert.Contains(t, res.Trace, request.StateHeadersSkipped)

			got := <-f.seen
			assert.Empty(t, got.Values("token"))
			assert.Empty(t, got.Values("Authorization"))
			assert.Equal(t, res.RequestID, got.Get(request.HeaderRequestID))
			assert.Equal(t, tt.wantTrace, got.Get("X-Trace"))
		})
	}
}

func TestSendUnauthorizedClearsSessionAndRedirectsOnce(t *testing.T) {
	f := newFixture(t, statusHandler(http.StatusUnauthorized, `{"code":"401","msg":"token invalid"}`))
	require.NoError(t, f.store.Save(session.Info{Token: "stale"}))

	res := f.pipeline.Send(context.Background(), &request.Request{URL: "/api/channels"})

	assert.Equal(t, request.AuthExpired, res.Outcome)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.ErrorIs(t, res.Err, request.ErrAuthExpired)
	var terr *request.TransportError
	require.ErrorAs(t, res.Err, &terr)
	assert.Equal(t, "token invalid", terr.Message)

	_, ok := f.store.Load()
	assert.False(t, ok)
	assert.Equal(t, []string{"/login"}, f.nav.Redirects())

	expected := i18n.T(i18n.ZH_CN, i18n.MsgSessionExpired)
	assert.Equal(t, []notifications.Notice{{Message: expected, Severity: notifications.SeverityError}}, f.notices.Notices())
}

func TestSendUnauthorizedOnLoginPageDoesNotNavigate(t *testing.T) {
	f := newFixture(t, statusHandler(http.StatusUnauthorized, ``))
	f.nav.current = "/login"

	res := f.pipeline.Send(context.Background(), &request.Request{Method: http.MethodPost, URL: "/api/auth/login", Body: map[string]any{"loginFlag": true}})

	assert.Equal(t, request.AuthExpired, res.Outcome)
	assert.Empty(t, f.nav.Redirects())
	assert.Len(t, f.notices.Notices(), 1)
}

func TestSendFailureMessagePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message wins over msg", http.StatusInternalServerError, `{"message":"disk full","msg":"error"}`, "disk full"},
		{"msg used when message missing", http.StatusBadRequest, `{"code":"1","msg":"bad channel id"}`, "bad channel id"},
		{"blank fields fall through", http.StatusBadGateway, `{"message":"  ","msg":""}`, "request failed with status code 502"},
		{"non-string message ignored", http.StatusConflict, `{"message":{"detail":"x"}}`, "request failed with status code 409"},
		{"non-json body", http.StatusServiceUnavailable, `upstream down`, "request failed with status code 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, statusHandler(tt.status, tt.body))
			require.NoError(t, f.store.Save(session.Info{Token: "tok"}))

			res := f.pipeline.Send(context.Background(), &request.Request{URL: "/api/system/restart", Method: http.MethodPost})

			assert.Equal(t, request.OtherFailure, res.Outcome)
			assert.Equal(t, request.KindHTTPStatus, res.Kind)
			assert.Equal(t, tt.want, res.Message)
			var terr *request.TransportError
			require.ErrorAs(t, res.Err, &terr)
			assert.Equal(t, tt.status, terr.Status)

			assert.Equal(t, []notifications.Notice{{Message: tt.want, Severity: notifications.SeverityError}}, f.notices.Notices())
			_, ok := f.store.Load()
			assert.True(t, ok, "non-401 failures must keep the session")
			assert.Empty(t, f.nav.Redirects())
		})
	}
}

type silentError struct{}

func (silentError) Error() string { return "" }

func TestSendTransportErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind request.FailureKind
		wantMsg  string
	}{
		{"timeout", fmt.Errorf("gateway scan: %w", context.DeadlineExceeded), request.KindTimeout, "gateway scan: context deadline exceeded"},
		{"network", errors.New("connection refused"), request.KindNetwork, "connection refused"},
		{"empty message falls back", silentError{}, request.KindNetwork, i18n.T(i18n.EN_US, i18n.MsgRequestFailed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStoreWith(session.Info{Token: "tok"})
			nav := &fakeNavigator{current: "/channels"}
			notices := &notifications.Recorder{}
			p := request.New(store,
				request.WithDoer(doerFunc(func(*http.Request) (*http.Response, error) { return nil, tt.err })),
				request.WithNavigator(nav),
				request.WithNotifier(notices),
				request.WithLanguage(i18n.EN_US),
			)

			res := p.Send(context.Background(), &request.Request{URL: "http://gateway.invalid/api/channels"})

			assert.Equal(t, request.OtherFailure, res.Outcome)
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.NotErrorIs(t, res.Err, request.ErrAuthExpired)
			assert.ErrorIs(t, res.Err, tt.err)
			assert.Equal(t, request.StateOtherFailure, res.Trace[len(res.Trace)-1])
			assert.Len(t, notices.Notices(), 1)
			assert.Empty(t, nav.Redirects())
			_, ok := store.Load()
			assert.True(t, ok)
		})
	}
}

func TestSendClampsDeadline(t *testing.T) {
	var remaining time.Duration
	p := request.New(session.NewMemoryStore(),
		request.WithTimeout(time.Second),
		request.WithDoer(doerFunc(func(r *http.Request) (*http.Response, error) {
			deadline, ok := r.Context().Deadline()
			if !ok {
				return nil, errors.New("no deadline")
			}
			remaining = time.Until(deadline)
			return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody}, nil
		})),
	)

	res := p.Send(context.Background(), &request.Request{URL: "http://gateway.invalid/api/channels", Timeout: 5 * time.Second})
	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Greater(t, remaining, 29*time.Second)
	assert.LessOrEqual(t, remaining, request.MinTimeout)
}

func TestSendConcurrentRequestsShareStore(t *testing.T) {
	f := newFixture(t, okHandler(`{}`))
	require.NoError(t, f.store.Save(session.Info{Token: "shared"}))
	f.seen = make(chan http.Header, 32)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := f.pipeline.Send(context.Background(), &request.Request{URL: "/api/channels"})
			assert.True(t, res.OK())
		}()
	}
	wg.Wait()
	close(f.seen)
	for header := range f.seen {
		assert.Equal(t, "Bearer shared", header.Get("Authorization"))
	}
}

func TestMapHeaderIsCaseInsensitive(t *testing.T) {
	h := request.MapHeader{"authorization": "old", "x-trace": "a"}
	h.Set("Authorization", "Bearer new")

	assert.Equal(t, "Bearer new", h.Get("AUTHORIZATION"))
	assert.Equal(t, []string{"Authorization", "x-trace"}, h.Keys())
	assert.Equal(t, []string{"a"}, h.Values("X-Trace"))

	h.Del("X-TRACE")
	assert.Empty(t, h.Get("x-trace"))
}
