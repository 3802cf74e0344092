package guard

import (
	"errors"
	"log/slog"
	"strings"

	"edgectl/internal/logging"
	"edgectl/internal/session"
)

const DefaultLoginPath = "/login"

// ErrLoginRequired reports that a protected route was entered without a session.
var ErrLoginRequired = errors.New("login required")

// Decision is the guard's verdict for one transition. An empty Redirect
// allows it.
type Decision struct {
	Redirect string
}

// Allowed reports whether the transition may proceed to its target.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Guard classifies routes as public or protected. It performs no I/O beyond
// reading the session store.
type Guard struct {
	store     session.Store
	loginPath string
	public    map[string]struct{}
	resets    []func()
	logger    *slog.Logger
}

type Option func(*Guard)

// WithLoginPath overrides the redirect target. The login path is always public.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path = strings.TrimSpace(path); path != "" {
			g.loginPath = path
		}
	}
}

// WithPublicPaths adds exact paths that never require a session.
func WithPublicPaths(paths ...string) Option {
	return func(g *Guard) {
		for _, p := range paths {
			g.public[p] = struct{}{}
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) { g.logger = logging.NewComponentLogger(logger, "guard") }
}

// New builds a guard over store.
func New(store session.Store, opts ...Option) *Guard {
	g := &Guard{
		store:     store,
		loginPath: DefaultLoginPath,
		public:    map[string]struct{}{},
		logger:    logging.NewComponentLogger(nil, "guard"),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.public[g.loginPath] = struct{}{}
	return g
}

// LoginPath returns the redirect target for protected routes.
func (g *Guard) LoginPath() string {
	return g.loginPath
}

// OnTransition registers fn to run at the start of every Before call.
func (g *Guard) OnTransition(fn func()) {
	if fn != nil {
		g.resets = append(g.resets, fn)
	}
}

// IsPublic reports whether path is on the allow-list. Matching is exact.
func (g *Guard) IsPublic(path string) bool {
	_, ok := g.public[path]
	return ok
}

// Before decides the transition from current to target.
func (g *Guard) Before(target, current string) Decision {
	for _, reset := range g.resets {
		reset()
	}
	if g.IsPublic(target) {
		return Decision{}
	}
	if g.store != nil {
		if _, ok := g.store.Load(); ok {
			return Decision{}
		}
	}
	g.logger.Debug("protected route without session",
		logging.String("from", current),
		logging.Route(target),
		logging.String("redirect", g.loginPath),
	)
	return Decision{Redirect: g.loginPath}
}
