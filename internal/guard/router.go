package guard

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"edgectl/internal/i18n"
	"edgectl/internal/logging"
	"edgectl/internal/request"
)

var _ request.Navigator = (*Router)(nil)

// ErrUnknownRoute is returned for paths that match no route.
var ErrUnknownRoute = errors.New("unknown route")

// Route is one entry of the route table. Pattern segments starting with ":"
// capture a parameter.
type Route struct {
	Pattern string
	Title   i18n.Key
}

// DefaultRoutes returns the console's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/login", Title: i18n.TitleLogin},
		{Pattern: "/", Title: i18n.TitleDashboard},
		{Pattern: "/logs", Title: i18n.TitleLogs},
		{Pattern: "/system", Title: i18n.TitleSystem},
		{Pattern: "/channels", Title: i18n.TitleChannels},
		{Pattern: "/edge-compute", Title: i18n.TitleEdgeCompute},
		{Pattern: "/channels/:channelId/devices", Title: i18n.TitleDevices},
		{Pattern: "/channels/:channelId/devices/:deviceId/points", Title: i18n.TitlePoints},
		{Pattern: "/northbound", Title: i18n.TitleNorthbound},
	}
}

// Match is a resolved route.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Navigation describes a completed transition.
type Navigation struct {
	From       string
	To         string
	Redirected bool
	Match      Match
}

// Router tracks the current route and its title override.
type Router struct {
	guard  *Guard
	routes []Route
	lang   i18n.Lang
	logger *slog.Logger

	mu      sync.Mutex
	current string
	title   string
}

// NewRouter builds a router over g. An empty route list uses DefaultRoutes.
func NewRouter(g *Guard, lang i18n.Lang, routes ...Route) *Router {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	r := &Router{
		guard:  g,
		routes: routes,
		lang:   lang,
		logger: g.logger,
	}
	g.OnTransition(r.ResetTitle)
	return r
}

// Resolve matches path against the route table.
func (r *Router) Resolve(path string) (Match, error) {
	segments := splitPath(path)
	for _, route := range r.routes {
		if params, ok := matchSegments(splitPath(route.Pattern), segments); ok {
			return Match{Route: route, Path: path, Params: params}, nil
		}
	}
	return Match{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}

// Navigate runs the guard and moves to the target or, when redirected, to
// the redirect target. At most one redirect is followed.
func (r *Router) Navigate(path string) (Navigation, error) {
	from := r.CurrentPath()
	nav := Navigation{From: from, To: path}

	decision := r.guard.Before(path, from)
	if !decision.Allowed() {
		nav.To = decision.Redirect
		nav.Redirected = true
	}
	match, err := r.Resolve(nav.To)
	if err != nil {
		return Navigation{}, err
	}
	nav.Match = match

	r.mu.Lock()
	r.current = nav.To
	r.mu.Unlock()

	r.logger.Debug("navigated",
		logging.String("from", from),
		logging.Route(nav.To),
		logging.Bool("redirected", nav.Redirected),
	)
	return nav, nil
}

// Enter navigates to path and fails with ErrLoginRequired when the guard
// sent the caller to the login route instead.
func (r *Router) Enter(path string) (Match, error) {
	nav, err := r.Navigate(path)
	if err != nil {
		return Match{}, err
	}
	if nav.Redirected && nav.To == r.guard.LoginPath() {
		return nav.Match, ErrLoginRequired
	}
	return nav.Match, nil
}

// Redirect moves to path without consulting the guard.
func (r *Router) Redirect(path string) {
	r.mu.Lock()
	from := r.current
	r.current = path
	r.title = ""
	r.mu.Unlock()
	r.logger.Info("redirected",
		logging.String("from", from),
		logging.Route(path),
	)
}

// CurrentPath returns the path of the current route, empty before the first
// navigation.
func (r *Router) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetTitle overrides the current route's title until the next transition.
func (r *Router) SetTitle(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.title = strings.TrimSpace(title)
}

// ResetTitle drops the title override.
func (r *Router) ResetTitle() {
	r.SetTitle("")
}

// Title returns the override, or the localized title of the current route.
func (r *Router) Title() string {
	r.mu.Lock()
	current, title := r.current, r.title
	r.mu.Unlock()
	if title != "" {
		return title
	}
	match, err := r.Resolve(current)
	if err != nil {
		return ""
	}
	return i18n.T(r.lang, match.Route.Title)
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if segments[i] == "" {
				return nil, false
			}
			params[name] = segments[i]
			continue
		}
		if seg != segments[i] {
			return nil, false
		}
	}
	return params, true
}
