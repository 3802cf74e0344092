package guard_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgectl/internal/guard"
	"edgectl/internal/i18n"
	"edgectl/internal/session"
)

func TestGuardBefore(t *testing.T) {
	anon := session.NewMemoryStore()
	authed := session.NewMemoryStoreWith(session.Info{Username: "admin", Token: "tok"})

	tests := []struct {
		name   string
		store  session.Store
		target string
		want   guard.Decision
	}{
		{"public without session", anon, "/login", guard.Decision{}},
		{"public with session", authed, "/login", guard.Decision{}},
		{"protected without session", anon, "/channels", guard.Decision{Redirect: "/login"}},
		{"protected with session", authed, "/channels", guard.Decision{}},
		{"root is protected", anon, "/", guard.Decision{Redirect: "/login"}},
		{"allow-list is exact", anon, "/login/", guard.Decision{Redirect: "/login"}},
		{"nil store", nil, "/system", guard.Decision{Redirect: "/login"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.New(tt.store).Before(tt.target, "/"))
		})
	}
}

func TestGuardCustomPublicPaths(t *testing.T) {
	g := guard.New(session.NewMemoryStore(), guard.WithLoginPath("/signin"), guard.WithPublicPaths("/about"))

	assert.True(t, g.Before("/about", "").Allowed())
	assert.True(t, g.Before("/signin", "").Allowed())
	assert.Equal(t, "/signin", g.Before("/login", "").Redirect)
}

func TestGuardRunsTransitionHooksEveryTime(t *testing.T) {
	g := guard.New(session.NewMemoryStore())
	calls := 0
	g.OnTransition(func() { calls++ })

	g.Before("/login", "")
	g.Before("/channels", "/login")
	assert.Equal(t, 2, calls)
}

func TestGuardSelfHealsCorruptSession(t *testing.T) {
	store := session.NewFileStore(t.TempDir()+"/session.json", nil)
	require.NoError(t, store.Save(session.Info{Token: "tok"}))
	assert.True(t, guard.New(store).Before("/channels", "").Allowed())

	store.Clear()
	assert.False(t, guard.New(store).Before("/channels", "").Allowed())
}

func TestRouterResolve(t *testing.T) {
	r := guard.NewRouter(guard.New(session.NewMemoryStore()), i18n.EN_US)

	match, err := r.Resolve("/channels/ch-1/devices/dev-9/points")
	require.NoError(t, err)
	assert.Equal(t, i18n.TitlePoints, match.Route.Title)
	assert.Equal(t, map[string]string{"channelId": "ch-1", "deviceId": "dev-9"}, match.Params)

	match, err = r.Resolve("/")
	require.NoError(t, err)
	assert.Equal(t, i18n.TitleDashboard, match.Route.Title)

	_, err = r.Resolve("/channels//devices")
	assert.ErrorIs(t, err, guard.ErrUnknownRoute)
	_, err = r.Resolve("/nowhere")
	assert.ErrorIs(t, err, guard.ErrUnknownRoute)
}

func TestRouterNavigateRedirectsWithoutSession(t *testing.T) {
	store := session.NewMemoryStore()
	r := guard.NewRouter(guard.New(store), i18n.ZH_CN)

	nav, err := r.Navigate("/channels")
	require.NoError(t, err)
	assert.True(t, nav.Redirected)
	assert.Equal(t, "/login", nav.To)
	assert.Equal(t, "/login", r.CurrentPath())
	assert.Equal(t, "登录", r.Title())

	_, err = r.Enter("/system")
	assert.True(t, errors.Is(err, guard.ErrLoginRequired))

	require.NoError(t, store.Save(session.Info{Token: "tok"}))
	match, err := r.Enter("/channels/7/devices")
	require.NoError(t, err)
	assert.Equal(t, "7", match.Params["channelId"])
	assert.Equal(t, "/channels/7/devices", r.CurrentPath())
}

func TestRouterTitleOverrideResetsOnTransition(t *testing.T) {
	store := session.NewMemoryStoreWith(session.Info{Token: "tok"})
	r := guard.NewRouter(guard.New(store), i18n.EN_US)

	_, err := r.Enter("/channels/7/devices")
	require.NoError(t, err)
	r.SetTitle("Line 3 / Modbus TCP")
	assert.Equal(t, "Line 3 / Modbus TCP", r.Title())

	_, err = r.Enter("/channels")
	require.NoError(t, err)
	assert.Equal(t, i18n.T(i18n.EN_US, i18n.TitleChannels), r.Title())
}

func TestRouterNavigateUnknownRouteKeepsCurrent(t *testing.T) {
	store := session.NewMemoryStoreWith(session.Info{Token: "tok"})
	r := guard.NewRouter(guard.New(store), i18n.EN_US)
	_, err := r.Enter("/logs")
	require.NoError(t, err)

	_, err = r.Navigate("/does-not-exist")
	assert.ErrorIs(t, err, guard.ErrUnknownRoute)
	assert.Equal(t, "/logs", r.CurrentPath())
}

func TestRouterRedirectBypassesGuard(t *testing.T) {
	r := guard.NewRouter(guard.New(session.NewMemoryStore()), i18n.EN_US)
	r.SetTitle("custom")
	r.Redirect("/login")
	assert.Equal(t, "/login", r.CurrentPath())
	assert.Equal(t, i18n.T(i18n.EN_US, i18n.TitleLogin), r.Title())
}
