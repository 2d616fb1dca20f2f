package login

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/web/handler"
	"github.com/staffpanel/staffpanel/internal/web/handler/handlertest"
	websess "github.com/staffpanel/staffpanel/internal/web/session"
)

var errExchange = errors.New("exchange failed")

type fakeProvider struct {
	user    auth.User
	err     error
	lastURL string
}

func (p *fakeProvider) GetAuthURL(state string) string {
	p.lastURL = "https://discord.example/authorize?state=" + state
	return p.lastURL
}

func (p *fakeProvider) HandleCallback(_ context.Context, code string) (auth.User, error) {
	if p.err != nil {
		return auth.User{}, p.err
	}

	if code != "good" {
		return auth.User{}, errExchange
	}

	return p.user, nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, u auth.User) auth.User {
	u.IsHighCommand = true
	u.Roles = []auth.RoleRef{{ID: "r1", Name: "Zarząd"}}

	return u
}

func newTestService(t *testing.T, p *fakeProvider, devMode bool) *fiber.App {
	t.Helper()

	handlertest.InitSessionStore()

	cfg := handlertest.NewConfig()
	cfg.DevMode = devMode
	app := handlertest.NewApp()

	var s Service
	if err := s.Init(app, cfg, &handler.Deps{Login: p, Users: fakeResolver{}}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	return app
}

func doGet(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// startLogin runs GET /login and returns the issued state.
func startLogin(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp := doGet(t, app, Path)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect location: %v", err)
	}

	state := loc.Query().Get("state")
	if state == "" {
		t.Fatalf("expected state in redirect, got %q", loc.String())
	}

	return state
}

func TestInit_NilDependencies(t *testing.T) {
	var s Service
	if err := s.Init(nil, handlertest.NewConfig(), &handler.Deps{}); !errors.Is(err, handler.ErrNilDependency) {
		t.Fatalf("expected ErrNilDependency, got %v", err)
	}
}

func TestInit_NoProvider_NoRoutes(t *testing.T) {
	handlertest.InitSessionStore()

	app := handlertest.NewApp()

	var s Service
	if err := s.Init(app, handlertest.NewConfig(), &handler.Deps{}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if resp := doGet(t, app, Path); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without provider, got %d", resp.StatusCode)
	}
}

func TestLogin_StoresStateAndRedirects(t *testing.T) {
	p := &fakeProvider{}
	app := newTestService(t, p, false)

	state := startLogin(t, app)

	v, err := websess.Store.Storage.Get(statePrefix + state)
	if err != nil || len(v) == 0 {
		t.Fatalf("expected stored state, got %v err=%v", v, err)
	}
}

func TestCallback_Errors(t *testing.T) {
	tests := []struct {
		name     string
		query    func(state string) string
		provider *fakeProvider
		want     string
	}{
		{
			name:     "missing code",
			query:    func(state string) string { return "?state=" + state },
			provider: &fakeProvider{},
			want:     ErrCodeNoCode,
		},
		{
			name:     "unknown state",
			query:    func(string) string { return "?code=good&state=forged" },
			provider: &fakeProvider{},
			want:     ErrCodeState,
		},
		{
			name:     "missing state",
			query:    func(string) string { return "?code=good" },
			provider: &fakeProvider{},
			want:     ErrCodeState,
		},
		{
			name:     "exchange failure",
			query:    func(state string) string { return "?code=bad&state=" + state },
			provider: &fakeProvider{},
			want:     ErrCodeAuth,
		},
		{
			name:     "provider error",
			query:    func(state string) string { return "?code=good&state=" + state },
			provider: &fakeProvider{err: auth.ErrUserInfo},
			want:     ErrCodeAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestService(t, tt.provider, false)
			state := startLogin(t, app)

			resp := doGet(t, app, CallbackPath+tt.query(state))
			if resp.StatusCode != http.StatusFound {
				t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
			}

			if loc := resp.Header.Get("Location"); loc != "/?error="+tt.want {
				t.Fatalf("expected redirect to /?error=%s, got %s", tt.want, loc)
			}

			if strings.Contains(resp.Header.Get("Set-Cookie"), websess.CookieName+"=") {
				t.Fatalf("no session cookie expected on failure")
			}
		})
	}
}

func TestCallback_Success_SetsCookieAndRedirects(t *testing.T) {
	p := &fakeProvider{user: auth.User{ID: "42", Username: "alice"}}
	app := newTestService(t, p, false)
	state := startLogin(t, app)

	resp := doGet(t, app, CallbackPath+"?code=good&state="+state)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != handler.RootPath {
		t.Fatalf("expected redirect to %s, got %s", handler.RootPath, loc)
	}

	var sessionID string

	for _, ck := range resp.Cookies() {
		if ck.Name == websess.CookieName {
			sessionID = ck.Value
		}
	}

	if sessionID == "" {
		t.Fatalf("expected session cookie, got %q", resp.Header.Get("Set-Cookie"))
	}

	if !strings.Contains(strings.ToLower(resp.Header.Get("Set-Cookie")), "secure") {
		t.Fatalf("expected Secure flag on cookie when DevMode=false")
	}

	var data websess.Data
	if err := data.Read(sessionID); err != nil {
		t.Fatalf("expected stored session: %v", err)
	}

	if data.User.ID != "42" || !data.User.IsHighCommand || len(data.User.Roles) != 1 {
		t.Fatalf("expected resolved user in session, got %+v", data.User)
	}

	// the state is single use
	resp = doGet(t, app, CallbackPath+"?code=good&state="+state)
	if loc := resp.Header.Get("Location"); loc != "/?error="+ErrCodeState {
		t.Fatalf("expected reused state to be rejected, got %s", loc)
	}
}

func TestCallback_DevModeDisablesSecure(t *testing.T) {
	p := &fakeProvider{user: auth.User{ID: "7", Username: "bob"}}
	app := newTestService(t, p, true)
	state := startLogin(t, app)

	resp := doGet(t, app, CallbackPath+"?code=good&state="+state)

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, websess.CookieName+"=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("did not expect Secure flag when DevMode=true, got %q", setCookie)
	}
}
