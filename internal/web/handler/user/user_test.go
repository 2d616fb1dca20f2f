package user

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/web/handler"
	"github.com/staffpanel/staffpanel/internal/web/handler/handlertest"
	websess "github.com/staffpanel/staffpanel/internal/web/session"
)

func TestGet(t *testing.T) {
	handlertest.InitSessionStore()
	app := handlertest.NewApp()

	var s Service
	if err := s.Init(app, handlertest.NewConfig(), &handler.Deps{}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sid := handlertest.Login(t, auth.User{
		ID:            "7",
		Username:      "alice",
		Avatar:        "https://cdn/a.png",
		Roles:         []auth.RoleRef{{ID: "r", Name: "Zarząd"}},
		IsHighCommand: true,
	})

	tests := []struct {
		name     string
		cookie   string
		contains []string
	}{
		{name: "anonymous", contains: []string{"null"}},
		{name: "unknown session", cookie: "nope", contains: []string{"null"}},
		{
			name:   "logged in",
			cookie: sid,
			contains: []string{
				`"id":"7"`, `"username":"alice"`, `"isZarzad":true`, `"isMIA":false`,
				`"allRoles":[{"id":"r","name":"Zarząd"}]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, Path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: websess.CookieName, Value: tt.cookie})
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}

			defer func() {
				_ = resp.Body.Close()
			}()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}

			body, _ := io.ReadAll(resp.Body)
			for _, want := range tt.contains {
				if !strings.Contains(string(body), want) {
					t.Fatalf("expected %s in %s", want, body)
				}
			}
		})
	}
}
