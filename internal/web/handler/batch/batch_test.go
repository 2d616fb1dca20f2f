package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/staffpanel/staffpanel/internal/action"
	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/web/handler"
	"github.com/staffpanel/staffpanel/internal/web/handler/handlertest"
	websess "github.com/staffpanel/staffpanel/internal/web/session"
)

type fakeActions struct {
	last   action.Request
	calls  int
	result action.Result
	err    error
}

func (f *fakeActions) Apply(_ context.Context, req action.Request) (action.Result, error) {
	f.calls++
	f.last = req

	return f.result, f.err
}

func newTestApp(t *testing.T, actions *fakeActions, enforce bool) *fiber.App {
	t.Helper()

	handlertest.InitSessionStore()

	cfg := handlertest.NewConfig()
	cfg.Auth.EnforceStaffRoles = enforce
	app := handlertest.NewApp()

	var s Service
	if err := s.Init(app, cfg, &handler.Deps{Actions: actions}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	return app
}

func post(t *testing.T, app *fiber.App, path, sessionID, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: websess.CookieName, Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	return resp.StatusCode, out
}

func outcomes(ok, failed int) action.Result {
	var r action.Result

	for i := range ok {
		r.Outcomes = append(r.Outcomes, action.Outcome{MemberID: fmt.Sprint("ok", i), OK: true})
		r.SuccessCount++
	}

	for i := range failed {
		r.Outcomes = append(r.Outcomes, action.Outcome{
			MemberID:    fmt.Sprint("bad", i),
			DisplayName: fmt.Sprint("Member ", i),
			Code:        action.CodeTierCeiling,
			Reason:      "already at the highest tier",
		})
	}

	return r
}

func TestPost_Unauthenticated(t *testing.T) {
	actions := &fakeActions{}
	app := newTestApp(t, actions, false)

	code, body := post(t, app, Path, "", `{"targetIds":["1"],"type":"plus","reason":"x"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}

	if body["error"] != handler.ErrNotLoggedIn {
		t.Fatalf("expected %q, got %v", handler.ErrNotLoggedIn, body["error"])
	}

	if actions.calls != 0 {
		t.Fatalf("no processing expected without a session")
	}
}

func TestPost_EnforcedStaffRoles(t *testing.T) {
	actions := &fakeActions{result: outcomes(1, 0)}
	app := newTestApp(t, actions, true)

	plain := handlertest.Login(t, auth.User{ID: "1", Username: "plain"})
	if code, _ := post(t, app, Path, plain, `{"targetIds":["1"],"type":"plus","reason":"x"}`); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non staff, got %d", code)
	}

	staff := handlertest.Login(t, auth.User{ID: "2", Username: "mia", IsMIA: true})
	if code, _ := post(t, app, Path, staff, `{"targetIds":["1"],"type":"plus","reason":"x"}`); code != http.StatusOK {
		t.Fatalf("expected 200 for staff, got %d", code)
	}
}

func TestPost_PartialSuccess(t *testing.T) {
	actions := &fakeActions{result: outcomes(2, 1)}
	app := newTestApp(t, actions, false)
	sid := handlertest.Login(t, auth.User{ID: "99", Username: "boss", GlobalName: "The Boss"})

	code, body := post(t, app, LegacyPath, sid, `{"targetIds":["a","b","c"],"type":"minus","reason":"late"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	if body["success"] != true || body["message"] != "OK: 2" || body["successCount"] != float64(2) {
		t.Fatalf("unexpected body %v", body)
	}

	errs, ok := body["errors"].([]any)
	if !ok || len(errs) != 1 || errs[0] != "Member 0: already at the highest tier" {
		t.Fatalf("expected one failure line, got %v", body["errors"])
	}

	if actions.last.Category != "minus" || actions.last.Reason != "late" || len(actions.last.Targets) != 3 {
		t.Fatalf("unexpected request %+v", actions.last)
	}

	if actions.last.Actor.ID != "99" || actions.last.Actor.Name != "The Boss" {
		t.Fatalf("expected actor from session, got %+v", actions.last.Actor)
	}
}

func TestPost_AllSucceeded_NullErrors(t *testing.T) {
	app := newTestApp(t, &fakeActions{result: outcomes(1, 0)}, false)
	sid := handlertest.Login(t, auth.User{ID: "1", Username: "a"})

	code, body := post(t, app, Path, sid, `{"targetIds":["a"],"type":"pochwala","reason":"good"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	if v, exists := body["errors"]; !exists || v != nil {
		t.Fatalf("expected errors:null, got %v", v)
	}
}

func TestPost_AllFailed(t *testing.T) {
	app := newTestApp(t, &fakeActions{result: outcomes(0, 3)}, false)
	sid := handlertest.Login(t, auth.User{ID: "1", Username: "a"})

	code, body := post(t, app, Path, sid, `{"targetIds":["a","b","c"],"type":"nagana","reason":"r"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}

	errs, _ := body["errors"].([]any)
	if body["error"] != errFailed || len(errs) != 3 {
		t.Fatalf("expected full failure list, got %v", body)
	}
}

func TestPost_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{name: "rejected by processor", body: `{"targetIds":[],"type":"plus","reason":"r"}`, err: action.ErrInvalidRequest},
		{name: "malformed json", body: `{"targetIds":`, err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, &fakeActions{err: tt.err}, false)
			sid := handlertest.Login(t, auth.User{ID: "1", Username: "a"})

			code, body := post(t, app, Path, sid, tt.body)
			if code != http.StatusBadRequest || body["error"] != errMissingData {
				t.Fatalf("expected 400 %q, got %d %v", errMissingData, code, body)
			}
		})
	}
}

func TestPost_UnexpectedError(t *testing.T) {
	app := newTestApp(t, &fakeActions{err: errors.New("boom")}, false)
	sid := handlertest.Login(t, auth.User{ID: "1", Username: "a"})

	if code, _ := post(t, app, Path, sid, `{"targetIds":["a"],"type":"plus","reason":"r"}`); code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
}
