package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/staffpanel/staffpanel/internal/action"
	"github.com/staffpanel/staffpanel/internal/audit"
	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/roster"
)

// ErrNilDependency is returned by Init when a required argument is nil.
var ErrNilDependency = errors.New("app, cfg or deps is nil")

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps) error
}

// Roster serves roster snapshots.
type Roster interface {
	Get(ctx context.Context, forceRefresh bool) (roster.Snapshot, error)
}

// Actions applies batch actions.
type Actions interface {
	Apply(ctx context.Context, req action.Request) (action.Result, error)
}

// LoginProvider runs the OAuth2 login.
type LoginProvider interface {
	GetAuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (auth.User, error)
}

// UserResolver adds guild roles and staff flags to a user.
type UserResolver interface {
	Resolve(ctx context.Context, u auth.User) auth.User
}

// Deps are the collaborators shared by the handlers.
type Deps struct {
	Roster   Roster
	Actions  Actions
	Notifier audit.Notifier
	Messages *audit.Builder
	Login    LoginProvider // nil disables the login routes
	Users    UserResolver
}
