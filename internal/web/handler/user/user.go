// Package user reports the session user to the dashboard script.
package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/web/handler"
)

// Path is the current user endpoint.
const Path = handler.APIPath + "/user"

// Service is the user handler service.
type Service struct {
	cfg *config.Config
}

var _ handler.Service = (*Service)(nil)

// Handler is the user handler.
var Handler = Service{}

// Init initializes the user handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, _ *handler.Deps) error {
	if app == nil || cfg == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg

	app.Get(Path, s.Get)

	return nil
}

// Get returns the session user, or null without a session.
func (s *Service) Get(c *fiber.Ctx) error {
	u, ok := auth.CurrentUser(c)
	if !ok {
		return c.JSON(nil)
	}

	return c.JSON(u)
}
