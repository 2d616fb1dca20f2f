// Package batch exposes the batch action processor over HTTP.
package batch

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/staffpanel/staffpanel/internal/action"
	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/ladder"
	accesslog "github.com/staffpanel/staffpanel/internal/logger/adapter/fiber"
	"github.com/staffpanel/staffpanel/internal/web/handler"
)

const (
	// Path is the batch action endpoint.
	Path = handler.APIPath + "/batch-action"

	// LegacyPath is the endpoint name used by older dashboard scripts.
	LegacyPath = handler.APIPath + "/mia-action"

	errMissingData = "Missing data"
	errFailed      = "Failed"
)

// Body is the JSON request body.
type Body struct {
	TargetIDs []string `json:"targetIds"`
	Type      string   `json:"type"`
	Reason    string   `json:"reason"`
}

// Response is returned when at least one target succeeded.
type Response struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	SuccessCount int      `json:"successCount"`
	Errors       []string `json:"errors"`
}

// Service is the batch action handler service.
type Service struct {
	cfg     *config.Config
	actions handler.Actions
}

var _ handler.Service = (*Service)(nil)

// Handler is the batch action handler.
var Handler = Service{}

// Init initializes the batch action handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil || deps.Actions == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.actions = deps.Actions

	guard := auth.RequireStaff(cfg.Auth.EnforceStaffRoles)

	app.Post(Path, guard, s.Post)
	app.Post(LegacyPath, guard, s.Post)

	return nil
}

// Post applies one action to every target of the body.
func (s *Service) Post(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	var body Body
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMissingData})
	}

	res, err := s.actions.Apply(c.UserContext(), action.Request{
		Targets:  body.TargetIDs,
		Category: ladder.Category(body.Type),
		Reason:   body.Reason,
		Actor:    action.Actor{ID: user.ID, Name: user.Name()},
	})
	if errors.Is(err, action.ErrInvalidRequest) {
		log.Debug().Err(err).Str("user_id", user.ID).Msg("Rejected batch action")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMissingData})
	}

	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Batch action failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": errFailed})
	}

	c.Locals(accesslog.BatchLocal, res.ID)

	if res.SuccessCount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  errFailed,
			"errors": res.FailureMessages(),
		})
	}

	return c.JSON(Response{
		Success:      true,
		Message:      "OK: " + strconv.Itoa(res.SuccessCount),
		SuccessCount: res.SuccessCount,
		Errors:       res.FailureMessages(),
	})
}
