// Package report forwards duty reports and leave requests to the audit channels.
package report

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/staffpanel/staffpanel/internal/audit"
	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/web/handler"
)

const (
	// ReportPath files a duty report.
	ReportPath = handler.APIPath + "/send-report"

	// LeavePath files a leave request.
	LeavePath = handler.APIPath + "/holiday"

	errNoDescription = "No description"
	errMissingData   = "Missing data"
)

// ReportBody is the duty report request.
type ReportBody struct {
	Type        string `json:"type"`
	Description string `json:"description" validate:"notblank"`
}

// LeaveBody is the leave request.
type LeaveBody struct {
	EndDate string `json:"endDate"`
	Reason  string `json:"reason"`
}

// Service is the report handler service.
type Service struct {
	cfg      *config.Config
	notifier audit.Notifier
	messages *audit.Builder
	validate *validator.Validate
}

var _ handler.Service = (*Service)(nil)

// Handler is the report handler.
var Handler = Service{}

// Init initializes the report handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil || deps.Notifier == nil || deps.Messages == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.notifier = deps.Notifier
	s.messages = deps.Messages
	s.validate = validator.New()
	_ = s.validate.RegisterValidation("notblank", validators.NotBlank)

	guard := auth.RequireStaff(false)

	app.Post(ReportPath, guard, s.PostReport)
	app.Post(LeavePath, guard, s.PostLeave)

	return nil
}

// PostReport sends a duty report.
func (s *Service) PostReport(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	var body ReportBody
	if err := c.BodyParser(&body); err != nil || s.validate.Struct(body) != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errNoDescription})
	}

	s.notify(c.UserContext(), s.messages.Report(user.ID, body.Type, body.Description), user)

	return c.JSON(fiber.Map{"success": true})
}

// PostLeave sends a leave request. A missing end date is posted as N/A.
func (s *Service) PostLeave(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	var body LeaveBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMissingData})
	}

	s.notify(c.UserContext(), s.messages.Leave(user.ID, body.EndDate, body.Reason), user)

	return c.JSON(fiber.Map{"success": true})
}

// notify delivers m. Delivery failures do not fail the request.
func (s *Service) notify(ctx context.Context, m audit.Message, user auth.User) {
	if err := s.notifier.Notify(ctx, m); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Str("destination", m.Destination).Msg("Failed to deliver report")
	}
}
