// Package members serves the filtered staff roster as JSON.
package members

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	accesslog "github.com/staffpanel/staffpanel/internal/logger/adapter/fiber"
	"github.com/staffpanel/staffpanel/internal/roster"
	"github.com/staffpanel/staffpanel/internal/web/handler"
)

const (
	// Path is the roster endpoint.
	Path = handler.APIPath + "/roster-members"

	// LegacyPath is the endpoint name used by older dashboard scripts.
	LegacyPath = handler.APIPath + "/ems-members"

	// StaleHeader is set to "1" when the response was served from an outdated snapshot.
	StaleHeader = "X-Roster-Stale"
)

// View is the member as rendered by the dashboard.
type View struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Avatar   string         `json:"avatar"`
	Status   string         `json:"status"`
	Rank     string         `json:"rank"`
	AllRoles []auth.RoleRef `json:"allRoles"`
}

// Service is the roster handler service.
type Service struct {
	cfg    *config.Config
	roster handler.Roster
}

var _ handler.Service = (*Service)(nil)

// Handler is the roster handler.
var Handler = Service{}

// Init initializes the roster handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil || deps.Roster == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.roster = deps.Roster

	app.Get(Path, s.Get)
	app.Get(LegacyPath, s.Get)

	return nil
}

// Get returns the current roster. ?refresh=1 bypasses the freshness window.
func (s *Service) Get(c *fiber.Ctx) error {
	snap, err := s.roster.Get(c.UserContext(), c.QueryBool("refresh"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load roster")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch members"})
	}

	if snap.Stale {
		c.Set(StaleHeader, "1")
		c.Locals(accesslog.StaleLocal, true)
	}

	return c.JSON(Views(snap))
}

// Views converts a snapshot into dashboard views, keeping the snapshot order.
func Views(snap roster.Snapshot) []View {
	out := make([]View, 0, len(snap.Members))

	for _, m := range snap.Members {
		roles := snap.RolesOf(m)
		refs := make([]auth.RoleRef, 0, len(roles))

		for _, r := range roles {
			refs = append(refs, auth.RoleRef{ID: r.ID, Name: r.Name})
		}

		out = append(out, View{
			ID:       m.ID,
			Username: m.DisplayName,
			Avatar:   m.AvatarURL,
			Status:   m.Status,
			Rank:     snap.Rank(m),
			AllRoles: refs,
		})
	}

	return out
}
