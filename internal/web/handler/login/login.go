package login

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/web/handler"
	"github.com/staffpanel/staffpanel/internal/web/session"
)

const (
	// Path starts the Discord login.
	Path = "/login"

	// CallbackPath is the OAuth2 redirect target.
	CallbackPath = "/auth/discord/callback"

	statePrefix = "oauth-state:"
)

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	provider handler.LoginProvider
	users    handler.UserResolver
}

var _ handler.Service = (*Service)(nil)

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler. Without a login provider no route is registered.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.provider = deps.Login
	s.users = deps.Users

	if s.provider == nil {
		log.Warn().Msg("Discord OAuth is not configured, login is disabled")
		return nil
	}

	app.Get(Path, s.Login)
	app.Get(CallbackPath, s.Callback)

	return nil
}

// Login redirects to the Discord authorization page.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate state token")
		return c.Redirect(errorRedirect(ErrCodeState))
	}

	// the session storage expires unused states
	if err = session.Store.Storage.Set(statePrefix+state, []byte{1}, s.cfg.Auth.StateExpiry); err != nil {
		log.Error().Err(err).Msg("Failed to store state token")
		return c.Redirect(errorRedirect(ErrCodeSession))
	}

	return c.Redirect(s.provider.GetAuthURL(state))
}

// Callback exchanges the code, resolves the staff flags and opens a session.
func (s *Service) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Redirect(errorRedirect(ErrCodeNoCode))
	}

	if !s.consumeState(c.Query("state")) {
		log.Warn().Str("ip", c.IP()).Msg("Invalid or expired OAuth state")
		return c.Redirect(errorRedirect(ErrCodeState))
	}

	user, err := s.provider.HandleCallback(c.UserContext(), code)
	if err != nil {
		log.Error().Err(err).Msg("Discord authentication failed")
		return c.Redirect(errorRedirect(ErrCodeAuth))
	}

	if s.users != nil {
		user = s.users.Resolve(c.UserContext(), user)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate session ID")
		return c.Redirect(errorRedirect(ErrCodeSession))
	}

	userSession := &session.Data{User: user}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("Failed to write session")
		return c.Redirect(errorRedirect(ErrCodeSession))
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	log.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Bool("high_command", user.IsHighCommand).
		Bool("mia", user.IsMIA).
		Msg("User logged in successfully via Discord")

	return c.Redirect(handler.RootPath)
}

func (s *Service) consumeState(state string) bool {
	if state == "" {
		return false
	}

	key := statePrefix + state

	v, err := session.Store.Storage.Get(key)
	if err != nil || len(v) == 0 {
		return false
	}

	if err := session.Store.Storage.Delete(key); err != nil {
		log.Warn().Err(err).Msg("Failed to delete used state token")
	}

	return true
}

func errorRedirect(code string) string {
	return handler.RootPath + "?error=" + code
}
