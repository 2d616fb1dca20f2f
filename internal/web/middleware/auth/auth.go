package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	userauth "github.com/staffpanel/staffpanel/internal/auth"
	accesslog "github.com/staffpanel/staffpanel/internal/logger/adapter/fiber"
	"github.com/staffpanel/staffpanel/internal/web/session"
)

// Middleware loads the session user into fiber.Locals. Requests without a
// valid session pass through anonymously, route guards decide what needs a user.
func Middleware(c *fiber.Ctx) error {
	if IsStaticPath(c) {
		return c.Next()
	}

	sessionID := c.Cookies(session.CookieName)
	if sessionID == "" {
		return c.Next()
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil {
		return c.Next()
	}

	if sessData.User.LoggedIn() {
		c.Locals(userauth.LocalsUser, sessData.User)
		c.Locals(accesslog.UserLocal, sessData.User.ID)
	}

	return c.Next()
}

// IsStaticPath checks if the current request is for an embedded asset.
func IsStaticPath(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Path()), "/static")
}
