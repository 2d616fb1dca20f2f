package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// LocalsUser is the fiber.Locals key holding the session User.
const LocalsUser = "CurrentUser"

// CurrentUser returns the session user stored by the session middleware.
func CurrentUser(c *fiber.Ctx) (User, bool) {
	u, ok := c.Locals(LocalsUser).(User)
	if !ok || !u.LoggedIn() {
		return User{}, false
	}

	return u, true
}

// RequireStaff creates Fiber middleware rejecting users holding neither staff role.
// With enforce unset it only requires a session user.
func RequireStaff(enforce bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
		}

		if enforce && !u.IsStaff() {
			log.Warn().Str("user_id", u.ID).Str("path", c.Path()).Msg("User lacks staff role")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": ErrNotStaff.Error()})
		}

		return c.Next()
	}
}
