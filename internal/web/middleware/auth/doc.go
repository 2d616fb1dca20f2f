// Package auth provides the session middleware for the web application.
//
// The middleware reads the session cookie, loads the session data and adds
// the current user to fiber.Locals for handlers, templates and the access log.
// It never rejects a request; API routes that need a user are guarded by
// auth.RequireStaff.
//
// Usage:
//
//	app.Use(authmiddleware.Middleware)
package auth
