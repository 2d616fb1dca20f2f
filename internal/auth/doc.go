// Package auth provides the Discord login and the staff checks of the dashboard.
//
// # Login
//
// DiscordProvider implements the OAuth2 authorization code flow against
// Discord with the identify and guilds.members.read scopes and returns the
// Discord identity as a User.
//
// # Staff flags
//
// Service resolves the guild roles of a user through the bot and sets two
// flags from the configured role ids:
//   - IsHighCommand: the user holds roles.highcommand
//   - IsMIA: the user holds roles.mia
//
// # Middleware
//
// RequireStaff protects mutating API routes. It answers 401 without a session
// user and, when auth.enforcestaffroles is set, 403 for users without a staff
// flag.
//
// Example usage:
//
//	provider, err := auth.NewDiscordProvider(cfg.Discord)
//	user, err := provider.HandleCallback(ctx, code)
//	user = auth.NewService(guild, cfg.Roles).Resolve(ctx, user)
//
//	api.Post("/batch-action", auth.RequireStaff(cfg.Auth.EnforceStaffRoles), handler)
package auth
