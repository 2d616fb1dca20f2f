package auth

import "errors"

var (
	// ErrOAuthNotConfigured is returned when client id, secret or redirect url is missing.
	ErrOAuthNotConfigured = errors.New("discord oauth is not configured")

	// ErrUserInfo is returned when Discord does not return a usable identity.
	ErrUserInfo = errors.New("discord user info unavailable")

	// ErrNotStaff is returned when a user holds neither staff role.
	ErrNotStaff = errors.New("user holds no staff role")
)
