// Package login provides the Discord OAuth2 login handlers.
//
// Failed logins redirect to the dashboard with an error query parameter
// which the page shows to the user.
package login

// Error codes passed to the dashboard as ?error=.
const (
	// ErrCodeNoCode is used when Discord redirected back without a code.
	ErrCodeNoCode = "no_code"

	// ErrCodeState is used for a missing, unknown or expired state token.
	ErrCodeState = "state"

	// ErrCodeAuth is used when the code exchange or the identity lookup fails.
	ErrCodeAuth = "auth"

	// ErrCodeSession is used when the session can not be stored.
	ErrCodeSession = "session"
)
