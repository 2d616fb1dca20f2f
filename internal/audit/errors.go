package audit

import "errors"

var (
	// ErrDestinationNotConfigured is returned when no channel is mapped to a destination.
	ErrDestinationNotConfigured = errors.New("audit destination not configured")

	// ErrUnknownTimeZone is returned for an invalid audit.timezone setting.
	ErrUnknownTimeZone = errors.New("unknown audit time zone")
)
