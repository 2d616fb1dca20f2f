package roster

import "errors"

var (
	// ErrUpstreamUnavailable is returned when the roster source failed and no earlier snapshot exists.
	ErrUpstreamUnavailable = errors.New("roster source unavailable")

	// ErrMemberNotFound is returned by sources when a member id is not part of the group.
	ErrMemberNotFound = errors.New("member not found")
)
