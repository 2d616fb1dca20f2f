package ladder

import "errors"

var (
	// ErrUnknownCategory is returned for a category outside the known enumeration.
	ErrUnknownCategory = errors.New("unknown action category")

	// ErrCategoryNotConfigured is returned when a ladder or marker category has no roles configured.
	ErrCategoryNotConfigured = errors.New("category not configured")

	// ErrTierCeilingReached is returned when the member already holds the top tier of a ladder.
	ErrTierCeilingReached = errors.New("tier ceiling reached")

	// ErrDuplicateRole is returned by Table.Validate when a role id is used by more than one tier or category.
	ErrDuplicateRole = errors.New("role used more than once")

	// ErrWrongKind is returned by Table.Validate when a category is configured as the wrong kind.
	ErrWrongKind = errors.New("category configured as wrong kind")
)
