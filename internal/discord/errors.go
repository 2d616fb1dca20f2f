package discord

import (
	"errors"
)

var (
	// ErrClientNotInitialized is returned when the Discord session is missing.
	ErrClientNotInitialized = errors.New("discord client not initialized")

	// ErrEmptyMessage is returned when a message has neither content nor embed.
	ErrEmptyMessage = errors.New("discord message is empty")
)
