package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrEmptyGuildID error if the discord guild id is missing.
	ErrEmptyGuildID = errors.New("config discord.guildid can not be empty")

	// ErrEmptyBotToken error if the discord bot token is missing.
	ErrEmptyBotToken = errors.New("config discord.bottoken can not be empty")

	// ErrNoEligibleRoles error if the roster filter has no roles.
	ErrNoEligibleRoles = errors.New("config roles.eligible can not be empty")

	// ErrUnknownSessionStorage error if webserver.session.storage is not supported.
	ErrUnknownSessionStorage = errors.New("config webserver.session.storage must be memory, postgres or mysql")
)
