// Package discordlog routes discordgo's internal logging through zerolog.
package discordlog

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level maps a discordgo log level to a zerolog level.
func Level(msgL int) zerolog.Level {
	switch msgL {
	case discordgo.LogError:
		return zerolog.ErrorLevel
	case discordgo.LogWarning:
		return zerolog.WarnLevel
	case discordgo.LogInformational:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// Log has the signature of discordgo.Logger.
func Log(msgL, _ int, format string, a ...interface{}) {
	log.WithLevel(Level(msgL)).Str("component", "discordgo").Msg(fmt.Sprintf(format, a...))
}

// Install replaces the discordgo package logger and aligns its verbosity with zerolog's global level.
func Install(s *discordgo.Session) {
	discordgo.Logger = Log

	level := discordgo.LogWarning
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		level = discordgo.LogDebug
	}

	if s != nil {
		s.LogLevel = level
	}
}
