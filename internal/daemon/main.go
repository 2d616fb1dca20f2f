// Package daemon wires the dashboard together and runs it.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/staffpanel/staffpanel/internal/action"
	"github.com/staffpanel/staffpanel/internal/audit"
	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/discord"
	"github.com/staffpanel/staffpanel/internal/ladder"
	"github.com/staffpanel/staffpanel/internal/logger"
	"github.com/staffpanel/staffpanel/internal/roster"
	"github.com/staffpanel/staffpanel/internal/web"
	"github.com/staffpanel/staffpanel/internal/web/handler"
	"github.com/staffpanel/staffpanel/internal/web/session"
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	cache      *roster.Cache
	discord    *discord.Client
}

// Start checks the Discord connection, schedules the roster warm-up and
// serves http until SIGINT or SIGTERM.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.discord.Test(ctx); err != nil {
		log.Error().Err(err).Msg("Discord API connection test failed, continuing")
	}

	if delay := d.cfg.Roster.WarmupDelay; delay > 0 {
		go d.warm(ctx, delay)
	}

	go d.webService.WaitShutdown()

	return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
}

func (d *Daemon) warm(ctx context.Context, delay time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	if err := d.cache.Warm(ctx); err != nil {
		log.Warn().Err(err).Msg("Roster warm-up failed")
		return
	}

	if snap, ok := d.cache.Peek(); ok {
		log.Info().Int("members", len(snap.Members)).Msg("Roster warmed up")
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	table := ladder.NewTable(cfg.Roles)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("role configuration: %w", err)
	}

	client, err := discord.New(cfg.Discord)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	cache := roster.NewCache(client, cfg.Roles.Eligible,
		roster.WithFreshFor(cfg.Roster.FreshFor),
		roster.WithFetchTimeout(cfg.Roster.FetchTimeout),
	)

	messages, err := audit.NewBuilder(cfg.Audit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	dispatcher := audit.NewDispatcher(client, cfg.Audit.Channels)

	for _, dest := range []string{audit.DestinationReport, audit.DestinationLeave} {
		if !dispatcher.Configured(dest) {
			log.Warn().Str("destination", dest).Msg("Audit destination has no channel, messages are dropped")
		}
	}

	processor := action.NewProcessor(client, ladder.NewEngine(table), dispatcher, messages,
		action.WithInvalidator(cache),
	)

	deps := &handler.Deps{
		Roster:   cache,
		Actions:  processor,
		Notifier: dispatcher,
		Messages: messages,
		Users:    auth.NewService(client, cfg.Roles),
	}

	provider, err := auth.NewDiscordProvider(cfg.Discord)

	switch {
	case err == nil:
		deps.Login = provider
	case errors.Is(err, auth.ErrOAuthNotConfigured):
		log.Warn().Err(err).Msg("Discord login disabled")
	default:
		return nil, err //nolint:wrapcheck
	}

	session.Init(session.NewStorage(cfg.Webserver.Session))

	webService, err := web.New(cfg, deps)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	log.Info().
		Str("guild", cfg.Discord.GuildID).
		Int("eligible_roles", len(cfg.Roles.Eligible)).
		Str("session_storage", cfg.Webserver.Session.Storage).
		Msg("staffpanel initialized")

	return &Daemon{
		cfg:        cfg,
		webService: webService,
		cache:      cache,
		discord:    client,
	}, nil
}
