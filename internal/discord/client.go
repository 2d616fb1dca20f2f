// Package discord is the REST client for the staff guild: it lists and
// mutates members and posts audit messages.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/logger/adapter/discordlog"
	"github.com/staffpanel/staffpanel/internal/roster"
)

const (
	defaultTimeout = 30 * time.Second

	// pageSize is the maximum page of the list guild members endpoint.
	pageSize   = 1000
	avatarSize = "256"
)

// API is the subset of *discordgo.Session used by Client.
type API interface {
	GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Client talks to one guild.
type Client struct {
	api     API
	guildID string
	limiter *rate.Limiter
}

// New opens a bot session for the configured guild. No gateway connection is made.
func New(cfg config.Discord) (*Client, error) {
	s, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	s.Client = &http.Client{Timeout: defaultTimeout}
	s.UserAgent = "staffpanel (https://github.com/staffpanel/staffpanel)"
	discordlog.Install(s)

	return NewWithAPI(s, cfg), nil
}

// NewWithAPI wraps an existing API implementation.
func NewWithAPI(api API, cfg config.Discord) *Client {
	limit := rate.Inf
	if cfg.MutationRate > 0 {
		limit = rate.Limit(cfg.MutationRate)
	}

	burst := cfg.MutationBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		api:     api,
		guildID: cfg.GuildID,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Test checks the bot can read the guild.
func (c *Client) Test(ctx context.Context) error {
	if c == nil || c.api == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	roles, err := c.FetchRoles(ctx)
	if err != nil {
		return err
	}

	log.Info().Str("guild", c.guildID).Int("role_count", len(roles)).Msg("Discord API connection test successful")

	return nil
}

// FetchGroupMembers lists every guild member, paging by member id. Members
// without a user object are skipped.
func (c *Client) FetchGroupMembers(ctx context.Context) ([]roster.Member, error) {
	var (
		out   []roster.Member
		after string
	)

	for {
		page, err := c.api.GuildMembers(c.guildID, after, pageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list guild members after %q: %w", after, err)
		}

		next := after

		for _, m := range page {
			if m.User == nil {
				continue
			}

			out = append(out, toMember(m))
			next = m.User.ID
		}

		if len(page) < pageSize {
			return out, nil
		}

		if next == after {
			log.Warn().Str("after", after).Msg("guild member page without users, stop paging")
			return out, nil
		}

		after = next
	}
}

// FetchRoles lists the guild roles.
func (c *Client) FetchRoles(ctx context.Context) ([]roster.Role, error) {
	roles, err := c.api.GuildRoles(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list guild roles: %w", err)
	}

	out := make([]roster.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, roster.Role{ID: r.ID, Name: r.Name, Position: r.Position})
	}

	return out, nil
}

// FetchMember returns one member, roster.ErrMemberNotFound if the user is not in the guild.
func (c *Client) FetchMember(ctx context.Context, id string) (roster.Member, error) {
	m, err := c.api.GuildMember(c.guildID, id, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownMember(err) {
			return roster.Member{}, fmt.Errorf("%w: %s", roster.ErrMemberNotFound, id)
		}

		return roster.Member{}, fmt.Errorf("get guild member %s: %w", id, err)
	}

	return toMember(m), nil
}

// AddRole grants roleID, reason ends up in the guild audit log.
func (c *Client) AddRole(ctx context.Context, memberID, roleID, reason string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err //nolint:wrapcheck
	}

	if err := c.api.GuildMemberRoleAdd(c.guildID, memberID, roleID, c.options(ctx, reason)...); err != nil {
		return fmt.Errorf("add role %s to %s: %w", roleID, memberID, err)
	}

	return nil
}

// RemoveRole revokes roleID.
func (c *Client) RemoveRole(ctx context.Context, memberID, roleID, reason string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err //nolint:wrapcheck
	}

	if err := c.api.GuildMemberRoleRemove(c.guildID, memberID, roleID, c.options(ctx, reason)...); err != nil {
		return fmt.Errorf("remove role %s from %s: %w", roleID, memberID, err)
	}

	return nil
}

func (c *Client) options(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}

	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(truncate(reason, maxAuditReason)))
	}

	return opts
}

func toMember(m *discordgo.Member) roster.Member {
	out := roster.Member{
		Roles:  append([]string(nil), m.Roles...),
		Status: roster.StatusUnknown,
	}

	if m.User != nil {
		out.ID = m.User.ID
		out.DisplayName = m.DisplayName()
		out.AvatarURL = m.AvatarURL(avatarSize)
	}

	return out
}

func isUnknownMember(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return false
	}

	if rest.Message != nil && rest.Message.Code == discordgo.ErrCodeUnknownMember {
		return true
	}

	return rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound
}
