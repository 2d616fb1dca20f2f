package discord

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/staffpanel/staffpanel/internal/audit"
)

// Discord field limits.
const (
	maxAuditReason = 512
	maxFieldValue  = 1024
	maxTitle       = 256
)

// Send posts m as an embed to channelID. Only users in m.Mention are pinged.
func (c *Client) Send(ctx context.Context, channelID string, m audit.Message) error {
	if m.Title == "" && len(m.Fields) == 0 && m.Mention == "" {
		return ErrEmptyMessage
	}

	data := toMessageSend(m)

	if _, err := c.api.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send message to channel %s: %w", channelID, err)
	}

	return nil
}

func toMessageSend(m audit.Message) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title: truncate(m.Title, maxTitle),
		Color: m.Color,
	}

	if m.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: m.Thumbnail}
	}

	if m.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: m.Footer}
	}

	if !m.Timestamp.IsZero() {
		embed.Timestamp = m.Timestamp.UTC().Format(time.RFC3339)
	}

	for _, f := range m.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  truncate(f.Value, maxFieldValue),
			Inline: f.Inline,
		})
	}

	// embeds never ping, the content mention is the only one allowed
	mentions := &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
	if m.Mention != "" {
		mentions.Parse = []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers}
	}

	return &discordgo.MessageSend{
		Content:         m.Mention,
		Embeds:          []*discordgo.MessageEmbed{embed},
		AllowedMentions: mentions,
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	r := []rune(s)

	return string(r[:limit-1]) + "…"
}
