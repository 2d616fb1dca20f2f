package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffpanel/staffpanel/internal/audit"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/roster"
)

type fakeAPI struct {
	members []*discordgo.Member
	roles   []*discordgo.Role
	err     error

	pages    []string
	added    []string
	removed  []string
	messages map[string][]*discordgo.MessageSend
}

func (f *fakeAPI) GuildMembers(_, after string, limit int, _ ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	f.pages = append(f.pages, after)

	if f.err != nil {
		return nil, f.err
	}

	start := 0

	if after != "" {
		for i, m := range f.members {
			if m.User != nil && m.User.ID == after {
				start = i + 1
			}
		}
	}

	end := min(start+limit, len(f.members))

	return f.members[start:end], nil
}

func (f *fakeAPI) GuildMember(_, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	if f.err != nil {
		return nil, f.err
	}

	for _, m := range f.members {
		if m.User.ID == userID {
			return m, nil
		}
	}

	return nil, &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember, Message: "Unknown Member"},
	}
}

func (f *fakeAPI) GuildRoles(_ string, _ ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return f.roles, f.err
}

func (f *fakeAPI) GuildMemberRoleAdd(_, userID, roleID string, _ ...discordgo.RequestOption) error {
	f.added = append(f.added, userID+":"+roleID)
	return f.err
}

func (f *fakeAPI) GuildMemberRoleRemove(_, userID, roleID string, _ ...discordgo.RequestOption) error {
	f.removed = append(f.removed, userID+":"+roleID)
	return f.err
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}

	if f.messages == nil {
		f.messages = map[string][]*discordgo.MessageSend{}
	}

	f.messages[channelID] = append(f.messages[channelID], data)

	return &discordgo.Message{ChannelID: channelID}, nil
}

func member(id, nick string, roles ...string) *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: id, Username: "user" + id},
		Nick:  nick,
		Roles: roles,
	}
}

func testConfig() config.Discord {
	return config.Discord{GuildID: "guild", MutationRate: 1000, MutationBurst: 10}
}

func TestFetchGroupMembers_Pages(t *testing.T) {
	api := &fakeAPI{}
	for i := range pageSize + 5 {
		api.members = append(api.members, member(fmt.Sprintf("%05d", i), ""))
	}

	c := NewWithAPI(api, testConfig())

	members, err := c.FetchGroupMembers(context.Background())
	require.NoError(t, err)

	assert.Len(t, members, pageSize+5)
	assert.Equal(t, []string{"", fmt.Sprintf("%05d", pageSize-1)}, api.pages)
	assert.Equal(t, roster.StatusUnknown, members[0].Status)
}

func TestFetchGroupMembers_MemberWithoutUser(t *testing.T) {
	api := &fakeAPI{}
	for i := range pageSize + 2 {
		api.members = append(api.members, member(fmt.Sprintf("%05d", i), ""))
	}

	// the last member of the first page has no user object
	api.members[pageSize-1].User = nil

	c := NewWithAPI(api, testConfig())

	members, err := c.FetchGroupMembers(context.Background())
	require.NoError(t, err)

	assert.Len(t, members, pageSize+1)
	assert.Equal(t, []string{"", fmt.Sprintf("%05d", pageSize-2)}, api.pages)

	for _, m := range members {
		assert.NotEmpty(t, m.ID)
	}
}

func TestFetchGroupMembers_PageWithoutUsers(t *testing.T) {
	api := &fakeAPI{}
	for range pageSize {
		api.members = append(api.members, &discordgo.Member{Roles: []string{"staff"}})
	}

	c := NewWithAPI(api, testConfig())

	members, err := c.FetchGroupMembers(context.Background())
	require.NoError(t, err)

	assert.Empty(t, members)
	assert.Equal(t, []string{""}, api.pages)
}

func TestFetchGroupMembers_Error(t *testing.T) {
	c := NewWithAPI(&fakeAPI{err: errors.New("502")}, testConfig())

	_, err := c.FetchGroupMembers(context.Background())
	require.Error(t, err)
}

func TestFetchMember(t *testing.T) {
	api := &fakeAPI{members: []*discordgo.Member{member("1", "Anna", "staff")}}
	c := NewWithAPI(api, testConfig())

	m, err := c.FetchMember(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Anna", m.DisplayName)
	assert.Equal(t, []string{"staff"}, m.Roles)
	assert.NotEmpty(t, m.AvatarURL)

	_, err = c.FetchMember(context.Background(), "2")
	require.ErrorIs(t, err, roster.ErrMemberNotFound)

	api.err = errors.New("timeout")
	_, err = c.FetchMember(context.Background(), "1")
	require.Error(t, err)
	require.NotErrorIs(t, err, roster.ErrMemberNotFound)
}

func TestFetchRoles(t *testing.T) {
	api := &fakeAPI{roles: []*discordgo.Role{{ID: "r", Name: "⁝ Doctor", Position: 3}}}
	c := NewWithAPI(api, testConfig())

	roles, err := c.FetchRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []roster.Role{{ID: "r", Name: "⁝ Doctor", Position: 3}}, roles)

	require.NoError(t, c.Test(context.Background()))
}

func TestRoleMutations(t *testing.T) {
	api := &fakeAPI{}
	c := NewWithAPI(api, testConfig())
	ctx := context.Background()

	require.NoError(t, c.RemoveRole(ctx, "1", "L1", "Plus by Chief: ok"))
	require.NoError(t, c.AddRole(ctx, "1", "L2", strings.Repeat("x", 600)))

	assert.Equal(t, []string{"1:L1"}, api.removed)
	assert.Equal(t, []string{"1:L2"}, api.added)

	api.err = errors.New("forbidden")
	require.Error(t, c.AddRole(ctx, "1", "L3", ""))
}

func TestRoleMutations_RateLimited(t *testing.T) {
	c := NewWithAPI(&fakeAPI{}, config.Discord{GuildID: "g", MutationRate: 0.001, MutationBurst: 1})

	require.NoError(t, c.AddRole(context.Background(), "1", "r", ""))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.Error(t, c.AddRole(ctx, "1", "r", ""), "second call must wait beyond the deadline")
}

func TestSend(t *testing.T) {
	api := &fakeAPI{}
	c := NewWithAPI(api, testConfig())

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	err := c.Send(context.Background(), "chan", audit.Message{
		Title:     "📢 Wezwanie do Biura",
		Color:     0xf59e0b,
		Thumbnail: "https://cdn/avatar.png",
		Fields:    []audit.Field{{Name: "📝", Value: strings.Repeat("y", 2000)}},
		Footer:    "MIA EMS",
		Timestamp: at,
		Mention:   "<@42>",
	})
	require.NoError(t, err)

	require.Len(t, api.messages["chan"], 1)
	msg := api.messages["chan"][0]

	assert.Equal(t, "<@42>", msg.Content)
	assert.Equal(t, []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers}, msg.AllowedMentions.Parse)
	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, "MIA EMS", msg.Embeds[0].Footer.Text)
	assert.Equal(t, "2024-01-02T03:04:05Z", msg.Embeds[0].Timestamp)
	assert.Equal(t, maxFieldValue, len([]rune(msg.Embeds[0].Fields[0].Value)))

	require.ErrorIs(t, c.Send(context.Background(), "chan", audit.Message{}), ErrEmptyMessage)
}

func TestSend_NoPingWithoutMention(t *testing.T) {
	api := &fakeAPI{}
	c := NewWithAPI(api, testConfig())

	require.NoError(t, c.Send(context.Background(), "chan", audit.Message{Title: "✅ Plus"}))
	assert.Empty(t, api.messages["chan"][0].AllowedMentions.Parse)
	assert.Empty(t, api.messages["chan"][0].Content)
}
