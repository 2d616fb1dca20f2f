package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"

	"github.com/staffpanel/staffpanel/internal/config"
)

const (
	// ScopeIdentify grants access to /users/@me.
	ScopeIdentify = "identify"
	// ScopeGuildMembersRead grants access to the user's guild member objects.
	ScopeGuildMembersRead = "guilds.members.read"

	defaultUserInfoURL = "https://discord.com/api/users/@me"
	userInfoTimeout    = 10 * time.Second
)

// Endpoint is the Discord OAuth2 endpoint.
var Endpoint = oauth2.Endpoint{ //nolint:gochecknoglobals
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// DiscordProvider handles the Discord OAuth2 login.
type DiscordProvider struct {
	oauth2      oauth2.Config
	userInfoURL string
}

// NewDiscordProvider creates a provider for the configured OAuth application.
func NewDiscordProvider(cfg config.Discord) (*DiscordProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, ErrOAuthNotConfigured
	}

	return &DiscordProvider{
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     Endpoint,
			Scopes:       []string{ScopeIdentify, ScopeGuildMembersRead},
		},
		userInfoURL: defaultUserInfoURL,
	}, nil
}

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// GetAuthURL returns the Discord authorization URL with state token.
func (p *DiscordProvider) GetAuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code and returns the Discord identity.
// Guild roles are not resolved here, see Service.Resolve.
func (p *DiscordProvider) HandleCallback(ctx context.Context, code string) (User, error) {
	token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return User{}, fmt.Errorf("failed to exchange token: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, userInfoTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return User{}, fmt.Errorf("failed to build user info request: %w", err)
	}

	resp, err := p.oauth2.Client(ctx, token).Do(req)
	if err != nil {
		return User{}, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("%w: status %d", ErrUserInfo, resp.StatusCode)
	}

	var du discordgo.User
	if err := json.NewDecoder(resp.Body).Decode(&du); err != nil {
		return User{}, fmt.Errorf("failed to decode user info: %w", err)
	}

	if du.ID == "" {
		return User{}, fmt.Errorf("%w: empty user id", ErrUserInfo)
	}

	return newUser(&du), nil
}
