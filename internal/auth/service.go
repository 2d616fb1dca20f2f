package auth

import (
	"context"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/roster"
)

// Guild resolves guild membership of a user.
type Guild interface {
	FetchMember(ctx context.Context, id string) (roster.Member, error)
	FetchRoles(ctx context.Context) ([]roster.Role, error)
}

// Service derives the staff flags of a user from the guild roles.
type Service struct {
	guild Guild
	roles config.Roles
}

// NewService creates a new auth service.
func NewService(guild Guild, roles config.Roles) *Service {
	return &Service{guild: guild, roles: roles}
}

// Resolve fills the guild roles and staff flags of u.
// A user the guild can not resolve keeps empty roles and no flags.
func (s *Service) Resolve(ctx context.Context, u User) User {
	u.Roles = []RoleRef{}
	u.IsHighCommand = false
	u.IsMIA = false

	m, err := s.guild.FetchMember(ctx, u.ID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to resolve guild roles, logging in without staff flags")
		return u
	}

	names := map[string]string{}

	if roles, err := s.guild.FetchRoles(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to fetch guild role names")
	} else {
		for _, r := range roles {
			names[r.ID] = r.Name
		}
	}

	for _, id := range m.Roles {
		u.Roles = append(u.Roles, RoleRef{ID: id, Name: names[id]})
	}

	u.IsHighCommand = s.roles.HighCommand != "" && slices.Contains(m.Roles, s.roles.HighCommand)
	u.IsMIA = s.roles.MIA != "" && slices.Contains(m.Roles, s.roles.MIA)

	return u
}
