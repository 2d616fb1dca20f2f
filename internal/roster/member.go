// Package roster holds the member model and the cached, filtered member roster.
package roster

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"
)

// StatusUnknown is the presence reported when the source does not provide one.
const StatusUnknown = "offline"

// rankMarker identifies rank roles by name.
const rankMarker = "⁝"

// Member is a group member as reported by the source.
type Member struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Roles       []string
	Status      string
}

// HasAnyRole reports whether m holds at least one of ids.
func (m Member) HasAnyRole(ids []string) bool {
	for _, id := range m.Roles {
		if slices.Contains(ids, id) {
			return true
		}
	}

	return false
}

// Role is group role metadata.
type Role struct {
	ID       string
	Name     string
	Position int
}

// Source is the remote service owning the member list.
type Source interface {
	FetchGroupMembers(ctx context.Context) ([]Member, error)
	FetchRoles(ctx context.Context) ([]Role, error)
}

// Snapshot is an immutable, filtered copy of the roster.
type Snapshot struct {
	Members    []Member
	CapturedAt time.Time
	Stale      bool // set on the returned copy when a failed refresh fell back to this snapshot

	roles map[string]Role
}

func newSnapshot(members []Member, roles []Role, eligible []string, at time.Time) Snapshot {
	s := Snapshot{
		Members:    make([]Member, 0, len(members)),
		CapturedAt: at,
		roles:      make(map[string]Role, len(roles)),
	}

	for _, r := range roles {
		s.roles[r.ID] = r
	}

	for _, m := range members {
		if !m.HasAnyRole(eligible) {
			continue
		}

		m.Roles = append([]string(nil), m.Roles...)
		if m.Status == "" {
			m.Status = StatusUnknown
		}

		s.Members = append(s.Members, m)
	}

	sort.SliceStable(s.Members, func(i, j int) bool {
		return strings.ToLower(s.Members[i].DisplayName) < strings.ToLower(s.Members[j].DisplayName)
	})

	return s
}

// Empty reports whether s was never populated.
func (s Snapshot) Empty() bool {
	return s.CapturedAt.IsZero()
}

// Member looks up a member by id.
func (s Snapshot) Member(id string) (Member, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}

	return Member{}, false
}

// RolesOf returns the known roles of m, highest position first.
func (s Snapshot) RolesOf(m Member) []Role {
	out := make([]Role, 0, len(m.Roles))

	for _, id := range m.Roles {
		if r, ok := s.roles[id]; ok {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Position > out[j].Position })

	return out
}

// Rank returns the rank label of m: the highest role whose name carries the
// rank marker, else the highest role, else an empty string.
func (s Snapshot) Rank(m Member) string {
	roles := s.RolesOf(m)

	for _, r := range roles {
		if strings.Contains(r.Name, rankMarker) {
			return r.Name
		}
	}

	if len(roles) > 0 {
		return roles[0].Name
	}

	return ""
}
