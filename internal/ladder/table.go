package ladder

import (
	"errors"
	"fmt"
	"sort"

	"github.com/staffpanel/staffpanel/internal/config"
)

// Marker is the configuration of a marker category.
type Marker struct {
	Role    string
	Reapply bool
}

// Table maps categories to their configured roles.
type Table struct {
	ladders map[Category][]string
	markers map[Category]Marker
	unknown []string
}

// NewTable builds a Table from the role configuration. It never fails;
// call Validate to reject incomplete or inconsistent configuration.
func NewTable(roles config.Roles) *Table {
	t := &Table{
		ladders: make(map[Category][]string, len(roles.Ladders)),
		markers: make(map[Category]Marker, len(roles.Markers)),
	}

	for key, ids := range roles.Ladders {
		c := Category(key)
		if !c.Valid() {
			t.unknown = append(t.unknown, key)
			continue
		}

		t.ladders[c] = append([]string(nil), ids...)
	}

	for key, m := range roles.Markers {
		c := Category(key)
		if !c.Valid() {
			t.unknown = append(t.unknown, key)
			continue
		}

		t.markers[c] = Marker{Role: m.Role, Reapply: m.Reapply}
	}

	sort.Strings(t.unknown)

	return t
}

// Ladder returns a copy of the tier roles of c, lowest tier first.
func (t *Table) Ladder(c Category) []string {
	return append([]string(nil), t.ladders[c]...)
}

// Marker returns the marker configuration of c.
func (t *Table) Marker(c Category) (Marker, bool) {
	m, ok := t.markers[c]
	return m, ok && m.Role != ""
}

// Validate checks that every ladder and marker category is configured with
// the right kind, that no ladder is empty and that no role id is reused.
func (t *Table) Validate() error {
	var errs []error

	for _, key := range t.unknown {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCategory, key))
	}

	owner := make(map[string]Category)
	claim := func(c Category, id string) {
		if prev, ok := owner[id]; ok {
			errs = append(errs, fmt.Errorf("%w: %s in %s and %s", ErrDuplicateRole, id, prev, c))
			return
		}

		owner[id] = c
	}

	for _, c := range Categories() {
		_, isLadder := t.ladders[c]
		_, isMarker := t.markers[c]

		switch c.Kind() {
		case KindLadder:
			if isMarker {
				errs = append(errs, fmt.Errorf("%w: %s is a ladder", ErrWrongKind, c))
			}

			if len(t.ladders[c]) == 0 {
				errs = append(errs, fmt.Errorf("%w: %s", ErrCategoryNotConfigured, c))
			}

			for _, id := range t.ladders[c] {
				if id == "" {
					errs = append(errs, fmt.Errorf("%w: %s has an empty role id", ErrCategoryNotConfigured, c))
					continue
				}

				claim(c, id)
			}
		case KindMarker:
			if isLadder {
				errs = append(errs, fmt.Errorf("%w: %s is a marker", ErrWrongKind, c))
			}

			m, ok := t.Marker(c)
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %s", ErrCategoryNotConfigured, c))
				continue
			}

			claim(c, m.Role)
		case KindNotify:
			if isLadder || isMarker {
				errs = append(errs, fmt.Errorf("%w: %s takes no roles", ErrWrongKind, c))
			}
		}
	}

	return errors.Join(errs...)
}
