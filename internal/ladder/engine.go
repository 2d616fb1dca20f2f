package ladder

import (
	"fmt"
	"slices"
	"strconv"
)

// Decision is the role change an action causes for one member.
type Decision struct {
	Category Category
	Kind     Kind
	ToAdd    string   // empty when nothing is added
	ToRemove []string // removed before ToAdd is added
	Tier     int      // target tier index for ladders, -1 otherwise
}

// Label is the 1-based tier shown to users, empty outside ladders.
func (d Decision) Label() string {
	if d.Tier < 0 {
		return ""
	}

	return strconv.Itoa(d.Tier + 1)
}

// Mutates reports whether applying d requires role calls.
func (d Decision) Mutates() bool {
	return d.ToAdd != "" || len(d.ToRemove) > 0
}

// Apply returns the role set resulting from d, leaving current untouched.
func (d Decision) Apply(current []string) []string {
	out := make([]string, 0, len(current)+1)

	for _, id := range current {
		if !slices.Contains(d.ToRemove, id) {
			out = append(out, id)
		}
	}

	if d.ToAdd != "" && !slices.Contains(out, d.ToAdd) {
		out = append(out, d.ToAdd)
	}

	return out
}

// Engine computes decisions from a Table.
type Engine struct {
	table *Table
}

// NewEngine returns an Engine reading t.
func NewEngine(t *Table) *Engine {
	return &Engine{table: t}
}

// Table returns the table the engine reads.
func (e *Engine) Table() *Table {
	return e.table
}

// Next computes the decision of applying c to a member holding current.
// It returns ErrTierCeilingReached, ErrCategoryNotConfigured or ErrUnknownCategory
// when the action cannot be applied.
func (e *Engine) Next(current []string, c Category) (Decision, error) {
	d := Decision{Category: c, Kind: c.Kind(), Tier: -1}

	switch d.Kind {
	case KindLadder:
		return e.nextTier(d, current)
	case KindMarker:
		m, ok := e.table.Marker(c)
		if !ok {
			return Decision{}, fmt.Errorf("%w: %s", ErrCategoryNotConfigured, c)
		}

		if m.Reapply || !slices.Contains(current, m.Role) {
			d.ToAdd = m.Role
		}

		return d, nil
	case KindNotify:
		return d, nil
	default:
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
}

func (e *Engine) nextTier(d Decision, current []string) (Decision, error) {
	tiers := e.table.ladders[d.Category]
	if len(tiers) == 0 {
		return Decision{}, fmt.Errorf("%w: %s", ErrCategoryNotConfigured, d.Category)
	}

	tier := -1

	for i := len(tiers) - 1; i >= 0; i-- {
		if slices.Contains(current, tiers[i]) {
			tier = i
			break
		}
	}

	if tier >= len(tiers)-1 {
		return Decision{}, fmt.Errorf("%w: %s", ErrTierCeilingReached, d.Category)
	}

	// every held tier goes, not only the highest, so an inconsistent set heals
	for _, id := range tiers {
		if slices.Contains(current, id) {
			d.ToRemove = append(d.ToRemove, id)
		}
	}

	d.Tier = tier + 1
	d.ToAdd = tiers[d.Tier]

	return d, nil
}
