package ladder

import (
	"fmt"
	"strings"
)

// Category is an action type. The string values are the wire names used by the dashboard.
type Category string

// Known categories.
const (
	CategoryPlus       Category = "plus"        // positive points ladder
	CategoryMinus      Category = "minus"       // negative points ladder
	CategoryReprimand  Category = "nagana"      // formal reprimand ladder
	CategoryPraise     Category = "pochwala"    // commendation marker
	CategoryWarning    Category = "upomnienie"  // formal warning marker
	CategorySuspension Category = "zawieszenie" // suspension marker
	CategorySummons    Category = "wezwanie"    // summons to the office, no role change
)

// Kind selects the decision behaviour of a category.
type Kind int

// Category kinds.
const (
	KindUnknown Kind = iota
	KindLadder
	KindMarker
	KindNotify
)

func (k Kind) String() string {
	switch k {
	case KindLadder:
		return "ladder"
	case KindMarker:
		return "marker"
	case KindNotify:
		return "notify"
	default:
		return "unknown"
	}
}

// categories lists every category in display order together with its kind.
var categories = []struct { //nolint:gochecknoglobals
	category Category
	kind     Kind
}{
	{CategoryPlus, KindLadder},
	{CategoryMinus, KindLadder},
	{CategoryPraise, KindMarker},
	{CategoryWarning, KindMarker},
	{CategoryReprimand, KindLadder},
	{CategorySuspension, KindMarker},
	{CategorySummons, KindNotify},
}

// Categories returns all known categories in display order.
func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.category)
	}

	return out
}

// Kind returns the behaviour of c, KindUnknown if c is not a known category.
func (c Category) Kind() Kind {
	for _, known := range categories {
		if known.category == c {
			return known.kind
		}
	}

	return KindUnknown
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c.Kind() != KindUnknown
}

// Parse converts a wire name into a Category.
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}

	return c, nil
}
