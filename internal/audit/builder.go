package audit

import (
	"fmt"
	"time"
	_ "time/tzdata" // embedded zone database for hosts without zoneinfo

	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/ladder"
)

// timeLayout matches the pl-PL locale date format.
const timeLayout = "2.01.2006, 15:04:05"

const (
	defaultFooter   = "MIA EMS"
	defaultTimeZone = "Europe/Warsaw"
	defaultColor    = 0x3b82f6
)

type style struct {
	title string
	name  string
	color int
}

var categoryStyles = map[ladder.Category]style{ //nolint:gochecknoglobals
	ladder.CategoryPlus:       {title: "✅ Plus", name: "Plus", color: 0x22c55e},
	ladder.CategoryMinus:      {title: "❌ Minus", name: "Minus", color: 0xdc2626},
	ladder.CategoryPraise:     {title: "🏅 Pochwała", name: "Pochwała", color: 0x06b6d4},
	ladder.CategoryWarning:    {title: "⚠️ Upomnienie", name: "Upomnienie", color: 0xf59e0b},
	ladder.CategoryReprimand:  {title: "🔴 Nagana", name: "Nagana", color: 0xea580c},
	ladder.CategorySuspension: {title: "🚫 Zawieszenie", name: "Zawieszenie", color: 0x7f1d1d},
	ladder.CategorySummons:    {title: "📢 Wezwanie do Biura", name: "Wezwanie", color: 0xf59e0b},
}

type reportStyle struct {
	emoji string
	color int
}

var reportStyles = map[string]reportStyle{ //nolint:gochecknoglobals
	"Patrol":         {emoji: "🚑", color: 0x3b82f6},
	"Operacja":       {emoji: "🔬", color: 0xec4899},
	"Wezwanie":       {emoji: "🚨", color: 0xf59e0b},
	"Zabezpieczenie": {emoji: "🛡️", color: 0x10b981},
}

// Action describes one applied action for the log.
type Action struct {
	Category     ladder.Category
	TargetID     string
	TargetName   string
	TargetAvatar string
	Tier         string // 1-based ladder tier, empty outside ladders
	Reason       string
	ActorID      string
}

// Builder renders messages with a fixed footer and local time.
type Builder struct {
	footer string
	loc    *time.Location
	now    func() time.Time
}

// NewBuilder returns a Builder for the audit settings.
func NewBuilder(cfg config.Audit) (*Builder, error) {
	tz := cfg.TimeZone
	if tz == "" {
		tz = defaultTimeZone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownTimeZone, tz, err)
	}

	footer := cfg.Footer
	if footer == "" {
		footer = defaultFooter
	}

	return &Builder{footer: footer, loc: loc, now: time.Now}, nil
}

// DisplayName is the human readable category name.
func DisplayName(c ladder.Category) string {
	if s, ok := categoryStyles[c]; ok {
		return s.name
	}

	return string(c)
}

// Action renders the log entry of an applied action.
// Summons mention the target so the member is notified.
func (b *Builder) Action(a Action) Message {
	s, ok := categoryStyles[a.Category]
	if !ok {
		s = style{title: string(a.Category), name: string(a.Category), color: defaultColor}
	}

	now := b.now()
	target := Mention(a.TargetID) + "\n" + a.TargetName

	detail := spacer()
	if a.Tier != "" {
		detail = Field{Name: "📊", Value: s.name + " x" + a.Tier, Inline: true}
	}

	m := Message{
		Destination: string(a.Category),
		Title:       s.title,
		Color:       s.color,
		Thumbnail:   a.TargetAvatar,
		Fields: []Field{
			{Name: "👤", Value: target, Inline: true},
			detail,
			spacer(),
			{Name: "📝", Value: a.Reason},
			{Name: "🔰", Value: Mention(a.ActorID), Inline: true},
			{Name: "🕐", Value: b.localTime(now), Inline: true},
		},
		Footer:    b.footer,
		Timestamp: now,
	}

	if a.Category == ladder.CategorySummons {
		m.Mention = Mention(a.TargetID)
	}

	return m
}

// Report renders a duty report filed by actorID.
func (b *Builder) Report(actorID, kind, description string) Message {
	s, ok := reportStyles[kind]
	if !ok {
		s = reportStyle{emoji: "📝", color: defaultColor}
	}

	now := b.now()

	return Message{
		Destination: DestinationReport,
		Title:       s.emoji + " Raport — " + kind,
		Color:       s.color,
		Fields: []Field{
			{Name: "👤", Value: Mention(actorID), Inline: true},
			{Name: "🏷️", Value: kind, Inline: true},
			spacer(),
			{Name: "📋", Value: description},
			{Name: "🕐", Value: b.localTime(now), Inline: true},
		},
		Footer:    b.footer,
		Timestamp: now,
	}
}

// Leave renders a leave request filed by actorID.
func (b *Builder) Leave(actorID, endDate, reason string) Message {
	now := b.now()

	return Message{
		Destination: DestinationLeave,
		Title:       "📅 Urlop",
		Color:       0x22c55e,
		Fields: []Field{
			{Name: "👤", Value: Mention(actorID), Inline: true},
			{Name: "📅", Value: orNA(endDate), Inline: true},
			spacer(),
			{Name: "💬", Value: orNA(reason)},
			{Name: "🕐", Value: b.localTime(now), Inline: true},
		},
		Footer:    b.footer,
		Timestamp: now,
	}
}

func (b *Builder) localTime(t time.Time) string {
	return t.In(b.loc).Format(timeLayout)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}

	return s
}
