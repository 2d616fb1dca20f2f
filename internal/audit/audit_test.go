package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/ladder"
)

type sent struct {
	channel string
	msg     Message
}

type recordingSender struct {
	sent []sent
	err  error
}

func (r *recordingSender) Send(_ context.Context, channelID string, m Message) error {
	if r.err != nil {
		return r.err
	}

	r.sent = append(r.sent, sent{channel: channelID, msg: m})

	return nil
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()

	b, err := NewBuilder(config.Audit{})
	require.NoError(t, err)

	b.now = func() time.Time { return time.Date(2024, 1, 15, 11, 30, 5, 0, time.UTC) }

	return b
}

func TestNewBuilder_BadTimeZone(t *testing.T) {
	_, err := NewBuilder(config.Audit{TimeZone: "Mars/Olympus"})
	require.ErrorIs(t, err, ErrUnknownTimeZone)
}

func TestBuilder_Action(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name        string
		action      Action
		wantTitle   string
		wantColor   int
		wantDetail  string
		wantMention string
	}{
		{
			name:       "ladder carries tier",
			action:     Action{Category: ladder.CategoryPlus, TargetID: "42", TargetName: "Anna", Tier: "2", Reason: "good job", ActorID: "7"},
			wantTitle:  "✅ Plus",
			wantColor:  0x22c55e,
			wantDetail: "Plus x2",
		},
		{
			name:       "reprimand",
			action:     Action{Category: ladder.CategoryReprimand, TargetID: "42", Tier: "1", ActorID: "7"},
			wantTitle:  "🔴 Nagana",
			wantColor:  0xea580c,
			wantDetail: "Nagana x1",
		},
		{
			name:       "marker has no tier",
			action:     Action{Category: ladder.CategorySuspension, TargetID: "42", ActorID: "7"},
			wantTitle:  "🚫 Zawieszenie",
			wantColor:  0x7f1d1d,
			wantDetail: blank,
		},
		{
			name:        "summons pings the target",
			action:      Action{Category: ladder.CategorySummons, TargetID: "42", ActorID: "7"},
			wantTitle:   "📢 Wezwanie do Biura",
			wantColor:   0xf59e0b,
			wantDetail:  blank,
			wantMention: "<@42>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := b.Action(tt.action)

			assert.Equal(t, string(tt.action.Category), m.Destination)
			assert.Equal(t, tt.wantTitle, m.Title)
			assert.Equal(t, tt.wantColor, m.Color)
			assert.Equal(t, tt.wantMention, m.Mention)
			assert.Equal(t, "MIA EMS", m.Footer)
			require.Len(t, m.Fields, 6)
			assert.Equal(t, "<@42>\n"+tt.action.TargetName, m.Fields[0].Value)
			assert.Equal(t, tt.wantDetail, m.Fields[1].Value)
			assert.Equal(t, "<@7>", m.Fields[4].Value)
			assert.Equal(t, "15.01.2024, 12:30:05", m.Fields[5].Value)
		})
	}
}

func TestBuilder_ReportAndLeave(t *testing.T) {
	b := newTestBuilder(t)

	r := b.Report("7", "Operacja", "surgery")
	assert.Equal(t, DestinationReport, r.Destination)
	assert.Equal(t, "🔬 Raport — Operacja", r.Title)
	assert.Equal(t, 0xec4899, r.Color)
	assert.Equal(t, "surgery", r.Fields[3].Value)

	r = b.Report("7", "Inne", "x")
	assert.Equal(t, "📝 Raport — Inne", r.Title)
	assert.Equal(t, defaultColor, r.Color)

	l := b.Leave("7", "", "")
	assert.Equal(t, DestinationLeave, l.Destination)
	assert.Equal(t, "N/A", l.Fields[1].Value)
	assert.Equal(t, "N/A", l.Fields[3].Value)

	l = b.Leave("7", "2024-02-01", "rest")
	assert.Equal(t, "2024-02-01", l.Fields[1].Value)
}

func TestDispatcher_Notify(t *testing.T) {
	s := &recordingSender{}
	d := NewDispatcher(s, map[string]string{"plus": "100", DestinationReport: "200"})

	require.NoError(t, d.Notify(context.Background(), Message{Destination: "plus"}))
	require.NoError(t, d.Notify(context.Background(), Message{Destination: DestinationReport}))
	require.Len(t, s.sent, 2)
	assert.Equal(t, "100", s.sent[0].channel)
	assert.Equal(t, "200", s.sent[1].channel)

	err := d.Notify(context.Background(), Message{Destination: "wezwanie"})
	require.ErrorIs(t, err, ErrDestinationNotConfigured)
	assert.False(t, d.Configured("wezwanie"))
	assert.True(t, d.Configured("plus"))

	boom := errors.New("boom")
	s.err = boom

	err = d.Notify(context.Background(), Message{Destination: "plus"})
	require.ErrorIs(t, err, boom)
}
