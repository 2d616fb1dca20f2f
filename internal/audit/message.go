// Package audit builds the log messages posted to the staff log channels and
// routes them to their configured destination.
package audit

import (
	"time"
)

// Destinations which are not action categories.
const (
	DestinationReport = "raport"
	DestinationLeave  = "urlop"
)

// blank is the zero width space used as an empty embed field.
const blank = "\u200b"

// Field is one name/value pair of a message.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Message is a rich log entry, rendered as an embed by the sender.
type Message struct {
	Destination string // category wire name, DestinationReport or DestinationLeave
	Title       string
	Color       int
	Thumbnail   string
	Fields      []Field
	Footer      string
	Timestamp   time.Time

	// Mention is posted as plain content next to the embed so the user is pinged.
	Mention string
}

// Mention formats a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

func spacer() Field {
	return Field{Name: blank, Value: blank, Inline: true}
}
