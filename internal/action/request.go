// Package action applies a disciplinary or commendation action to a batch of members.
package action

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/staffpanel/staffpanel/internal/ladder"
)

// Actor is the staff member issuing a request.
type Actor struct {
	ID   string `validate:"required"`
	Name string
}

// Request is one batch action.
type Request struct {
	Targets  []string        `validate:"required,min=1,dive,notblank"`
	Category ladder.Category `validate:"category"`
	Reason   string          `validate:"notblank"`
	Actor    Actor
}

// Code classifies a per-target failure.
type Code string

// Failure codes.
const (
	CodeMemberNotFound Code = "member_not_found"
	CodeTierCeiling    Code = "tier_ceiling"
	CodeNotConfigured  Code = "not_configured"
	CodeUpstream       Code = "upstream"
	CodeCancelled      Code = "cancelled"
	CodeNotifyFailed   Code = "notify_failed"
)

// Outcome is the result for one target.
type Outcome struct {
	MemberID    string
	DisplayName string
	OK          bool
	Tier        string // new 1-based ladder tier, empty outside ladders
	Code        Code   // empty on success
	Reason      string
}

// String renders a failure line for the response body.
func (o Outcome) String() string {
	who := o.DisplayName
	if who == "" {
		who = o.MemberID
	}

	if o.OK {
		return who + ": ok"
	}

	return fmt.Sprintf("%s: %s", who, o.Reason)
}

// Result of a batch.
type Result struct {
	ID           string
	Category     ladder.Category
	SuccessCount int
	Outcomes     []Outcome
}

// Failures returns the failed outcomes in processing order.
func (r Result) Failures() []Outcome {
	var out []Outcome

	for _, o := range r.Outcomes {
		if !o.OK {
			out = append(out, o)
		}
	}

	return out
}

// FailureMessages renders Failures, nil when every target succeeded.
func (r Result) FailureMessages() []string {
	var out []string

	for _, o := range r.Failures() {
		out = append(out, o.String())
	}

	return out
}

func (r *Result) add(o Outcome) {
	if o.OK {
		r.SuccessCount++
	}

	r.Outcomes = append(r.Outcomes, o)
}

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return ladder.Category(fl.Field().String()).Valid()
	})

	return v
}

// targets trims the requested ids. Repeated ids stay, each occurrence is one
// step applied against the member's roles at that point.
func targets(ids []string) []string {
	out := make([]string, len(ids))

	for i, id := range ids {
		out[i] = strings.TrimSpace(id)
	}

	return out
}
