package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/staffpanel/staffpanel/internal/audit"
	"github.com/staffpanel/staffpanel/internal/ladder"
	"github.com/staffpanel/staffpanel/internal/roster"
)

// Members resolves and mutates single members.
type Members interface {
	FetchMember(ctx context.Context, id string) (roster.Member, error)
	AddRole(ctx context.Context, memberID, roleID, reason string) error
	RemoveRole(ctx context.Context, memberID, roleID, reason string) error
}

// Invalidator drops cached roster state after role changes.
type Invalidator interface {
	Invalidate()
}

// Processor applies batch actions.
type Processor struct {
	members  Members
	engine   *ladder.Engine
	notifier audit.Notifier
	messages *audit.Builder
	cache    Invalidator
	validate *validator.Validate
	newID    func() string
}

// Option configures a Processor.
type Option func(*Processor)

// WithInvalidator registers the cache invalidated after a batch changed roles.
func WithInvalidator(i Invalidator) Option {
	return func(p *Processor) {
		p.cache = i
	}
}

// NewProcessor returns a Processor.
func NewProcessor(members Members, engine *ladder.Engine, notifier audit.Notifier, messages *audit.Builder, opts ...Option) *Processor {
	p := &Processor{
		members:  members,
		engine:   engine,
		notifier: notifier,
		messages: messages,
		validate: newValidator(),
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Apply processes every target of req in order, one outcome per target. A
// failing target never stops or undoes the others. The error is only set for
// invalid requests.
func (p *Processor) Apply(ctx context.Context, req Request) (Result, error) {
	req.Reason = strings.TrimSpace(req.Reason)

	if err := p.validate.Struct(req); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	started := time.Now()
	res := Result{ID: p.newID(), Category: req.Category}

	l := log.With().
		Str("batch", res.ID).
		Str("category", string(req.Category)).
		Str("actor", req.Actor.ID).
		Logger()

	mutated := false

	for _, id := range targets(req.Targets) {
		if err := ctx.Err(); err != nil {
			res.add(Outcome{MemberID: id, Code: CodeCancelled, Reason: err.Error()})
			actionsTotal.WithLabelValues(string(req.Category), string(CodeCancelled)).Inc()

			continue
		}

		o, changed := p.applyOne(ctx, l, req, id)
		mutated = mutated || changed

		result := "ok"
		if !o.OK {
			result = string(o.Code)

			l.Info().Str("member", id).Str("code", result).Str("reason", o.Reason).Msg("action not applied")
		}

		actionsTotal.WithLabelValues(string(req.Category), result).Inc()
		res.add(o)
	}

	if mutated && p.cache != nil {
		p.cache.Invalidate()
	}

	batchDuration.WithLabelValues(string(req.Category)).Observe(time.Since(started).Seconds())

	l.Info().
		Int("targets", len(res.Outcomes)).
		Int("succeeded", res.SuccessCount).
		Dur("took", time.Since(started)).
		Msg("batch action processed")

	return res, nil
}

// applyOne reports the outcome and whether any role call reached the source.
func (p *Processor) applyOne(ctx context.Context, l zerolog.Logger, req Request, id string) (Outcome, bool) {
	o := Outcome{MemberID: id}

	m, err := p.members.FetchMember(ctx, id)
	if err != nil {
		return p.fail(ctx, o, err), false
	}

	o.DisplayName = m.DisplayName

	d, err := p.engine.Next(m.Roles, req.Category)
	if err != nil {
		return p.fail(ctx, o, err), false
	}

	auditReason := fmt.Sprintf("%s by %s: %s", audit.DisplayName(req.Category), actorName(req.Actor), req.Reason)
	changed := false

	for _, role := range d.ToRemove {
		if err := p.members.RemoveRole(ctx, id, role, auditReason); err != nil {
			return p.fail(ctx, o, err), changed
		}

		changed = true
	}

	if d.ToAdd != "" {
		if err := p.members.AddRole(ctx, id, d.ToAdd, auditReason); err != nil {
			if changed {
				l.Warn().Err(err).Str("member", id).Strs("removed", d.ToRemove).
					Msg("ladder role removed but the next tier was not added, member is untiered")
			}

			return p.fail(ctx, o, err), changed
		}

		changed = true
	}

	o.Tier = d.Label()

	msg := p.messages.Action(audit.Action{
		Category:     req.Category,
		TargetID:     m.ID,
		TargetName:   m.DisplayName,
		TargetAvatar: m.AvatarURL,
		Tier:         o.Tier,
		Reason:       req.Reason,
		ActorID:      req.Actor.ID,
	})

	if err := p.notifier.Notify(ctx, msg); err != nil {
		// a summons has no effect besides its message
		if d.Kind == ladder.KindNotify && errors.Is(err, audit.ErrDestinationNotConfigured) {
			o.Code = CodeNotifyFailed
			o.Reason = err.Error()

			return o, changed
		}

		l.Warn().Err(err).Str("member", id).Msg("audit notification failed")
	}

	o.OK = true

	return o, changed
}

func (p *Processor) fail(ctx context.Context, o Outcome, err error) Outcome {
	o.Reason = err.Error()

	switch {
	case errors.Is(err, roster.ErrMemberNotFound):
		o.Code = CodeMemberNotFound
	case errors.Is(err, ladder.ErrTierCeilingReached):
		o.Code = CodeTierCeiling
	case errors.Is(err, ladder.ErrCategoryNotConfigured), errors.Is(err, ladder.ErrUnknownCategory):
		o.Code = CodeNotConfigured
	case ctx.Err() != nil:
		o.Code = CodeCancelled
	default:
		o.Code = CodeUpstream
	}

	return o
}

func actorName(a Actor) string {
	if a.Name != "" {
		return a.Name
	}

	return a.ID
}
