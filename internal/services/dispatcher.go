package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/infra"
	"github.com/ri4re/linebot/internal/parser"
	"github.com/ri4re/linebot/internal/render"
	"github.com/ri4re/linebot/internal/repository"
)

// Executor runs a parsed command and returns its reply.
type Executor interface {
	Execute(ctx context.Context, intent parser.Intent) (string, error)
}

var _ Executor = (*OrderService)(nil)

// EventResult is the per-event outcome reported back to the webhook caller.
type EventResult struct {
	Intent  string                `json:"intent,omitempty"`
	Outcome domain.CommandOutcome `json:"outcome"`
	Reply   string                `json:"reply,omitempty"`
	Error   string                `json:"error,omitempty"`
}

type Dispatcher struct {
	parser    *parser.Parser
	executor  Executor
	renderer  *render.Renderer
	messenger infra.Messenger
	journal   repository.JournalRepository
	logger    *zap.Logger
}

// NewDispatcher wires the per-message pipeline. journal may be nil.
func NewDispatcher(p *parser.Parser, ex Executor, rd *render.Renderer, m infra.Messenger, journal repository.JournalRepository, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		parser:    p,
		executor:  ex,
		renderer:  rd,
		messenger: m,
		journal:   journal,
		logger:    logger,
	}
}

// Dispatch handles every event of a batch concurrently. One event failing never affects
// another; results come back in input order.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.InboundEvent) []EventResult {
	results := make([]EventResult, len(events))
	var g errgroup.Group
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("event handler panicked", zap.Any("panic", r), zap.Stack("stack"))
					results[i] = EventResult{Outcome: domain.OutcomeReplyFailed, Error: fmt.Sprintf("internal error: %v", r)}
				}
			}()
			results[i] = d.handle(ctx, ev)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (d *Dispatcher) handle(ctx context.Context, ev domain.InboundEvent) EventResult {
	if !ev.IsText() {
		return EventResult{Outcome: domain.OutcomeIgnored}
	}

	intent := d.parser.Parse(ev.Text)
	res := EventResult{Intent: intent.Name(), Outcome: domain.OutcomeReplied}

	reply, err := d.execute(ctx, intent)
	if err != nil {
		reply = d.replyFor(intent, err)
		res.Error = err.Error()
	} else if _, ok := intent.(parser.Unrecognized); ok {
		d.logger.Debug("unrecognized command", zap.String("text", ev.Text))
	}
	res.Reply = reply

	if err := d.messenger.Reply(ctx, ev.ReplyToken, reply); err != nil {
		d.logger.Warn("reply delivery failed", zap.String("intent", res.Intent), zap.Error(err))
		res.Outcome = domain.OutcomeReplyFailed
		if res.Error == "" {
			res.Error = err.Error()
		}
	}

	d.record(ctx, ev, intent, res)
	return res
}

// execute runs the command, turning a panic into an error so the sender still gets a
// failure reply.
func (d *Dispatcher) execute(ctx context.Context, intent parser.Intent) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", zap.String("intent", intent.Name()), zap.Any("panic", r), zap.Stack("stack"))
			reply, err = "", fmt.Errorf("internal error: %v", r)
		}
	}()
	return d.executor.Execute(ctx, intent)
}

func (d *Dispatcher) replyFor(intent parser.Intent, err error) string {
	if pay, ok := intent.(parser.PayByCustomer); ok && errors.Is(err, ErrOrderNotFound) {
		d.logger.Info("order not found", zap.String("customer", pay.Customer), zap.String("product", pay.Product))
		return d.renderer.NotFoundFor(pay.Customer, pay.Product)
	}
	if errors.Is(err, ErrOrderNotFound) {
		d.logger.Info("order not found", zap.String("shortId", shortIDOf(intent)))
		return d.renderer.NotFound(shortIDOf(intent))
	}

	var se *repository.StoreError
	if errors.As(err, &se) && se.Validation {
		d.logger.Error("store rejected write",
			zap.String("intent", intent.Name()),
			zap.String("field", string(se.Field)),
			zap.String("property", se.Property),
			zap.Error(err))
	} else {
		d.logger.Error("command failed", zap.String("intent", intent.Name()), zap.Error(err))
	}
	return d.renderer.Failure(err)
}

// record writes the journal entry. Failures are logged only.
func (d *Dispatcher) record(ctx context.Context, ev domain.InboundEvent, intent parser.Intent, res EventResult) {
	if d.journal == nil {
		return
	}

	name, err := d.messenger.DisplayName(ctx, ev.UserID)
	if err != nil {
		d.logger.Debug("profile lookup failed", zap.String("userId", ev.UserID), zap.Error(err))
	}

	entry := &domain.CommandLog{
		UserID:      ev.UserID,
		DisplayName: name,
		Text:        ev.Text,
		Intent:      intent.Name(),
		ShortID:     shortIDOf(intent),
		Outcome:     res.Outcome,
		Error:       res.Error,
	}
	if err := d.journal.Save(ctx, entry); err != nil {
		d.logger.Warn("journal write failed", zap.Error(err))
	}
}

func shortIDOf(intent parser.Intent) string {
	switch in := intent.(type) {
	case parser.UpdateOrder:
		return in.Update.ShortID
	case parser.Query:
		return in.ShortID
	}
	return ""
}
