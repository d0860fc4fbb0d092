package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order_acknowledgement_service/internal/domain/document"
	"order_acknowledgement_service/internal/domain/email"
	"order_acknowledgement_service/internal/domain/history"
	"order_acknowledgement_service/internal/domain/order"
	"order_acknowledgement_service/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrRunInProgress is returned by Run when another batch run (scheduled or
// manual) is already executing. Callers are expected to retry later rather
// than queue up.
var ErrRunInProgress = errors.New("acknowledgement run already in progress")

// sentConfirmationMessage is the fixed history message recorded for every
// successfully acknowledged order.
const sentConfirmationMessage = "Acknowledgement sent"

// Result summarizes one batch run: how many acknowledgements were sent and
// the history entries created along the way. It is never persisted as such.
type Result struct {
	SentCount int
	Entries   []*history.Entry
}

// Acknowledger runs one acknowledgement batch: fetch due orders, render and
// send one confirmation per order, record one history entry per order, then
// advance the schedule.
type Acknowledger interface {
	Run(ctx context.Context) (*Result, error)
}

// AcknowledgerImpl implements the Acknowledger interface.
type AcknowledgerImpl struct {
	orderRepo    order.Repository
	renderer     document.Renderer
	sender       email.Sender
	historyRepo  history.Repository
	scheduleRepo schedule.Repository
	clock        Clock
	logger       *logrus.Logger
	subjectFmt   string

	// runSlot is a single-run lock: a scheduled trigger and a manual trigger
	// must never process the same due-order window concurrently.
	runSlot chan struct{}
}

func NewAcknowledger(
	or order.Repository,
	dr document.Renderer,
	es email.Sender,
	hr history.Repository,
	sr schedule.Repository,
	clock Clock,
	logger *logrus.Logger,
	subjectFmt string,
) *AcknowledgerImpl {
	return &AcknowledgerImpl{
		orderRepo:    or,
		renderer:     dr,
		sender:       es,
		historyRepo:  hr,
		scheduleRepo: sr,
		clock:        clock,
		logger:       logger,
		subjectFmt:   subjectFmt,
		runSlot:      make(chan struct{}, 1),
	}
}

// Run processes all orders currently due for acknowledgement. Per-order
// render or send failures are downgraded to failed history entries and never
// abort the batch; failures talking to the order source, the history log or
// the schedule store propagate as a run-level error. An empty batch still
// advances the schedule so the pipeline always makes forward progress.
func (a *AcknowledgerImpl) Run(ctx context.Context) (*Result, error) {
	select {
	case a.runSlot <- struct{}{}:
	default:
		return nil, ErrRunInProgress
	}
	defer func() { <-a.runSlot }()

	executedAt := a.clock.Now()
	a.logger.Infof("Starting order acknowledgement run at %s", executedAt.Format(time.RFC3339))

	dueOrders, err := a.orderRepo.DueAcknowledgements(ctx, executedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due orders: %w", err)
	}
	a.logger.Infof("%d orders to acknowledge", len(dueOrders))

	result := &Result{Entries: make([]*history.Entry, 0, len(dueOrders))}
	for _, ack := range dueOrders {
		entry := a.processOrder(ctx, ack, executedAt)
		if entry.Succeeded {
			result.SentCount++
		}

		// Written immediately rather than batched at the end: a crash
		// mid-run must leave a partial but consistent audit trail.
		if err := a.historyRepo.Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to append history entry for order %s: %w", ack.Number, err)
		}
		result.Entries = append(result.Entries, entry)
	}

	if err := a.advanceSchedule(ctx, executedAt); err != nil {
		return nil, err
	}

	a.logger.Infof("Acknowledgement run finished: %d/%d sent", result.SentCount, len(dueOrders))
	return result, nil
}

// processOrder attempts one order end to end and returns its history entry.
// All downstream errors are captured in the entry; nothing escapes.
func (a *AcknowledgerImpl) processOrder(ctx context.Context, ack *order.Acknowledgement, executedAt time.Time) *history.Entry {
	entry := &history.Entry{
		ID:          uuid.New(),
		ExecutedAt:  executedAt,
		OrderNumber: ack.Number,
		Recipient:   ack.RecipientEmail,
	}

	pdf, err := a.renderer.RenderAcknowledgement(ack)
	if err != nil {
		a.logger.Errorf("Failed to render acknowledgement for order %s: %v", ack.Number, err)
		entry.Message = err.Error()
		return entry
	}

	body, err := buildBodyHTML(ack)
	if err != nil {
		a.logger.Errorf("Failed to build email body for order %s: %v", ack.Number, err)
		entry.Message = err.Error()
		return entry
	}

	msg := &email.Message{
		Recipient:      ack.RecipientEmail,
		Subject:        fmt.Sprintf(a.subjectFmt, ack.Number),
		HTMLBody:       body,
		Attachment:     pdf,
		AttachmentName: fmt.Sprintf("Acknowledgement_%s.pdf", ack.Number),
	}
	if err := a.sender.Send(ctx, msg); err != nil {
		a.logger.Errorf("Failed to send acknowledgement for order %s to %s: %v", ack.Number, ack.RecipientEmail, err)
		entry.Message = err.Error()
		return entry
	}

	entry.Succeeded = true
	entry.Message = sentConfirmationMessage
	return entry
}

// advanceSchedule moves NextExecution forward by the configured interval.
// An inactive schedule is left untouched so that disabling the pipeline is
// never silently undone by a run.
func (a *AcknowledgerImpl) advanceSchedule(ctx context.Context, executedAt time.Time) error {
	cfg, err := a.scheduleRepo.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schedule configuration: %w", err)
	}
	if !cfg.Active {
		a.logger.Info("Schedule inactive, next execution not recalculated.")
		return nil
	}

	interval := cfg.IntervalHours
	if interval < schedule.MinIntervalHours {
		interval = schedule.MinIntervalHours
	}
	next := executedAt.Add(time.Duration(interval) * time.Hour)
	if err := a.scheduleRepo.Write(ctx, interval, cfg.Active, next); err != nil {
		return fmt.Errorf("failed to advance schedule: %w", err)
	}

	a.logger.Infof("Next execution recalculated for %s", next.Format(time.RFC3339))
	return nil
}
