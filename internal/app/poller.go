package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order_acknowledgement_service/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

const (
	// dueWindow widens the due check so a tick that lands just before the
	// scheduled instant still triggers instead of sleeping another round.
	dueWindow = 5 * time.Second

	// minSleep and maxSleep bound the adaptive delay between ticks: never
	// hot-loop when the due time is near or past, never oversleep a
	// configuration change for more than ten minutes.
	minSleep = 30 * time.Second
	maxSleep = 10 * time.Minute

	// inactiveSleep is the fixed re-check cadence while the schedule is
	// suspended.
	inactiveSleep = 5 * time.Minute

	// errorCooldown is the fixed back-off after an unexpected tick failure.
	errorCooldown = time.Minute
)

// SchedulePoller drives batch execution: it periodically reads the schedule
// record and invokes the Acknowledger when the next execution is due. The
// loop is self-healing against transient store errors and terminates only on
// context cancellation.
type SchedulePoller struct {
	scheduleRepo schedule.Repository
	acknowledger Acknowledger
	clock        Clock
	logger       *logrus.Logger
}

func NewSchedulePoller(sr schedule.Repository, ack Acknowledger, clock Clock, logger *logrus.Logger) *SchedulePoller {
	return &SchedulePoller{
		scheduleRepo: sr,
		acknowledger: ack,
		clock:        clock,
		logger:       logger,
	}
}

// Run blocks until ctx is cancelled. Cancellation interrupts the sleep
// between ticks immediately but never aborts a batch already underway.
func (p *SchedulePoller) Run(ctx context.Context) {
	p.logger.Info("Schedule poller started.")
	for {
		wait, err := p.tick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Errorf("Unexpected error in schedule poller: %v", err)
			wait = errorCooldown
		}
		if !sleepInterruptible(ctx, wait) {
			break
		}
	}
	p.logger.Info("Schedule poller stopped.")
}

// tick performs one check-then-trigger iteration and returns the delay to
// sleep before the next one.
func (p *SchedulePoller) tick(ctx context.Context) (time.Duration, error) {
	cfg, err := p.scheduleRepo.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schedule configuration: %w", err)
	}

	now := p.clock.Now()
	if cfg.Active && !cfg.NextExecution.After(now.Add(dueWindow)) {
		p.logger.Info("Triggering scheduled order acknowledgement run.")
		// Shutdown prevents starting a new run but never aborts one already
		// underway: a cancelled poller mid-send would otherwise record a
		// spurious failure and exit with the schedule un-advanced.
		if _, err := p.acknowledger.Run(context.WithoutCancel(ctx)); err != nil {
			// A failed or already-running batch must not take the poller
			// down; the history log and the next tick cover it.
			if errors.Is(err, ErrRunInProgress) {
				p.logger.Warn("Scheduled trigger skipped: a run is already in progress.")
			} else {
				p.logger.Errorf("Scheduled acknowledgement run failed: %v", err)
			}
		}
	}

	return computeDelay(cfg, now), nil
}

// computeDelay returns the next sleep duration: a fixed 5 minutes while
// inactive, otherwise the time until the next execution clamped to
// [30s, 10min].
func computeDelay(cfg *schedule.Configuration, now time.Time) time.Duration {
	if !cfg.Active {
		return inactiveSleep
	}
	delta := cfg.NextExecution.Sub(now)
	if delta < minSleep {
		return minSleep
	}
	if delta > maxSleep {
		return maxSleep
	}
	return delta
}

// sleepInterruptible waits for d or until ctx is done, whichever comes
// first. It reports whether the full wait elapsed.
func sleepInterruptible(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
