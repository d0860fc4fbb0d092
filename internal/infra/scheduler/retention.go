package scheduler

import (
	"context"
	"time"

	"order_acknowledgement_service/internal/domain/history"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RetentionScheduler runs the daily history purge. The acknowledgement
// pipeline itself never deletes history; only this sweep does, and only past
// the configured retention window.
type RetentionScheduler struct {
	cronEngine    *cron.Cron
	historyRepo   history.Repository
	logger        *logrus.Logger
	cronSpec      string
	retentionDays int
}

func NewRetentionScheduler(hr history.Repository, logger *logrus.Logger, cronSpec string, retentionDays int) *RetentionScheduler {
	return &RetentionScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.UTC)),
		historyRepo:   hr,
		logger:        logger,
		cronSpec:      cronSpec,
		retentionDays: retentionDays,
	}
}

// Start registers and starts the purge job. A retention of zero days
// disables the sweep entirely.
func (s *RetentionScheduler) Start() error {
	if s.retentionDays <= 0 {
		s.logger.Info("History retention sweep disabled (retention days <= 0).")
		return nil
	}

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
		purged, err := s.historyRepo.PurgeOlderThan(ctx, cutoff)
		if err != nil {
			s.logger.Errorf("History retention sweep failed: %v", err)
			return
		}
		s.logger.Infof("History retention sweep purged %d entries older than %s", purged, cutoff.Format("2006-01-02"))
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("History retention scheduler started (spec %q, retention %d days).", s.cronSpec, s.retentionDays)
	return nil
}

func (s *RetentionScheduler) Stop() {
	s.logger.Info("Stopping history retention scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running purge to finish.
	<-ctx.Done()
	s.logger.Info("History retention scheduler gracefully stopped.")
}
