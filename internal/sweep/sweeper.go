// Package sweep runs the recurring auto-checkout job: find sessions open
// past the cap and close them through the attendance engine.
package sweep

import (
	"context"
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/attendance"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OpenSessionSource lists sessions still open past a cutoff. Satisfied by
// attendance.Repository.
type OpenSessionSource interface {
	FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error)
}

// SessionCloser closes one overrun session. Satisfied by attendance.Service.
type SessionCloser interface {
	AutoCheckout(ctx context.Context, employeeID string, now time.Time) (bool, error)
}

type Sweeper struct {
	source OpenSessionSource
	closer SessionCloser
	logger *zap.Logger
}

func NewSweeper(source OpenSessionSource, closer SessionCloser, logger ...*zap.Logger) *Sweeper {
	l := zap.L().Named("sweep")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sweep")
	}
	return &Sweeper{source: source, closer: closer, logger: l}
}

// Sweep closes every session open longer than the cap and returns how many
// it closed. One failing session does not stop the rest.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-attendance.AutoCheckoutAfter)

	open, err := s.source.FindOpenOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("open session scan failed", zap.Error(err))
		return 0, err
	}

	closed := 0
	for _, rec := range open {
		ok, err := s.closer.AutoCheckout(ctx, rec.EmployeeID.String(), now)
		if err != nil {
			s.logger.Error("auto-checkout failed",
				zap.String("employee_id", rec.EmployeeID.String()),
				zap.String("attendance_id", rec.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if ok {
			closed++
		}
	}

	if closed > 0 {
		s.logger.Info("sweep closed overrun sessions", zap.Int("closed", closed))
	}
	return closed, nil
}

// Register schedules the sweep every minute on the given cron runner.
func (s *Sweeper) Register(c *cron.Cron) error {
	_, err := c.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 55*time.Second)
		defer cancel()

		if _, err := s.Sweep(ctx, time.Now()); err != nil {
			s.logger.Error("sweep run failed", zap.Error(err))
		}
	})
	return err
}
