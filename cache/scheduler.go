package cache

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/saiset-co/sai-cache/types"
)

// scheduler drives the engine's background maintenance: the periodic TTL
// sweep and the periodic metrics snapshot. Jobs are registered before Start
// and recovered on panic so a failing tick never kills the schedule.
type scheduler struct {
	logger types.Logger
	cron   *cron.Cron
}

func newScheduler(logger types.Logger) *scheduler {
	cronLogger := cronLogAdapter{logger: logger}

	return &scheduler{
		logger: logger,
		cron: cron.New(
			cron.WithChain(cron.Recover(cronLogger)),
		),
	}
}

func (s *scheduler) every(interval time.Duration, name string, job func()) error {
	if interval <= 0 {
		return types.Errorf(types.ErrConfigValidateFailed, "interval for %s must be positive", name)
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.logger.Debug("Running maintenance job", zap.String("job", name))
		job()
	})

	return types.WrapError(err, "failed to schedule "+name)
}

func (s *scheduler) start() {
	s.cron.Start()
}

// stop halts the schedule and waits for an in-flight job, bounded by timeout.
func (s *scheduler) stop(timeout time.Duration) error {
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(timeout):
		return types.Errorf(types.ErrSchedulerStopTimeout, "after %s", timeout)
	}
}

type cronLogAdapter struct {
	logger types.Logger
}

func (l cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
