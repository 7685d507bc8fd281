package balance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultRolloverSchedule = "0 5 0 1 1 *"
	rolloverTimeout         = 30 * time.Minute
)

// RolloverJob runs the yearly rollover on a cron schedule with a seconds
// field. Overlapping runs are skipped.
type RolloverJob struct {
	service  Service
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewRolloverJob(service Service, schedule string, logger ...*zap.Logger) *RolloverJob {
	l := zap.L().Named("balance.rollover_job")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.rollover_job")
	}
	if schedule == "" {
		schedule = DefaultRolloverSchedule
	}
	return &RolloverJob{
		service:  service,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		logger: l,
	}
}

// Start registers the entry and starts the scheduler in its own goroutine.
func (j *RolloverJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.tick); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("rollover job scheduled", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running rollover to finish or ctx to expire.
func (j *RolloverJob) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		j.logger.Warn("rollover job stop timed out")
	}
}

func (j *RolloverJob) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), rolloverTimeout)
	defer cancel()
	if _, err := j.Run(ctx); err != nil {
		j.logger.Error("scheduled rollover failed", zap.Error(err))
	}
}

// Run rolls the current year over once.
func (j *RolloverJob) Run(ctx context.Context) (RolloverResult, error) {
	return j.service.RolloverYear(ctx, 0)
}
