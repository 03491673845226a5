package jobs

import (
	"context"
	"log/slog"

	"routeplanner/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ETARefreshMetrics receives job run outcomes.
type ETARefreshMetrics interface {
	ETARefreshObserve(err error)
}

// ETARefreshJob periodically recomputes estimated arrival times for all
// active routes. Estimates drift as actual departures accrue, so a scheduled
// re-projection keeps the remaining schedule honest.
type ETARefreshJob struct {
	handler  commands.RefreshETAsCommandHandler
	schedule string
	cron     *cron.Cron
	metrics  ETARefreshMetrics
	logger   *slog.Logger
}

// NewETARefreshJob creates a new job for refreshing route ETAs.
// The schedule is a cron expression with a seconds field, e.g. "0 */5 * * * *"
// for every five minutes.
func NewETARefreshJob(
	handler commands.RefreshETAsCommandHandler,
	schedule string,
	metrics ETARefreshMetrics,
	logger *slog.Logger,
) *ETARefreshJob {
	return &ETARefreshJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		metrics:  metrics,
		logger:   logger.With("component", "eta_refresh_job"),
	}
}

// Start begins the ETA refresh job on its configured schedule.
func (j *ETARefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewRefreshETAsCommand()

		handleErr := j.handler.Handle(ctx, cmd)
		if j.metrics != nil {
			j.metrics.ETARefreshObserve(handleErr)
		}
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "ETA refresh job failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "ETA refresh job started", "schedule", j.schedule)
	return nil
}

// Stop stops the ETA refresh job.
func (j *ETARefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "ETA refresh job stopped")
}
