package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// SnapshotRunner publishes standings snapshots of every competition.
type SnapshotRunner interface {
	PublishAll(ctx context.Context) error
}

// StartSnapshotScheduler runs publisher immediately and then every interval. Runs never overlap.
// afterRun hooks are called after every run, successful or not. The caller shuts the scheduler down.
func StartSnapshotScheduler(publisher SnapshotRunner, interval time.Duration, logger *slog.Logger, afterRun ...func()) (gocron.Scheduler, error) {
	logger = defaultLogger(logger)

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			start := time.Now()
			if err := publisher.PublishAll(ctx); err != nil {
				logger.Error("scheduler: snapshot run failed", slog.Any("error", err))
			} else {
				logger.Info("scheduler: snapshot run finished", slog.Duration("took", time.Since(start)))
			}
			for _, hook := range afterRun {
				hook()
			}
		}),
		gocron.WithName("standings-snapshots"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule snapshots: %w", err)
	}

	sched.Start()
	logger.Info("snapshot scheduler started", slog.Duration("interval", interval))
	return sched, nil
}
