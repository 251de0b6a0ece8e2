// Package scheduler drives the bot's timed jobs: the nightly vote-lock
// sweep and the periodic leaderboard announcements.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/seyborx-dotcom/impulse-bot/internal/service"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

// Scheduler owns the cron runner. All jobs fire in the community's
// timezone, not the host's.
type Scheduler struct {
	cron        *cron.Cron
	polls       service.PollService
	leaderboard *service.LeaderboardService
	log         *logger.Logger
}

// New creates the scheduler with all jobs registered
func New(polls service.PollService, leaderboard *service.LeaderboardService, loc *time.Location, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		polls:       polls,
		leaderboard: leaderboard,
		log:         log,
	}

	jobs := []struct {
		expr string
		name string
		run  func(context.Context) error
	}{
		{"10 0 * * *", "lock sweep", func(ctx context.Context) error {
			_, err := polls.LockSweep(ctx)
			return err
		}},
		{"0 21 * * *", "monthly top-5", func(ctx context.Context) error {
			return leaderboard.PostMonthlyTop5IfNeeded(ctx, false)
		}},
		{"0 20 * * *", "year winner", func(ctx context.Context) error {
			return leaderboard.PostYearWinnerIfNeeded(ctx, false)
		}},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.expr, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := job.run(ctx); err != nil {
				log.WithError(err).WithField("job", job.name).Error("scheduled job failed")
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Start begins firing jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
