package jobs

import (
	"context"
	"time"

	"bookwell/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// ExpirySweeper periodically flips memberships whose time window has
// elapsed to expired. The request path performs the same transition on
// touch; the sweep catches memberships nobody books against.
type ExpirySweeper struct {
	scheduler   gocron.Scheduler
	memberships repositories.MembershipRepository
	interval    time.Duration
}

// NewExpirySweeper creates a sweeper running at the given interval.
func NewExpirySweeper(memberships repositories.MembershipRepository, interval time.Duration) (*ExpirySweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	s := &ExpirySweeper{
		scheduler:   scheduler,
		memberships: memberships,
		interval:    interval,
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.sweep),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the background sweep.
func (s *ExpirySweeper) Start() {
	log.Info().Dur("interval", s.interval).Msg("starting membership expiry sweeper")
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *ExpirySweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.memberships.ExpireElapsed(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("membership expiry sweep failed")
		return
	}
	if expired > 0 {
		log.Info().Int64("count", expired).Msg("expired elapsed memberships")
	}
}
