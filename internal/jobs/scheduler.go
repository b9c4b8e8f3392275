package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/service"
)

// StaleSessionMaxAge is how long a waiting lobby may sit idle before the
// sweep removes it.
const StaleSessionMaxAge = 30 * time.Minute

// Scheduler runs background maintenance off the request path.
type Scheduler struct {
	cron   *cron.Cron
	lobby  *service.LobbyService
	logger *logrus.Logger
}

func NewScheduler(lobby *service.LobbyService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		lobby:  lobby,
		logger: logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 10m", s.sweepStaleSessions); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweepStaleSessions() {
	removed, err := s.lobby.SweepStale(StaleSessionMaxAge)
	if err != nil {
		s.logger.Warnf("stale session sweep failed: %v", err)
		return
	}
	if removed > 0 {
		s.logger.Infof("stale session sweep removed %d sessions", removed)
	}
}
