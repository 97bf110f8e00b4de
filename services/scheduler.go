package services

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cycler ist alles, was einen Durchlauf ausführen kann.
type Cycler interface {
	RunCycle(ctx context.Context, trigger string) CycleReport
}

// Scheduler löst Durchläufe nach einem Cron-Ausdruck aus.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler registriert den Job. Überlappende Läufe werden übersprungen, solange der
// vorherige noch läuft.
func NewScheduler(schedule string, refresh Cycler, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		logger.Info("Running scheduled update...")
		refresh.RunCycle(context.Background(), TriggerCron)
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start startet den Scheduler im Hintergrund.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler gestartet", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop hält den Scheduler an und wartet auf laufende Jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
