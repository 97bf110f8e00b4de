package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Auslöser eines Durchlaufs. Sie dienen nur Logging und Metriken.
const (
	TriggerStartup = "startup"
	TriggerCron    = "cron"
	TriggerHTTP    = "http"
	TriggerCLI     = "cli"
)

// DomainRunner ist eine Domain-Pipeline, unabhängig vom Datensatztyp.
type DomainRunner interface {
	Name() string
	Run(ctx context.Context) DomainReport
	Stats(ctx context.Context) (total, recent int, err error)
}

// CycleReport fasst einen Durchlauf über alle Domains zusammen.
type CycleReport struct {
	CycleID  string         `json:"cycleId"`
	Trigger  string         `json:"trigger"`
	Started  time.Time      `json:"started"`
	Duration time.Duration  `json:"-"`
	Domains  []DomainReport `json:"domains"`
}

// Err verbindet alle Persistenzfehler der Domains. nil heißt: alle Schreibvorgänge sind gelungen.
func (r CycleReport) Err() error {
	var errs []error
	for _, d := range r.Domains {
		if d.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Domain, d.Err))
		}
	}
	return errors.Join(errs...)
}

// Domain liefert den Report einer Domain.
func (r CycleReport) Domain(name string) (DomainReport, bool) {
	for _, d := range r.Domains {
		if d.Domain == name {
			return d, true
		}
	}
	return DomainReport{}, false
}

// RefreshService führt Durchläufe über alle Domains aus. Er hält keinen Zustand außer seinen
// Abhängigkeiten, alle Auslöser rufen RunCycle.
type RefreshService struct {
	Domains []DomainRunner
	Logger  *zap.Logger

	// OnCycle wird nach jedem Durchlauf mit dem Report aufgerufen (z.B. für Metriken).
	OnCycle func(CycleReport)
}

// NewRefreshService erstellt den Service.
func NewRefreshService(domains []DomainRunner, logger *zap.Logger) *RefreshService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshService{Domains: domains, Logger: logger}
}

// RunCycle führt alle Domains parallel aus. Ein Durchlauf schlägt nie als Ganzes fehl,
// Fehler einzelner Domains stehen im Report.
func (s *RefreshService) RunCycle(ctx context.Context, trigger string) CycleReport {
	report := CycleReport{
		CycleID: uuid.NewString(),
		Trigger: trigger,
		Started: time.Now(),
		Domains: make([]DomainReport, len(s.Domains)),
	}
	log := s.Logger.With(zap.String("cycle_id", report.CycleID), zap.String("trigger", trigger))
	log.Info("Starte Aktualisierung", zap.Int("domains", len(s.Domains)))

	var g errgroup.Group
	for i, d := range s.Domains {
		g.Go(func() error {
			report.Domains[i] = d.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()
	report.Duration = time.Since(report.Started)

	fields := []zap.Field{zap.Duration("duration", report.Duration)}
	for _, d := range report.Domains {
		fields = append(fields,
			zap.Int(d.Domain+"_discovered", d.Discovered),
			zap.Int(d.Domain+"_total", d.Total),
			zap.Int(d.Domain+"_recent_24h", d.Recent))
	}
	if err := report.Err(); err != nil {
		log.Error("Aktualisierung mit Persistenzfehlern beendet", append(fields, zap.Error(err))...)
	} else {
		log.Info("Aktualisierung abgeschlossen", fields...)
	}

	if s.OnCycle != nil {
		s.OnCycle(report)
	}
	return report
}

// DomainStats enthält Gesamt- und 24h-Anzahl einer Domain.
type DomainStats struct {
	Total    int `json:"total"`
	Recent24 int `json:"recent24h"`
}

// Stats liefert die aktuellen Zahlen aller Domains.
func (s *RefreshService) Stats(ctx context.Context) (map[string]DomainStats, error) {
	out := make(map[string]DomainStats, len(s.Domains))
	for _, d := range s.Domains {
		total, recent, err := d.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name(), err)
		}
		out[d.Name()] = DomainStats{Total: total, Recent24: recent}
	}
	return out, nil
}
