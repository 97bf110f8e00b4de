package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"handscout/models"
	"handscout/providers"
	"handscout/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DomainReport ist das Ergebnis eines Durchlaufs für eine Domain.
type DomainReport struct {
	Domain     string        `json:"domain"`
	Discovered int           `json:"discovered"`
	Unique     int           `json:"unique"`
	Total      int           `json:"total"`
	Recent     int           `json:"recent24h"`
	Written    bool          `json:"written"`
	Duration   time.Duration `json:"-"`
	Err        error         `json:"-"`
}

// Pipeline verarbeitet eine Domain: Provider parallel abfragen, normalisieren, deduplizieren
// und mit dem gespeicherten Snapshot zusammenführen.
type Pipeline[T models.Record[T]] struct {
	Domain     string
	Query      string
	Providers  []providers.Provider[T]
	Collection *storage.Collection[T]
	Logger     *zap.Logger
	Now        func() time.Time

	// mu schützt Lesen, Zusammenführen und Schreiben des Snapshots gegen überlappende Durchläufe.
	mu sync.Mutex
}

// NewPipeline erstellt eine Pipeline für eine Domain.
func NewPipeline[T models.Record[T]](domain, query string, provs []providers.Provider[T], collection *storage.Collection[T], logger *zap.Logger) *Pipeline[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline[T]{
		Domain:     domain,
		Query:      query,
		Providers:  provs,
		Collection: collection,
		Logger:     logger,
		Now:        time.Now,
	}
}

// Name gibt die Domain zurück.
func (p *Pipeline[T]) Name() string { return p.Domain }

// Discover fragt alle Provider parallel ab. Ein fehlschlagender Provider trägt nichts bei,
// die Ergebnisse der übrigen werden in Provider-Reihenfolge aneinandergehängt.
func (p *Pipeline[T]) Discover(ctx context.Context) []T {
	log := p.Logger.With(zap.String("domain", p.Domain))
	results := make([][]T, len(p.Providers))

	var g errgroup.Group
	for i, prov := range p.Providers {
		g.Go(func() error {
			plog := log.With(zap.String("provider", prov.Name()))
			found, err := safeDiscover(ctx, prov, p.Query)
			if err != nil {
				plog.Warn("Provider fehlgeschlagen, Ergebnis wird ignoriert", zap.Error(err))
				return nil
			}
			plog.Info("Provider hat Ergebnisse geliefert", zap.Int("count", len(found)))
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	var batch []T
	for _, r := range results {
		batch = append(batch, r...)
	}
	return batch
}

// safeDiscover wandelt einen Panic im Provider in einen Fehler um.
func safeDiscover[T any](ctx context.Context, prov providers.Provider[T], query string) (found []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider %s: panic: %v", prov.Name(), r)
		}
	}()
	return prov.Discover(ctx, query)
}

// Run führt einen vollständigen Durchlauf für die Domain aus. Fehler stehen im Report.
// Ein leerer Discovery-Batch schreibt nichts, der Snapshot bleibt unverändert.
func (p *Pipeline[T]) Run(ctx context.Context) DomainReport {
	start := time.Now()
	log := p.Logger.With(zap.String("domain", p.Domain))
	report := DomainReport{Domain: p.Domain}

	batch := p.Discover(ctx)
	report.Discovered = len(batch)

	normalized, rejected := NormalizeAll(batch, p.Now())
	if rejected > 0 {
		log.Info("Einträge ohne natürlichen Schlüssel verworfen", zap.Int("rejected", rejected))
	}
	unique := Dedupe(normalized)
	report.Unique = len(unique)

	p.mu.Lock()
	defer p.mu.Unlock()

	existing, err := p.Collection.Read(ctx)
	if err != nil {
		report.Duration = time.Since(start)
		if len(unique) == 0 {
			log.Warn("Snapshot nicht lesbar, nichts zu schreiben", zap.Error(err))
			return report
		}
		log.Error("Snapshot nicht lesbar, Schreiben abgebrochen", zap.Error(err))
		report.Err = err
		return report
	}

	now := p.Now()
	if len(unique) == 0 {
		log.Warn("Keine Datensätze gefunden, Snapshot bleibt unverändert")
		report.Total = len(existing)
		report.Recent = RecentCount(existing, now.Add(-24*time.Hour))
		report.Duration = time.Since(start)
		return report
	}

	merged := Merge(existing, unique, now)
	report.Total = len(merged)
	report.Recent = RecentCount(merged, now.Add(-24*time.Hour))

	if err := p.Collection.Write(ctx, merged); err != nil {
		log.Error("Snapshot konnte nicht geschrieben werden", zap.Error(err))
		report.Err = err
		report.Duration = time.Since(start)
		return report
	}
	report.Written = true
	report.Duration = time.Since(start)
	log.Info("Domain aktualisiert",
		zap.Int("discovered", report.Discovered),
		zap.Int("unique", report.Unique),
		zap.Int("total", report.Total),
		zap.Int("recent_24h", report.Recent))
	return report
}

// Stats liest den Snapshot und liefert Gesamt- und 24h-Anzahl.
func (p *Pipeline[T]) Stats(ctx context.Context) (total, recent int, err error) {
	records, err := p.Collection.Read(ctx)
	if err != nil {
		return 0, 0, err
	}
	return len(records), RecentCount(records, p.Now().Add(-24*time.Hour)), nil
}
