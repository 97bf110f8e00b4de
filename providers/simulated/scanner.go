package simulated

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrSourceOffline meldet einen Quelleneintrag, der als nicht erreichbar markiert ist.
var ErrSourceOffline = errors.New("quelle nicht erreichbar")

// scanner enthält die Abhängigkeiten, die alle simulierten Provider teilen.
type scanner struct {
	dice    *Dice
	catalog Catalog
	logger  *zap.Logger
	now     func() time.Time
}

func newScanner(dice *Dice, catalog Catalog, logger *zap.Logger) scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return scanner{dice: dice, catalog: catalog, logger: logger, now: time.Now}
}

// visit prüft einen Quelleneintrag. Ein offline markierter Eintrag liefert ErrSourceOffline.
func visit(src Source) error {
	if src.Offline {
		return fmt.Errorf("%s: %w", src.Name, ErrSourceOffline)
	}
	return nil
}

// scanEach ruft fn für jeden Eintrag auf. Fehler einzelner Einträge werden geloggt und übersprungen.
func scanEach[T any](ctx context.Context, log *zap.Logger, sources []Source, fn func(Source) ([]T, error)) ([]T, error) {
	var results []T
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		found, err := fn(src)
		if err != nil {
			log.Warn("Quelle konnte nicht gelesen werden", zap.String("source", src.Name), zap.Error(err))
			continue
		}
		results = append(results, found...)
	}
	return results, nil
}
