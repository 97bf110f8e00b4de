package services

import (
	"strings"
	"time"

	"handscout/models"
)

// Normalize prüft den natürlichen Schlüssel und setzt ID und lastUpdated. Ohne verwendbaren
// Schlüssel wird der Datensatz verworfen (ok == false). Alle anderen Felder bleiben unverändert.
func Normalize[T models.Record[T]](partial T, now time.Time) (T, bool) {
	key := partial.NaturalKey()
	if strings.TrimSpace(key) == "" {
		var zero T
		return zero, false
	}
	return partial.Stamp(models.DeriveID(key), now), true
}

// NormalizeAll normalisiert eine Liste und gibt zusätzlich die Anzahl verworfener Einträge zurück.
func NormalizeAll[T models.Record[T]](partials []T, now time.Time) ([]T, int) {
	out := make([]T, 0, len(partials))
	for _, p := range partials {
		if r, ok := Normalize(p, now); ok {
			out = append(out, r)
		}
	}
	return out, len(partials) - len(out)
}
