package services

import (
	"slices"
	"time"

	"handscout/models"
)

// Merge führt neu entdeckte Datensätze in den bestehenden Snapshot.
//
// Ein Datensatz mit gleichem Schlüssel wird per Overlay aktualisiert (gelieferte Felder gewinnen,
// fehlende bleiben erhalten), ein unbekannter Schlüssel wird angehängt. Jeder berührte Datensatz
// bekommt lastUpdated = now und eine aus seinem Schlüssel abgeleitete ID. Das Ergebnis ist stabil
// nach lastUpdated absteigend sortiert. existing wird nicht verändert.
func Merge[T models.Record[T]](existing, incoming []T, now time.Time) []T {
	merged := make([]T, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, r := range merged {
		key := models.IdentityKey(r.NaturalKey())
		if key == "" {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	for _, in := range incoming {
		key := models.IdentityKey(in.NaturalKey())
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			updated := merged[i].Overlay(in)
			merged[i] = updated.Stamp(models.DeriveID(updated.NaturalKey()), now)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, in.Stamp(models.DeriveID(in.NaturalKey()), now))
	}

	slices.SortStableFunc(merged, func(a, b T) int {
		return b.UpdatedAt().Compare(a.UpdatedAt())
	})
	return merged
}

// RecentCount zählt die Datensätze, die seit since aktualisiert wurden.
func RecentCount[T models.Record[T]](records []T, since time.Time) int {
	n := 0
	for _, r := range records {
		if r.UpdatedAt().After(since) {
			n++
		}
	}
	return n
}
