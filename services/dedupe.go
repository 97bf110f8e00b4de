package services

import "handscout/models"

// Dedupe behält je natürlichem Schlüssel (getrimmt, ohne Groß-/Kleinschreibung) das erste Vorkommen.
func Dedupe[T models.Record[T]](records []T) []T {
	seen := make(map[string]struct{}, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		key := models.IdentityKey(r.NaturalKey())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
