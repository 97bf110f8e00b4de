// Package discovery enthält die modellgestützten Provider für Hardware und Paper.
package discovery

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// stripCodeFence entfernt einen umschließenden Markdown-Codeblock (```json ... ```).
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseOrEmpty parst eine Modellantwort als JSON-Array von T. Ist die Antwort kein Array,
// wird eine leere Liste zurückgegeben. Elemente, die sich nicht als T dekodieren lassen,
// werden einzeln übersprungen. Ein Fehler verlässt diese Funktion nie.
func ParseOrEmpty[T any](raw string, log *zap.Logger) []T {
	if log == nil {
		log = zap.NewNop()
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &elems); err != nil {
		log.Warn("Modellantwort ist kein JSON-Array, verwende leeres Ergebnis", zap.Error(err))
		return []T{}
	}

	out := make([]T, 0, len(elems))
	skipped := 0
	for _, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	if skipped > 0 {
		log.Warn("Einträge der Modellantwort übersprungen", zap.Int("skipped", skipped), zap.Int("kept", len(out)))
	}
	return out
}
