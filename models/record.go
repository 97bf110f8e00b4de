// Package models enthält die Datensätze (Hardware, Paper), die von der Discovery-Pipeline
// gesammelt, zusammengeführt und persistiert werden.
package models

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Domain-Namen, unter denen die Collections persistiert werden.
const (
	DomainHardware = "hardware"
	DomainPapers   = "papers"
)

// Record ist der Vertrag, den jeder Datensatz einer Domain erfüllen muss, damit die
// generische Pipeline (Normalisierung, Deduplizierung, Merge) darauf arbeiten kann.
// Die Methoden arbeiten auf Werten und geben Kopien zurück.
type Record[T any] interface {
	// NaturalKey liefert den menschenlesbaren Identitätsschlüssel (Hardware-Name, Paper-Titel).
	NaturalKey() string
	// UpdatedAt liefert den Zeitpunkt des letzten Schreibzugriffs.
	UpdatedAt() time.Time
	// Stamp setzt ID und lastUpdated.
	Stamp(id string, at time.Time) T
	// Overlay legt die vom eingehenden Datensatz gelieferten Felder über den bestehenden.
	Overlay(incoming T) T
}

// IdentityKey bildet den Vergleichsschlüssel für die Identität: getrimmt und Unicode-casefolded.
// Zwei Natural Keys sind derselbe logische Datensatz genau dann, wenn ihre IdentityKeys gleich sind.
func IdentityKey(naturalKey string) string {
	return cases.Fold().String(strings.TrimSpace(naturalKey))
}

// SameKey vergleicht zwei Natural Keys case-insensitiv.
func SameKey(a, b string) bool {
	return IdentityKey(a) == IdentityKey(b)
}

// DeriveID leitet die stabile ID aus dem IdentityKey ab: Kompatibilitätszeichen zerlegt (NFKD),
// Akzente entfernt, jede Folge von Nicht-Alphanumerischen Zeichen wird zu einem einzelnen
// Bindestrich. Gleiche IdentityKeys ergeben damit immer dieselbe ID.
// Führende und abschließende Bindestriche entfallen. Bleibt nichts übrig (z.B. rein
// nicht-lateinische Namen), wird eine Hash-ID über den IdentityKey gebildet.
func DeriveID(naturalKey string) string {
	key := IdentityKey(naturalKey)
	folded, _, err := transform.String(accentStripper(), key)
	if err != nil {
		folded = key
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 && key != "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(key))
		return fmt.Sprintf("k-%08x", h.Sum32())
	}
	return b.String()
}

// accentStripper zerlegt Zeichen (NFKD) und verwirft die kombinierenden Diakritika.
// Ein Transformer ist nicht nebenläufig nutzbar, daher wird er pro Aufruf erzeugt.
func accentStripper() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// pick gibt den eingehenden Wert zurück, falls er gesetzt ist. Ein ausdrückliches null
// der Quelle löscht den bestehenden Wert, ein fehlendes Feld behält ihn.
func pick[V any](current, incoming *V, explicitNull bool) *V {
	if incoming != nil || explicitNull {
		return incoming
	}
	return current
}

// Ptr ist ein kleiner Helfer für optionale Felder.
func Ptr[V any](v V) *V {
	return &v
}
