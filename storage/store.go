// Package storage persistiert die Sammlungen je Domain als ganzes JSON-Dokument.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"
)

// ErrNotFound meldet, dass für eine Domain noch kein Snapshot existiert.
var ErrNotFound = errors.New("snapshot nicht gefunden")

// Store speichert pro Domain genau ein Dokument. Save ersetzt das Dokument für Leser atomar.
type Store interface {
	Load(ctx context.Context, domain string) ([]byte, error)
	Save(ctx context.Context, domain string, data []byte) error
	// Ensure legt ein leeres Dokument an, falls keins existiert.
	Ensure(ctx context.Context, domain string) error
	// Domains listet alle Domains mit gespeichertem Dokument.
	Domains(ctx context.Context) ([]string, error)
}

var domainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func checkDomain(domain string) error {
	if !domainPattern.MatchString(domain) {
		return fmt.Errorf("ungültiger domain-name %q", domain)
	}
	return nil
}

// emptyDocument ist der Inhalt einer leeren Sammlung.
var emptyDocument = []byte("[]\n")

// Collection liest und schreibt eine typisierte Sammlung über einen Store.
type Collection[T any] struct {
	Store  Store
	Domain string
	Logger *zap.Logger
}

// NewCollection erstellt eine Sammlung für domain.
func NewCollection[T any](store Store, domain string, logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{Store: store, Domain: domain, Logger: logger.With(zap.String("domain", domain))}
}

// Read liefert den aktuellen Snapshot. Ein fehlender oder nicht lesbarer Snapshot ergibt eine
// leere Sammlung. Alle anderen Fehler des Stores werden zurückgegeben.
func (c *Collection[T]) Read(ctx context.Context) ([]T, error) {
	data, err := c.Store.Load(ctx, c.Domain)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot %s lesen: %w", c.Domain, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		c.Logger.Warn("Snapshot beschädigt, beginne mit leerer Sammlung", zap.Error(err))
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Write ersetzt den Snapshot vollständig durch records (2 Leerzeichen eingerückt).
func (c *Collection[T]) Write(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot %s serialisieren: %w", c.Domain, err)
	}
	data = append(data, '\n')
	if err := c.Store.Save(ctx, c.Domain, data); err != nil {
		return fmt.Errorf("snapshot %s schreiben: %w", c.Domain, err)
	}
	return nil
}

// Ensure legt den Snapshot an, falls er fehlt.
func (c *Collection[T]) Ensure(ctx context.Context) error {
	return c.Store.Ensure(ctx, c.Domain)
}
