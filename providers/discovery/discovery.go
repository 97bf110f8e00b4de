package discovery

import (
	"context"
	"strings"

	"handscout/models"
	"handscout/providers"

	"go.uber.org/zap"
)

// Generator ist der Teil des Modell-Clients, den die Provider brauchen.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// Provider fragt das Modell mit einem festen Domain-Prompt ab und parst die Antwort.
type Provider[T any] struct {
	name   string
	prompt string
	model  Generator
	Logger *zap.Logger
}

var (
	_ providers.Provider[models.Hardware] = (*Provider[models.Hardware])(nil)
	_ providers.Provider[models.Paper]    = (*Provider[models.Paper])(nil)
)

// NewHardwareProvider erstellt den Modell-Provider für Hardware.
func NewHardwareProvider(model Generator, logger *zap.Logger) *Provider[models.Hardware] {
	return newProvider[models.Hardware]("model", hardwarePrompt, model, logger)
}

// NewPaperProvider erstellt den Modell-Provider für Paper.
func NewPaperProvider(model Generator, logger *zap.Logger) *Provider[models.Paper] {
	return newProvider[models.Paper]("model", paperPrompt, model, logger)
}

func newProvider[T any](name, prompt string, model Generator, logger *zap.Logger) *Provider[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider[T]{name: name, prompt: prompt, model: model, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (p *Provider[T]) Name() string { return p.name }

// Discover hängt die Domain-Query an den Prompt an. Das Ergebnis ist nie ein Fehler.
func (p *Provider[T]) Discover(ctx context.Context, query string) ([]T, error) {
	log := p.Logger.With(zap.String("provider", p.name), zap.String("query", query))

	prompt := p.prompt
	if q := strings.TrimSpace(query); q != "" {
		prompt += "\nSearch focus: " + q + "\n"
	}

	raw := p.model.Generate(ctx, prompt)
	records := ParseOrEmpty[T](raw, log)
	log.Info("Modell-Discovery abgeschlossen", zap.Int("found", len(records)))
	return records, nil
}
