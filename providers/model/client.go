// Package model kapselt den Aufruf des generativen Text-Modells. Der Client fällt bei
// fehlender Konfiguration oder Fehlern immer auf den synthetischen Generator zurück.
package model

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Fallback-Gründe, die an OnFallback gemeldet werden.
const (
	ReasonNoCredential = "no_credential"
	ReasonTransport    = "transport"
	ReasonStatus       = "status"
	ReasonDecode       = "decode"
	ReasonEmpty        = "empty"
)

// Backend ist eine konkrete Modell-API (Qwen/DashScope oder Gemini).
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// BackendError ordnet einen Backend-Fehler einem Fallback-Grund zu.
type BackendError struct {
	Reason string
	Err    error
}

func (e *BackendError) Error() string { return e.Reason + ": " + e.Err.Error() }

func (e *BackendError) Unwrap() error { return e.Err }

// Client liefert für jeden Prompt Rohtext. Generate gibt nie einen Fehler zurück.
type Client struct {
	Backend   Backend // nil heißt: kein Credential, nur synthetische Daten
	Synthetic *Synthetic
	Logger    *zap.Logger

	// OnFallback wird bei jedem Rückfall auf synthetische Daten mit dem Grund aufgerufen.
	OnFallback func(reason string)
}

// NewClient erstellt einen Client. backend darf nil sein.
func NewClient(backend Backend, synthetic *Synthetic, logger *zap.Logger) *Client {
	if synthetic == nil {
		synthetic = NewSynthetic()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{Backend: backend, Synthetic: synthetic, Logger: logger}
}

// Generate schickt den Prompt an das Backend und liefert dessen Antwort.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	return c.fetchOrSynthetic(ctx, prompt)
}

// fetchOrSynthetic ist die einzige Stelle, an der Backend-Fehler in synthetische Daten umgewandelt werden.
func (c *Client) fetchOrSynthetic(ctx context.Context, prompt string) string {
	if c.Backend == nil {
		c.fallback(ReasonNoCredential, nil)
		return c.Synthetic.Generate(prompt)
	}

	log := c.Logger.With(zap.String("backend", c.Backend.Name()))
	text, err := c.Backend.Complete(ctx, prompt)
	if err != nil {
		reason := ReasonTransport
		var be *BackendError
		if errors.As(err, &be) {
			reason = be.Reason
		}
		c.fallbackWith(log, reason, err)
		return c.Synthetic.Generate(prompt)
	}
	if strings.TrimSpace(text) == "" {
		c.fallbackWith(log, ReasonEmpty, nil)
		return c.Synthetic.Generate(prompt)
	}
	return text
}

func (c *Client) fallback(reason string, err error) {
	c.fallbackWith(c.Logger, reason, err)
}

func (c *Client) fallbackWith(log *zap.Logger, reason string, err error) {
	fields := []zap.Field{zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	log.Warn("Modell nicht verfügbar, nutze synthetische Daten", fields...)
	if c.OnFallback != nil {
		c.OnFallback(reason)
	}
}
