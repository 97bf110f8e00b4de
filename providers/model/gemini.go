package model

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentGenerator ist der Ausschnitt von genai.Models, den das Backend braucht.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend ruft Gemini über google.golang.org/genai auf.
type GeminiBackend struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// NewGeminiBackend erstellt den genai-Client. Ein leerer apiKey ist ein Konfigurationsfehler.
func NewGeminiBackend(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY fehlt")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client konnte nicht erstellt werden: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiBackend{models: client.Models, model: modelName, logger: logger}, nil
}

// Name gibt den Namen des Backends zurück.
func (g *GeminiBackend) Name() string { return "gemini" }

// Complete liefert den Text der ersten Antwort-Kandidatin.
func (g *GeminiBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &BackendError{Reason: ReasonTransport, Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &BackendError{Reason: ReasonDecode, Err: fmt.Errorf("antwort enthält keine Kandidaten")}
	}
	return resp.Text(), nil
}
