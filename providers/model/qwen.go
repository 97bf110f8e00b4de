package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"handscout/httputil"

	"go.uber.org/zap"
)

// DefaultQwenURL ist der DashScope-Endpunkt für Textgenerierung.
const DefaultQwenURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

type qwenMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type qwenRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []qwenMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		ResultFormat string `json:"result_format"`
	} `json:"parameters"`
}

type qwenResponse struct {
	Output struct {
		Choices []struct {
			Message qwenMessage `json:"message"`
		} `json:"choices"`
	} `json:"output"`
}

// QwenBackend ruft die DashScope-API auf.
type QwenBackend struct {
	APIKey     string
	URL        string
	Model      string
	MaxRetries int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewQwenBackend erstellt ein Backend mit User-Agent-Client. Leere Werte werden mit Defaults belegt.
func NewQwenBackend(apiKey, url, modelName string, client *http.Client, maxRetries int, logger *zap.Logger) *QwenBackend {
	if url == "" {
		url = DefaultQwenURL
	}
	if modelName == "" {
		modelName = "qwen-turbo"
	}
	if client == nil {
		client = httputil.NewClient(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QwenBackend{
		APIKey:     apiKey,
		URL:        url,
		Model:      modelName,
		MaxRetries: maxRetries,
		HTTPClient: client,
		Logger:     logger,
	}
}

// Name gibt den Namen des Backends zurück.
func (q *QwenBackend) Name() string { return "qwen" }

// Complete sendet den Prompt als einzelne User-Nachricht und liefert output.choices[0].message.content.
func (q *QwenBackend) Complete(ctx context.Context, prompt string) (string, error) {
	var body qwenRequest
	body.Model = q.Model
	body.Input.Messages = []qwenMessage{{Role: "user", Content: prompt}}
	body.Parameters.ResultFormat = "message"

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &BackendError{Reason: ReasonTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.URL, bytes.NewReader(payload))
	if err != nil {
		return "", &BackendError{Reason: ReasonTransport, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+q.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, q.HTTPClient, req, q.MaxRetries, q.Logger)
	if err != nil {
		return "", &BackendError{Reason: ReasonTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &BackendError{Reason: ReasonStatus, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)}
	}

	var decoded qwenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &BackendError{Reason: ReasonDecode, Err: err}
	}
	if len(decoded.Output.Choices) == 0 {
		return "", &BackendError{Reason: ReasonDecode, Err: fmt.Errorf("antwort enthält keine choices")}
	}
	return decoded.Output.Choices[0].Message.Content, nil
}
