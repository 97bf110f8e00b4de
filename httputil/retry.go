// Package httputil enthält HTTP-Helfer, die von mehreren Providern genutzt werden.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay ist die Basis für den exponentiellen Backoff. Tests setzen den Wert herunter.
var RetryBaseDelay = 2 * time.Second

// UserAgent wird von UserAgentTransport an jede Anfrage gehängt.
const UserAgent = "handscout/1.0 (+https://github.com/handscout)"

// UserAgentTransport fügt jeder Anfrage einen User-Agent-Header hinzu.
type UserAgentTransport struct {
	Transport http.RoundTripper
}

// RoundTrip setzt den Header auf einer Kopie der Anfrage.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", UserAgent)
	return base.RoundTrip(clone)
}

// NewClient baut einen http.Client mit User-Agent-Transport. timeout <= 0 heißt: kein Client-Timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &UserAgentTransport{Transport: http.DefaultTransport},
	}
}

// retryable meldet Statuscodes, bei denen ein erneuter Versuch sinnvoll ist.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry führt die Anfrage aus und wiederholt sie bei 429/503 bis zu maxRetries-mal mit
// exponentiellem Backoff (RetryBaseDelay, 2x, 4x, ...). Nach dem letzten Versuch wird die
// letzte Antwort unverändert zurückgegeben, damit der Aufrufer den Status auswerten kann.
// Ein Request-Body muss über GetBody wiederholbar sein (http.NewRequest setzt das für bytes.Reader).
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log *zap.Logger) (*http.Response, error) {
	if log == nil {
		log = zap.NewNop()
	}
	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		backoff := RetryBaseDelay << attempt
		log.Debug("Rate-Limit erreicht, neuer Versuch folgt",
			zap.Int("status", resp.StatusCode),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
