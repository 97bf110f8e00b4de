// Package unpaywall ergänzt Paper mit DOI um einen freien PDF-Link.
package unpaywall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"handscout/httputil"
	"handscout/models"
	"handscout/providers"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL ist der v2-Endpunkt der Unpaywall-API.
const DefaultBaseURL = "https://api.unpaywall.org/v2"

// PDFField ist der Zusatzschlüssel, unter dem der gefundene Link am Paper landet.
const PDFField = "openAccessPdf"

// Response repräsentiert die JSON-Antwort der Unpaywall-API.
type Response struct {
	BestOALocation *struct {
		URLForPDF string `json:"url_for_pdf"`
	} `json:"best_oa_location"`
}

// Fetcher kapselt die Logik für Unpaywall.
type Fetcher struct {
	BaseURL    string
	Email      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewFetcher erstellt einen neuen Unpaywall-Fetcher.
func NewFetcher(baseURL, email string, logger *zap.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Email:      email,
		HTTPClient: httputil.NewClient(30 * time.Second),
		Logger:     logger,
	}
}

// GetPDFLink holt einen freien PDF-Link via Unpaywall anhand der DOI. Ein leerer String ohne
// Fehler heißt: kein Open-Access-PDF bekannt.
func (f *Fetcher) GetPDFLink(ctx context.Context, doi string) (string, error) {
	if f.Email == "" {
		return "", fmt.Errorf("unpaywall email ist nicht konfiguriert")
	}

	reqURL := fmt.Sprintf("%s/%s?email=%s", f.BaseURL, doi, url.QueryEscape(f.Email))
	log := f.Logger.With(zap.String("doi", doi))
	log.Debug("Rufe Unpaywall API auf.")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unpaywall request failed with status: %d", resp.StatusCode)
	}

	var ur Response
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", err
	}
	if ur.BestOALocation != nil && ur.BestOALocation.URLForPDF != "" {
		log.Debug("PDF-Link über Unpaywall gefunden.")
		return ur.BestOALocation.URLForPDF, nil
	}
	return "", nil
}

// Enricher umhüllt einen Paper-Provider und hängt an jedes Paper mit DOI den freien PDF-Link.
// Fehler bei Unpaywall lassen das Paper unverändert.
type Enricher struct {
	Inner       providers.Provider[models.Paper]
	Fetcher     *Fetcher
	Concurrency int
}

var _ providers.Provider[models.Paper] = (*Enricher)(nil)

// Enrich erstellt einen Enricher um inner.
func Enrich(inner providers.Provider[models.Paper], fetcher *Fetcher) *Enricher {
	return &Enricher{Inner: inner, Fetcher: fetcher, Concurrency: 5}
}

// Name gibt den Namen des umhüllten Providers zurück.
func (e *Enricher) Name() string { return e.Inner.Name() }

// Discover ruft den umhüllten Provider auf und ergänzt danach die Links.
func (e *Enricher) Discover(ctx context.Context, query string) ([]models.Paper, error) {
	papers, err := e.Inner.Discover(ctx, query)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.Concurrency, 1))
	for i := range papers {
		if papers[i].DOI == nil || *papers[i].DOI == "" {
			continue
		}
		g.Go(func() error {
			link, err := e.Fetcher.GetPDFLink(gctx, *papers[i].DOI)
			if err != nil {
				e.Fetcher.Logger.Warn("Unpaywall-Abfrage fehlgeschlagen", zap.String("doi", *papers[i].DOI), zap.Error(err))
				return nil
			}
			if link == "" {
				return nil
			}
			raw, _ := json.Marshal(link)
			extra := make(models.Extra, len(papers[i].Extra)+1)
			for k, v := range papers[i].Extra {
				extra[k] = v
			}
			extra[PDFField] = raw
			papers[i].Extra = extra
			return nil
		})
	}
	_ = g.Wait()
	return papers, nil
}
