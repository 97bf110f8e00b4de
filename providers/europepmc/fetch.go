package europepmc

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
)

// DefaultBaseURL ist der REST-Suchendpunkt von Europe PMC.
const DefaultBaseURL = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

// Fetcher implementiert das Provider-Interface für Europe PMC.
type Fetcher struct {
	BaseURL    string
	PageSize   int
	MaxRetries int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

var _ providers.Provider[models.Paper] = (*Fetcher)(nil)

// NewFetcher erstellt einen neuen Europe PMC Fetcher.
func NewFetcher(baseURL string, logger *zap.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		BaseURL:    baseURL,
		PageSize:   25,
		MaxRetries: 2,
		HTTPClient: httputil.NewClient(60 * time.Second),
		Logger:     logger,
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "europepmc"
}

// Discover führt die Suche auf Europe PMC aus und bildet die Treffer auf Paper ab.
func (f *Fetcher) Discover(ctx context.Context, query string) ([]models.Paper, error) {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("query", query))
	log.Info("Starte Suche auf Europe PMC.")

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")
	params.Set("resultType", "core")
	params.Set("pageSize", fmt.Sprint(f.PageSize))
	searchURL := f.BaseURL + "?" + params.Encode()
	log.Debug("Rufe Europe PMC API auf", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httputil.DoWithRetry(ctx, f.HTTPClient, req, f.MaxRetries, log)
	if err != nil {
		return nil, fmt.Errorf("europe pmc anfrage fehlgeschlagen: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("europe pmc antwortete mit status %d", resp.StatusCode)
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		return nil, fmt.Errorf("europe pmc antwort nicht lesbar: %w", err)
	}

	found := time.Now()
	papers := make([]models.Paper, 0, len(searchResponse.ResultList.Result))
	for _, article := range searchResponse.ResultList.Result {
		if strings.TrimSpace(article.Title) == "" {
			continue
		}
		papers = append(papers, mapArticleToModel(&article, query, found))
	}

	log.Info("Suche auf Europe PMC abgeschlossen", zap.Int("found_papers", len(papers)))
	return papers, nil
}

// mapArticleToModel konvertiert ein Europe PMC Article-Objekt in unser internes Paper-Modell.
func mapArticleToModel(article *Article, query string, found time.Time) models.Paper {
	paper := models.Paper{
		Title:      strings.TrimSuffix(strings.TrimSpace(article.Title), "."),
		Source:     models.Ptr("Europe PMC"),
		SearchTerm: models.Ptr(query),
		FoundAt:    &found,
	}
	if article.AuthorString != "" {
		for _, a := range strings.Split(strings.TrimSuffix(article.AuthorString, "."), ",") {
			if a = strings.TrimSpace(a); a != "" {
				paper.Authors = append(paper.Authors, a)
			}
		}
	}
	if article.AbstractText != "" {
		paper.Abstract = models.Ptr(article.AbstractText)
	}
	if article.DOI != "" {
		paper.DOI = models.Ptr(article.DOI)
	}
	if d := parseEuroDate(article.FirstPublicationDate); d != nil {
		paper.PublishedDate = models.Ptr(d.Format("2006-01-02"))
	}
	if article.JournalTitle != "" {
		paper.Conference = models.Ptr(article.JournalTitle)
	}

	// Bevorzugt den Open-Access-PDF-Link, sonst die Europe-PMC-Seite.
	for _, u := range article.FullTextURLList.FullTextURL {
		if u.DocumentStyle == "pdf" && u.AvailabilityCode == "OA" {
			paper.URL = models.Ptr(u.URL)
			break
		}
	}
	if paper.URL == nil && article.ID != "" {
		src := article.Source
		if src == "" {
			src = "MED"
		}
		paper.URL = models.Ptr(fmt.Sprintf("https://europepmc.org/article/%s/%s", src, article.ID))
	}

	for _, pubType := range article.PubTypeList.PubType {
		if strings.EqualFold(pubType, "preprint") {
			paper.Extra = models.Extra{"publicationType": json.RawMessage(`"Preprint"`)}
			break
		}
	}
	return paper
}
