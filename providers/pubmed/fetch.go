package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"handscout/httputil"
	"handscout/models"
	"handscout/providers"

	"go.uber.org/zap"
)

// DefaultBaseURL ist die Basis der E-Utilities.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Fetcher ist eine Struktur, die die Logik zur Interaktion mit PubMed kapselt.
type Fetcher struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	MaxRetries int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

var _ providers.Provider[models.Paper] = (*Fetcher)(nil)

// NewFetcher erstellt eine neue Instanz des PubMed-Fetchers.
func NewFetcher(baseURL, apiKey string, maxResults int, logger *zap.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     apiKey,
		MaxResults: maxResults,
		MaxRetries: 2,
		HTTPClient: httputil.NewClient(60 * time.Second),
		Logger:     logger,
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "pubmed"
}

// Discover holt zuerst die PMIDs und dann die Metadaten aller Treffer in einem EFetch-Aufruf.
func (f *Fetcher) Discover(ctx context.Context, query string) ([]models.Paper, error) {
	log := f.Logger.With(zap.String("provider", f.Name()), zap.String("query", query))

	ids, err := f.searchIDs(ctx, query, log)
	if err != nil {
		return nil, fmt.Errorf("fehler bei der PubMed ID-Suche: %w", err)
	}
	if len(ids) == 0 {
		log.Info("PubMed ESearch ohne Treffer")
		return []models.Paper{}, nil
	}

	articles, err := f.fetchArticles(ctx, ids, log)
	if err != nil {
		return nil, fmt.Errorf("fehler beim PubMed EFetch: %w", err)
	}

	found := time.Now()
	papers := make([]models.Paper, 0, len(articles))
	for i := range articles {
		p := mapArticleToModel(&articles[i], query, found)
		if p.Title == "" {
			continue
		}
		papers = append(papers, p)
	}
	log.Info("PubMed-Suche abgeschlossen", zap.Int("ids", len(ids)), zap.Int("found_papers", len(papers)))
	return papers, nil
}

// searchIDs führt eine ESearch-Abfrage durch und gibt eine Liste von PMIDs zurück.
func (f *Fetcher) searchIDs(ctx context.Context, term string, log *zap.Logger) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmode", "json")
	params.Set("retmax", fmt.Sprint(f.MaxResults))
	params.Set("sort", "pub_date")
	f.withAPIKey(params)

	resp, err := f.get(ctx, f.BaseURL+"/esearch.fcgi?"+params.Encode(), log)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var esearchResp ESearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&esearchResp); err != nil {
		log.Error("Fehler beim Parsen der ESearch-JSON-Antwort", zap.Error(err))
		return nil, err
	}
	return esearchResp.ESearchResult.IdList, nil
}

// fetchArticles holt die Metadaten für alle PMIDs als XML.
func (f *Fetcher) fetchArticles(ctx context.Context, ids []string, log *zap.Logger) ([]PubmedArticle, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")
	f.withAPIKey(params)

	resp, err := f.get(ctx, f.BaseURL+"/efetch.fcgi?"+params.Encode(), log)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var articleSet PubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&articleSet); err != nil {
		return nil, err
	}
	return articleSet.PubmedArticle, nil
}

func (f *Fetcher) withAPIKey(params url.Values) {
	if f.APIKey != "" {
		params.Set("api_key", f.APIKey)
	}
}

func (f *Fetcher) get(ctx context.Context, rawURL string, log *zap.Logger) (*http.Response, error) {
	log.Debug("Rufe E-Utilities auf", zap.String("url", rawURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httputil.DoWithRetry(ctx, f.HTTPClient, req, f.MaxRetries, log)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("e-utilities antworteten mit status %d", resp.StatusCode)
	}
	return resp, nil
}

// mapArticleToModel wandelt ein XML-Article-Objekt in unser Paper-Modell um.
func mapArticleToModel(article *PubmedArticle, query string, found time.Time) models.Paper {
	citation := article.MedlineCitation
	p := models.Paper{
		Title:      strings.TrimSuffix(strings.TrimSpace(citation.Article.Title), "."),
		Source:     models.Ptr("PubMed"),
		SearchTerm: models.Ptr(query),
		FoundAt:    &found,
	}
	if citation.PMID != "" {
		p.URL = models.Ptr(fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", citation.PMID))
		p.Extra = models.Extra{"pmid": mustRaw(citation.PMID)}
	}
	if abstract := strings.TrimSpace(strings.Join(citation.Article.Abstract.Text, "\n")); abstract != "" {
		p.Abstract = &abstract
	}

	for _, author := range citation.Article.Authors {
		if name := strings.TrimSpace(author.Initials + " " + author.LastName); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}

	for _, id := range citation.Article.ELocationID {
		if id.IDType == "doi" && id.ValidYN == "Y" {
			p.DOI = models.Ptr(strings.TrimSpace(id.Value))
			break
		}
	}
	if journal := strings.TrimSpace(citation.Article.Journal.Title); journal != "" {
		p.Conference = &journal
	}

	if d, ok := pubDate(citation.Article.Journal.PubDate.Year, citation.Article.Journal.PubDate.Month, citation.Article.Journal.PubDate.Day); ok {
		p.PublishedDate = models.Ptr(d.Format("2006-01-02"))
	}
	return p
}

// pubDate setzt das Datum aus Jahr, Monat ("Jan" oder "1") und Tag zusammen. Fehlende Teile
// werden mit 1 aufgefüllt.
func pubDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m := time.January
	if month != "" {
		if parsed, err := time.Parse("Jan", month); err == nil {
			m = parsed.Month()
		} else if parsed, err := time.Parse("1", month); err == nil {
			m = parsed.Month()
		}
	}
	d := 1
	if n, err := strconv.Atoi(day); err == nil && n >= 1 && n <= 31 {
		d = n
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func mustRaw(s string) json.RawMessage {
	data, _ := json.Marshal(s)
	return data
}
