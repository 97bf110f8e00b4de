// Package app baut alle Abhängigkeiten einmalig aus der Konfiguration auf. Server und CLIs
// teilen sich diese Verdrahtung.
package app

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"handscout/config"
	"handscout/httputil"
	"handscout/models"
	"handscout/providers"
	"handscout/providers/discovery"
	"handscout/providers/europepmc"
	"handscout/providers/model"
	"handscout/providers/pubmed"
	"handscout/providers/simulated"
	"handscout/providers/unpaywall"
	"handscout/services"
	"handscout/storage"

	"go.uber.org/zap"
)

// Suchanfragen je Domain, an die Provider weitergereicht.
const (
	HardwareQuery = "dexterous robotic hand"
	PaperQuery    = "dexterous hand manipulation"
)

// App enthält die verdrahteten Komponenten.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    storage.Store
	Model    *model.Client
	Hardware *services.Pipeline[models.Hardware]
	Papers   *services.Pipeline[models.Paper]
	Refresh  *services.RefreshService
}

// NewLogger erstellt den Logger gemäß LOG_DEVELOPMENT.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewStore wählt das Persistenz-Backend.
func NewStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case "file":
		return storage.NewFileStore(cfg.DataDir), nil
	case "s3":
		client, err := storage.NewS3Client(cfg)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return storage.NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix), nil
	case "postgres":
		db, err := storage.OpenPostgres(cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return storage.NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unbekanntes STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// NewModelClient wählt das Modell-Backend. Ohne Credential bleibt das Backend leer und der
// Client liefert nur synthetische Daten.
func NewModelClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*model.Client, error) {
	log := logger.With(zap.String("component", "model"))
	var backend model.Backend
	switch cfg.ModelBackend {
	case "qwen":
		if cfg.QwenAPIKey != "" {
			backend = model.NewQwenBackend(cfg.QwenAPIKey, cfg.QwenAPIURL, cfg.QwenModel,
				httputilClient(cfg), cfg.ModelMaxRetries, log)
		}
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			g, err := model.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
			if err != nil {
				return nil, err
			}
			backend = &timeoutBackend{Backend: g, timeout: cfg.ModelTimeout}
		}
	default:
		return nil, fmt.Errorf("unbekanntes MODEL_BACKEND %q", cfg.ModelBackend)
	}
	if backend == nil {
		log.Warn("Kein API-Key konfiguriert, verwende nur synthetische Daten", zap.String("backend", cfg.ModelBackend))
	}
	return model.NewClient(backend, model.NewSynthetic(), log), nil
}

// New verdrahtet alle Komponenten.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithStore(ctx, cfg, logger, store)
}

// NewWithStore verdrahtet alle Komponenten mit einem vorgegebenen Store.
func NewWithStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, store storage.Store) (*App, error) {
	client, err := NewModelClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	catalog, err := simulated.LoadCatalog(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}
	dice := simulated.NewDice(cfg.SimSeed)
	enabled := cfg.Providers()

	var hwProviders []providers.Provider[models.Hardware]
	var paperProviders []providers.Provider[models.Paper]
	for _, name := range enabled {
		switch name {
		case "model":
			hwProviders = append(hwProviders, discovery.NewHardwareProvider(client, logger))
			paperProviders = append(paperProviders, discovery.NewPaperProvider(client, logger))
		case "news":
			hwProviders = append(hwProviders, simulated.NewNewsScanner(dice, catalog, logger))
		case "vendor":
			hwProviders = append(hwProviders, simulated.NewVendorScanner(dice, catalog, logger))
		case "scholar":
			hwProviders = append(hwProviders, simulated.NewScholarScanner(dice, catalog, logger))
		case "arxiv":
			paperProviders = append(paperProviders, simulated.NewArxivScanner(dice, catalog, logger))
		case "ieee":
			paperProviders = append(paperProviders, simulated.NewIEEEScanner(dice, catalog, logger))
		case "europepmc":
			paperProviders = append(paperProviders, withUnpaywall(cfg, europepmc.NewFetcher(cfg.EuropePMCBaseURL, logger), logger))
		case "pubmed":
			paperProviders = append(paperProviders, withUnpaywall(cfg, pubmed.NewFetcher(cfg.PubMedBaseURL, cfg.PubMedAPIKey, cfg.PubMedMaxResults, logger), logger))
		default:
			logger.Warn("Unknown provider in config", zap.String("provider_name", name))
		}
	}

	a := &App{Config: cfg, Logger: logger, Store: store, Model: client}
	var domains []services.DomainRunner
	for _, domain := range cfg.Domains() {
		switch domain {
		case models.DomainHardware:
			a.Hardware = services.NewPipeline(domain, HardwareQuery, hwProviders,
				storage.NewCollection[models.Hardware](store, domain, logger), logger)
			domains = append(domains, a.Hardware)
		case models.DomainPapers:
			a.Papers = services.NewPipeline(domain, PaperQuery, paperProviders,
				storage.NewCollection[models.Paper](store, domain, logger), logger)
			domains = append(domains, a.Papers)
		default:
			return nil, fmt.Errorf("unbekannte domain %q", domain)
		}
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("keine domain aktiviert")
	}

	a.Refresh = services.NewRefreshService(domains, logger)
	logger.Info("Active providers loaded",
		zap.Strings("providers", enabled),
		zap.Strings("domains", cfg.Domains()),
		zap.Bool("model_credential", client.Backend != nil))
	return a, nil
}

// EnsureCollections legt leere Snapshots für alle aktivierten Domains an.
func (a *App) EnsureCollections(ctx context.Context) error {
	for _, d := range a.Refresh.Domains {
		if err := a.Store.Ensure(ctx, d.Name()); err != nil {
			return fmt.Errorf("%s anlegen: %w", d.Name(), err)
		}
	}
	return nil
}

// DomainEnabled meldet, ob eine Domain verdrahtet ist.
func (a *App) DomainEnabled(domain string) bool {
	return slices.ContainsFunc(a.Refresh.Domains, func(d services.DomainRunner) bool {
		return d.Name() == domain
	})
}

// withUnpaywall ergänzt Literatur-Provider um Open-Access-Links, sobald UNPAYWALL_EMAIL gesetzt ist.
func withUnpaywall(cfg *config.Config, p providers.Provider[models.Paper], logger *zap.Logger) providers.Provider[models.Paper] {
	if cfg.UnpaywallEmail == "" {
		return p
	}
	return unpaywall.Enrich(p, unpaywall.NewFetcher(cfg.UnpaywallBaseURL, cfg.UnpaywallEmail, logger))
}

func httputilClient(cfg *config.Config) *http.Client {
	return httputil.NewClient(cfg.ModelTimeout)
}

// timeoutBackend begrenzt jeden Aufruf auf MODEL_TIMEOUT.
type timeoutBackend struct {
	model.Backend
	timeout time.Duration
}

func (t *timeoutBackend) Complete(ctx context.Context, prompt string) (string, error) {
	if t.timeout <= 0 {
		return t.Backend.Complete(ctx, prompt)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Backend.Complete(ctx, prompt)
}
