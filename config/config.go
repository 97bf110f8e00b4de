package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort       string `envconfig:"HTTP_PORT" default:"3001"`
	CronSchedule   string `envconfig:"CRON_SCHEDULE" default:"0 * * * *"`
	RunOnStartup   bool   `envconfig:"RUN_ON_STARTUP" default:"true"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`

	// Domains und Provider
	EnabledDomains   string `envconfig:"ENABLED_DOMAINS" default:"hardware,papers"`
	EnabledProviders string `envconfig:"ENABLED_PROVIDERS" default:"model,news,vendor,scholar,arxiv,ieee"`

	// Modell-Backend. Ohne Credential läuft nur der synthetische Generator.
	ModelBackend    string        `envconfig:"MODEL_BACKEND" default:"qwen"`
	QwenAPIKey      string        `envconfig:"QWEN_API_KEY"`
	QwenAPIURL      string        `envconfig:"QWEN_API_URL" default:"https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"`
	QwenModel       string        `envconfig:"QWEN_MODEL" default:"qwen-turbo"`
	GeminiAPIKey    string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	ModelTimeout    time.Duration `envconfig:"MODEL_TIMEOUT" default:"60s"`
	ModelMaxRetries int           `envconfig:"MODEL_MAX_RETRIES" default:"2"`

	// Simulierte Quellen
	SimSeed     uint64 `envconfig:"SIM_SEED" default:"0"`
	SourcesFile string `envconfig:"SOURCES_FILE"`

	// Literaturdatenbanken
	EuropePMCBaseURL string `envconfig:"EUROPEPMC_BASE_URL" default:"https://www.ebi.ac.uk/europepmc/webservices/rest/search"`
	PubMedBaseURL    string `envconfig:"PUBMED_BASE_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils"`
	PubMedAPIKey     string `envconfig:"PUBMED_API_KEY"`
	PubMedMaxResults int    `envconfig:"PUBMED_MAX_RESULTS" default:"20"`
	UnpaywallBaseURL string `envconfig:"UNPAYWALL_BASE_URL" default:"https://api.unpaywall.org/v2"`
	UnpaywallEmail   string `envconfig:"UNPAYWALL_EMAIL"`

	// Persistenz
	StoreBackend string `envconfig:"STORE_BACKEND" default:"file"`
	DataDir      string `envconfig:"DATA_DIR" default:"data"`

	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION"`
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"handscout"`

	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Domains liefert die aktivierten Domains.
func (c *Config) Domains() []string { return splitList(c.EnabledDomains) }

// Providers liefert die aktivierten Provider.
func (c *Config) Providers() []string { return splitList(c.EnabledProviders) }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate prüft die backend-abhängigen Pflichtfelder.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case "file":
		if c.DataDir == "" {
			errs = append(errs, errors.New("DATA_DIR darf nicht leer sein"))
		}
	case "s3":
		for name, v := range map[string]string{
			"S3_KEY": c.S3Key, "S3_SECRET": c.S3Secret, "S3_URL": c.S3URL,
			"S3_REGION": c.S3Region, "S3_BUCKET": c.S3Bucket,
		} {
			if v == "" {
				errs = append(errs, fmt.Errorf("%s ist für STORE_BACKEND=s3 erforderlich", name))
			}
		}
	case "postgres":
		for name, v := range map[string]string{
			"DB_HOST": c.DBHost, "DB_USER": c.DBUser, "DB_NAME": c.DBName,
		} {
			if v == "" {
				errs = append(errs, fmt.Errorf("%s ist für STORE_BACKEND=postgres erforderlich", name))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unbekanntes STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.ModelBackend {
	case "qwen", "gemini":
	default:
		errs = append(errs, fmt.Errorf("unbekanntes MODEL_BACKEND %q", c.ModelBackend))
	}

	if len(c.Domains()) == 0 {
		errs = append(errs, errors.New("ENABLED_DOMAINS ist leer"))
	}
	return errors.Join(errs...)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, c.Validate()
}
