package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv entfernt Variablen für die Dauer des Tests.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var allKeys = []string{
	"HTTP_PORT", "CRON_SCHEDULE", "RUN_ON_STARTUP", "ENABLED_DOMAINS", "ENABLED_PROVIDERS",
	"MODEL_BACKEND", "QWEN_API_KEY", "MODEL_TIMEOUT", "SIM_SEED", "STORE_BACKEND", "DATA_DIR",
	"PUBMED_MAX_RESULTS", "UNPAYWALL_EMAIL",
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, allKeys...)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.HTTPPort)
	assert.Equal(t, "0 * * * *", cfg.CronSchedule)
	assert.True(t, cfg.RunOnStartup)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, 60*time.Second, cfg.ModelTimeout)
	assert.Equal(t, []string{"hardware", "papers"}, cfg.Domains())
	assert.Equal(t, []string{"model", "news", "vendor", "scholar", "arxiv", "ieee"}, cfg.Providers())
	assert.Empty(t, cfg.QwenAPIKey)
	assert.Equal(t, 20, cfg.PubMedMaxResults)
	assert.Empty(t, cfg.UnpaywallEmail)
}

func TestLoad_Overrides(t *testing.T) {
	unsetEnv(t, allKeys...)
	t.Setenv("ENABLED_PROVIDERS", " Model , europepmc,")
	t.Setenv("MODEL_TIMEOUT", "5s")
	t.Setenv("SIM_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "europepmc"}, cfg.Providers())
	assert.Equal(t, 5*time.Second, cfg.ModelTimeout)
	assert.Equal(t, uint64(42), cfg.SimSeed)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{StoreBackend: "file", DataDir: "data", ModelBackend: "qwen", EnabledDomains: "hardware"}
	}

	c := base()
	assert.NoError(t, c.Validate())

	c = base()
	c.StoreBackend = "s3"
	c.S3Key = "k"
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
	assert.NotContains(t, err.Error(), "S3_KEY")

	c = base()
	c.StoreBackend = "postgres"
	assert.ErrorContains(t, c.Validate(), "DB_HOST")

	c = base()
	c.ModelBackend = "gpt"
	assert.ErrorContains(t, c.Validate(), "MODEL_BACKEND")

	c = base()
	c.StoreBackend = "ftp"
	assert.ErrorContains(t, c.Validate(), "STORE_BACKEND")

	c = base()
	c.EnabledDomains = " , "
	assert.ErrorContains(t, c.Validate(), "ENABLED_DOMAINS")
}

func TestDSN(t *testing.T) {
	c := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: 5432}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", c.DSN())
}
