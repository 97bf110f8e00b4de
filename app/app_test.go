package app

import (
	"context"
	"testing"

	"handscout/config"
	"handscout/models"
	"handscout/providers/unpaywall"
	"handscout/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		EnabledDomains:   "hardware,papers",
		EnabledProviders: "model,news,vendor,scholar,arxiv,ieee",
		ModelBackend:     "qwen",
		StoreBackend:     "file",
		DataDir:          t.TempDir(),
		SimSeed:          7,
	}
}

func TestApp_FallbackOnlyCycles(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, a.Model.Backend)
	require.NoError(t, a.EnsureCollections(ctx))

	for i := 0; i < 3; i++ {
		report := a.Refresh.RunCycle(ctx, "test")
		require.NoError(t, report.Err())
	}

	hardware, err := a.Hardware.Collection.Read(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(hardware), 5)
	assert.LessOrEqual(t, len(hardware), 14)

	allegro := 0
	for _, h := range hardware {
		if models.SameKey(h.Name, "Allegro Hand") {
			allegro++
			assert.Equal(t, "allegro-hand", h.ID)
		}
	}
	assert.Equal(t, 1, allegro)

	papers, err := a.Papers.Collection.Read(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(papers), 5)
	seen := map[string]bool{}
	for _, p := range papers {
		key := models.IdentityKey(p.Title)
		assert.False(t, seen[key], "duplicate paper %q", p.Title)
		seen[key] = true
	}
}

func TestApp_SingleDomainAndProviderSelection(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnabledDomains = "papers"
	cfg.EnabledProviders = "arxiv,bogus"

	a, err := NewWithStore(context.Background(), cfg, zap.NewNop(), storage.NewFileStore(cfg.DataDir))
	require.NoError(t, err)

	assert.Nil(t, a.Hardware)
	require.NotNil(t, a.Papers)
	require.Len(t, a.Papers.Providers, 1)
	assert.Equal(t, "arxiv", a.Papers.Providers[0].Name())
	assert.True(t, a.DomainEnabled(models.DomainPapers))
	assert.False(t, a.DomainEnabled(models.DomainHardware))
}

func TestApp_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnabledDomains = "robots"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.StoreBackend = "ftp"
	_, err = NewStore(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.ModelBackend = "gpt"
	_, err = NewModelClient(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewModelClient_QwenWithKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.QwenAPIKey = "secret"
	c, err := NewModelClient(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, c.Backend)
	assert.Equal(t, "qwen", c.Backend.Name())
}

func TestApp_LiteratureProvidersWithUnpaywall(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnabledDomains = "papers"
	cfg.EnabledProviders = "europepmc,pubmed"

	a, err := NewWithStore(context.Background(), cfg, zap.NewNop(), storage.NewFileStore(cfg.DataDir))
	require.NoError(t, err)
	require.Len(t, a.Papers.Providers, 2)
	_, wrapped := a.Papers.Providers[0].(*unpaywall.Enricher)
	assert.False(t, wrapped)

	cfg.UnpaywallEmail = "bot@example.org"
	a, err = NewWithStore(context.Background(), cfg, zap.NewNop(), storage.NewFileStore(cfg.DataDir))
	require.NoError(t, err)
	require.Len(t, a.Papers.Providers, 2)
	for i, name := range []string{"europepmc", "pubmed"} {
		_, wrapped := a.Papers.Providers[i].(*unpaywall.Enricher)
		assert.True(t, wrapped)
		assert.Equal(t, name, a.Papers.Providers[i].Name())
	}
}
