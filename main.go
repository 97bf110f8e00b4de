package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"handscout/app"
	"handscout/config"
	"handscout/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	cyclesCounter        *prometheus.CounterVec
	discoveredCounter    *prometheus.CounterVec
	collectionSize       *prometheus.GaugeVec
	persistFailures      *prometheus.CounterVec
	modelFallbackCounter *prometheus.CounterVec
)

func init() {
	cyclesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handscout_cycles_total",
			Help: "Total number of discovery cycles by trigger.",
		},
		[]string{"trigger"},
	)
	discoveredCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handscout_records_discovered_total",
			Help: "Total number of records returned by all providers.",
		},
		[]string{"domain"},
	)
	collectionSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "handscout_collection_size",
			Help: "Number of records in the persisted collection after the last cycle.",
		},
		[]string{"domain"},
	)
	persistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handscout_persist_failures_total",
			Help: "Total number of failed snapshot writes.",
		},
		[]string{"domain"},
	)
	modelFallbackCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handscout_model_fallbacks_total",
			Help: "Total number of model calls answered by synthetic data.",
		},
		[]string{"reason"},
	)
	prometheus.MustRegister(cyclesCounter, discoveredCounter, collectionSize, persistFailures, modelFallbackCounter)
}

// recordCycle überträgt einen Report in die Metriken.
func recordCycle(r services.CycleReport) {
	cyclesCounter.WithLabelValues(r.Trigger).Inc()
	for _, d := range r.Domains {
		discoveredCounter.WithLabelValues(d.Domain).Add(float64(d.Discovered))
		if d.Err != nil {
			persistFailures.WithLabelValues(d.Domain).Inc()
			continue
		}
		collectionSize.WithLabelValues(d.Domain).Set(float64(d.Total))
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load error: %v", err)
	}

	logging, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logging)
	if err != nil {
		logging.Fatal("Setup failed", zap.Error(err))
	}
	a.Model.OnFallback = func(reason string) { modelFallbackCounter.WithLabelValues(reason).Inc() }
	a.Refresh.OnCycle = recordCycle

	if err := a.EnsureCollections(ctx); err != nil {
		logging.Fatal("Failed to initialize collections", zap.Error(err))
	}

	if cfg.RunOnStartup {
		logging.Info("Performing initial data update...")
		a.Refresh.RunCycle(context.WithoutCancel(ctx), services.TriggerStartup)
	}

	scheduler, err := services.NewScheduler(cfg.CronSchedule, a.Refresh, logging)
	if err != nil {
		logging.Fatal("Invalid CRON_SCHEDULE", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := newRouter(a, logging)

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort), zap.String("schedule", cfg.CronSchedule))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      10 * time.Minute, // /api/update läuft synchron
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
	logging.Info("Server stopped")
}

// newRouter baut die gin-Engine mit allen Routen.
func newRouter(a *app.App, log *zap.Logger) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	setupMetricsRoutes(router)
	setupCollectionRoutes(router, a, log)
	setupUpdateRoutes(router, a.Refresh, log)
	setupStatsRoutes(router, a.Refresh, log)
	return router
}
