package main

import (
	"context"
	"net/http"

	"handscout/app"
	"handscout/models"
	"handscout/services"
	"handscout/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// corsMiddleware erlaubt Zugriffe des Frontends von beliebigen Origins.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setupMetricsRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// serveCollection gibt die gespeicherte Sammlung aus. Eine fehlende Sammlung ist ein leeres Array.
func serveCollection[T any](coll *storage.Collection[T], log *zap.Logger, errMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if coll == nil {
			c.JSON(http.StatusOK, []T{})
			return
		}
		records, err := coll.Read(c.Request.Context())
		if err != nil {
			log.Error(errMsg, zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": errMsg})
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func setupCollectionRoutes(router *gin.Engine, a *app.App, log *zap.Logger) {
	var hardware *storage.Collection[models.Hardware]
	if a.Hardware != nil {
		hardware = a.Hardware.Collection
	}
	var papers *storage.Collection[models.Paper]
	if a.Papers != nil {
		papers = a.Papers.Collection
	}

	rg := router.Group("/api")
	rg.GET("/hardware", serveCollection(hardware, log, "Failed to read hardware data"))
	rg.GET("/papers", serveCollection(papers, log, "Failed to read papers data"))
	rg.GET("/papers/bibliography", func(c *gin.Context) {
		if papers == nil {
			c.JSON(http.StatusOK, []services.Reference{})
			return
		}
		records, err := papers.Read(c.Request.Context())
		if err != nil {
			log.Error("Failed to read papers data", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read papers data"})
			return
		}
		c.JSON(http.StatusOK, services.BuildBibliography(records, c.Query("category")))
	})
}

// cycleRunner ist der Teil des RefreshService, den die Update-Route braucht.
type cycleRunner interface {
	RunCycle(ctx context.Context, trigger string) services.CycleReport
}

func setupUpdateRoutes(router *gin.Engine, refresh cycleRunner, log *zap.Logger) {
	router.GET("/api/update", func(c *gin.Context) {
		log.Info("Manual update triggered...")
		// ein abgebrochener Client bricht den Zyklus nicht ab
		report := refresh.RunCycle(context.WithoutCancel(c.Request.Context()), services.TriggerHTTP)
		if err := report.Err(); err != nil {
			log.Error("Error during manual update", zap.String("cycle_id", report.CycleID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Update completed successfully",
			"cycleId": report.CycleID,
			"domains": report.Domains,
		})
	})
}

type statsSource interface {
	Stats(ctx context.Context) (map[string]services.DomainStats, error)
}

func setupStatsRoutes(router *gin.Engine, stats statsSource, log *zap.Logger) {
	router.GET("/api/stats", func(c *gin.Context) {
		out, err := stats.Stats(c.Request.Context())
		if err != nil {
			log.Error("Failed to compute stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
		c.JSON(http.StatusOK, out)
	})
}
