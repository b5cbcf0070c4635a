package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/seo-insight/backend/analyzer"
	"github.com/seo-insight/backend/config"
	"github.com/seo-insight/backend/fetcher"
	"github.com/seo-insight/backend/logging"
	"github.com/seo-insight/backend/metrics"
	"github.com/seo-insight/backend/middleware"
	"github.com/seo-insight/backend/stats"
	"github.com/seo-insight/backend/storage"
)

const version = "1.2.0"

var (
	cfg         config.Config
	logger      *zap.Logger
	seoAnalyzer *analyzer.Analyzer
	reportStore *storage.Store
	statistics  *stats.Statistics
	appMetrics  *metrics.Metrics
	rateLimiter *middleware.RateLimiter
	startTime   = time.Now()
)

func loadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		// If .env.development doesn't exist, try regular .env
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func main() {
	// Load environment configuration
	loadEnv()

	var err error
	cfg, err = config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err = logging.New(cfg.Log)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	// Initialize services
	appMetrics = metrics.New()
	pageFetcher := fetcher.New(cfg.FetchTimeout(), cfg.UserAgent, cfg.MaxBodyBytes)

	seoAnalyzer, err = analyzer.New(analyzer.Config{
		Fetcher:      pageFetcher,
		Logger:       logger,
		Metrics:      appMetrics,
		DataDir:      cfg.DataDir,
		CacheTTL:     cfg.CacheTTL(),
		MaxCacheSize: cfg.MaxCacheEntries,
	})
	if err != nil {
		logger.Fatal("failed to initialize analyzer", zap.Error(err))
	}

	reportStore, err = storage.New(cfg.DataDir, cfg.MaxStoredReports)
	if err != nil {
		logger.Fatal("failed to initialize report store", zap.Error(err))
	}
	appMetrics.ReportsStored.Set(float64(reportStore.Count()))

	statistics, err = stats.NewStatistics(cfg.DataDir)
	if err != nil {
		logger.Fatal("failed to initialize statistics", zap.Error(err))
	}

	rateLimiter = middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// Initialize Gin router
	r := gin.New()

	// Add middlewares
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.CORS())
	r.Use(rateLimiter.RateLimit())
	r.Use(middleware.RequestLogger(logger, statistics))

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", healthCheck)
		api.POST("/analyze", analyzeURL)
		api.GET("/reports", recentReports)
		api.GET("/reports/lookup", lookupReport)
		api.GET("/statistics", statisticsHandler)
	}

	// Prometheus metrics
	r.GET("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if err := seoAnalyzer.Shutdown(); err != nil {
		logger.Error("analyzer shutdown failed", zap.Error(err))
	}
	if err := reportStore.Shutdown(); err != nil {
		logger.Error("report store shutdown failed", zap.Error(err))
	}
	if err := statistics.Save(); err != nil {
		logger.Error("failed to save statistics", zap.Error(err))
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version,
		"uptime":  time.Since(startTime).Round(time.Second).String(),
	})
}

func analyzeURL(c *gin.Context) {
	var request struct {
		URL string `json:"url" binding:"required,url"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}
	c.Set(middleware.AnalyzedURLKey, request.URL)

	report, err := seoAnalyzer.AnalyzeURL(c.Request.Context(), request.URL)
	if err != nil {
		var fetchErr *fetcher.FetchError
		var parseErr *analyzer.ParseError
		if errors.As(err, &fetchErr) || errors.As(err, &parseErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to analyze URL: " + err.Error(),
		})
		return
	}

	stored := reportStore.Save(report)
	appMetrics.ReportsStored.Set(float64(reportStore.Count()))

	c.JSON(http.StatusOK, stored)
}

func recentReports(c *gin.Context) {
	limit := cfg.RecentDefault
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reportStore.Recent(limit),
	})
}

func lookupReport(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing url parameter",
		})
		return
	}

	report, ok := reportStore.FindByURL(target)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No report stored for this URL",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

func statisticsHandler(c *gin.Context) {
	snapshot := statistics.Snapshot(cfg.DevMode)
	snapshot["cache"] = seoAnalyzer.CacheStats()
	snapshot["reportsStored"] = reportStore.Count()

	c.JSON(http.StatusOK, snapshot)
}
