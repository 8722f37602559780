package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/citelens/backend/engine"
	"github.com/citelens/backend/fetcher"
	"github.com/citelens/backend/learning"
	"github.com/citelens/backend/logging"
	"github.com/citelens/backend/metrics"
	"github.com/citelens/backend/middleware"
	"github.com/citelens/backend/stats"
	"github.com/citelens/backend/weights"
)

func loadEnv() {
	// Try .env.development first (local development), then the regular .env.
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

func main() {
	loadEnv()
	setupGinMode()

	logger := logging.NewJSONLogger("citelens", envOr("LOG_LEVEL", "info"))

	analysisMetrics := metrics.NewAnalysisMetrics("citelens")

	store, err := learning.OpenStore(envOr("DB_PATH", "data/citelens.db"), logger)
	if err != nil {
		log.Fatal("Failed to open learning store:", err)
	}
	defer store.Close()

	usage, err := stats.NewStorage(envOr("DATA_DIR", "data"))
	if err != nil {
		log.Fatal("Failed to initialize stats storage:", err)
	}
	defer usage.Shutdown()

	weightCache := weights.NewTTLCache()
	resolver := weights.NewResolver(store, weightCache,
		envSeconds("WEIGHT_CACHE_TTL_SECONDS", weights.DefaultTTL), logger)

	learner := learning.NewLearner(store, learning.NudgeStrategy{}, logger)

	analysisEngine := engine.New(resolver, store, analysisMetrics, learner, logger)

	pageFetcher := fetcher.New(logger,
		fetcher.WithTimeout(envSeconds("FETCH_TIMEOUT_SECONDS", 15*time.Second)),
		fetcher.WithRetryObserver(analysisMetrics),
	)

	rateLimiter := middleware.NewRateLimiter(2, 5) // 2 requests/s, bucket of 5

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorHandler(logger))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/analyze", rateLimiter.RateLimit(), func(c *gin.Context) {
			var request struct {
				URL       string             `json:"url" binding:"required,url"`
				Overrides map[string]float64 `json:"weightOverrides"`
			}
			if err := c.ShouldBindJSON(&request); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
				return
			}

			html, err := pageFetcher.Fetch(c.Request.Context(), request.URL)
			if err != nil {
				usage.RecordFetchFailure()
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch URL: " + err.Error()})
				return
			}

			result, err := analysisEngine.AnalyzeWithOverrides(c.Request.Context(), html, request.URL, request.Overrides)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze URL: " + err.Error()})
				return
			}

			usage.RecordAnalysis(result.Visibility.Score)
			c.JSON(http.StatusOK, result)
		})

		// Score markup the caller already has, skipping the fetch.
		api.POST("/analyze/html", rateLimiter.RateLimit(), func(c *gin.Context) {
			var request struct {
				HTML      string             `json:"html" binding:"required"`
				URL       string             `json:"url" binding:"required,url"`
				Overrides map[string]float64 `json:"weightOverrides"`
			}
			if err := c.ShouldBindJSON(&request); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "html and url are required"})
				return
			}

			result, err := analysisEngine.AnalyzeWithOverrides(c.Request.Context(), request.HTML, request.URL, request.Overrides)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze document: " + err.Error()})
				return
			}

			usage.RecordAnalysis(result.Visibility.Score)
			c.JSON(http.StatusOK, result)
		})

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, usage.GetCurrentStats())
		})

		api.GET("/weights/:rubric", func(c *gin.Context) {
			rubric := weights.RubricType(c.Param("rubric"))
			versions, err := store.Versions(c.Request.Context(), rubric)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load versions: " + err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"rubric": rubric, "versions": versions})
		})

		api.POST("/weights/:rubric", func(c *gin.Context) {
			rubric := weights.RubricType(c.Param("rubric"))
			var request struct {
				Weights     map[string]float64 `json:"weights" binding:"required"`
				Description string             `json:"description"`
			}
			if err := c.ShouldBindJSON(&request); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "weights map is required"})
				return
			}

			version, err := store.SaveVersion(c.Request.Context(), rubric, request.Weights, learning.VersionMetadata{
				Source:      "manual",
				Description: request.Description,
			})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save version: " + err.Error()})
				return
			}
			// Resolvers pick the new version up after the cache window.
			weightCache.Invalidate()
			c.JSON(http.StatusOK, version)
		})
	}

	r.GET("/metrics", gin.WrapH(analysisMetrics.Handler()))

	port := envOr("PORT", "8082")
	logger.Info("server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
