package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seo-intel/backend/analyzer"
	"github.com/seo-intel/backend/config"
	"github.com/seo-intel/backend/content"
	"github.com/seo-intel/backend/history"
	"github.com/seo-intel/backend/keyword"
	"github.com/seo-intel/backend/links"
	"github.com/seo-intel/backend/logging"
	"github.com/seo-intel/backend/metrics"
	"github.com/seo-intel/backend/middleware"
	"github.com/seo-intel/backend/stats"
)

var (
	resolver      *keyword.Resolver
	contentEngine *analyzer.Engine
	linkEngine    *links.Engine
)

func main() {
	cfg := config.Load()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	statsStorage, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to initialize stats storage: ", err)
	}
	defer statsStorage.Shutdown()

	// Collaborators are optional; a missing one just disables its
	// resolution stage.
	var serp keyword.SERPSearcher
	if cfg.SERPConfigured() {
		serp = keyword.NewSERPClient(cfg.SERPEndpoint, cfg.SERPAPIKey, cfg.SERPMarket, cfg.SERPLanguage)
	} else {
		log.Println("No search provider configured, external resolution stage disabled")
	}

	var historyProvider keyword.HistoryProvider
	if cfg.DatabaseURL != "" {
		store, err := history.NewStore(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Println("Ranking history unavailable, internal resolution stage disabled: ", err)
		} else {
			defer store.Close()
			historyProvider = store
		}
	}

	resolver = keyword.NewResolver(serp, historyProvider, logger, statsStorage)
	contentEngine = analyzer.New(logger, statsStorage)
	linkEngine = links.New(logger, statsStorage)

	metrics.Init()
	requestStats := logging.Initialize()
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := gin.Default()

	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RequestID())
	r.Use(rateLimiter.RateLimit())
	r.Use(middleware.Stats(requestStats))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

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

		api.POST("/keywords/resolve", resolveKeyword)

		api.POST("/content/optimize", optimizeContent)
		api.POST("/content/structure", analyzeStructure)

		api.POST("/links/opportunities", linkOpportunities)
		api.POST("/links/distribution", linkDistribution)
		api.POST("/links/broken", brokenLinks)
		api.POST("/links/anchor", anchorText)

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, requestStats.GetStatistics())
		})
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func resolveKeyword(c *gin.Context) {
	var request keyword.Query
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A keyword is required"})
		return
	}
	c.Set("keyword", request.Keyword)

	start := time.Now()
	result := resolver.Resolve(c.Request.Context(), request)
	metrics.RecordResolution(string(result.Source), string(result.Confidence))
	metrics.ObserveRequest("resolve", time.Since(start).Seconds())

	c.JSON(http.StatusOK, result)
}

func optimizeContent(c *gin.Context) {
	var request struct {
		Content          string   `json:"content" binding:"required"`
		Keyword          string   `json:"keyword"`
		ReadabilityScore *float64 `json:"readabilityScore"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}
	c.Set("keyword", request.Keyword)

	start := time.Now()
	report := contentEngine.Optimize(content.NewDocument(request.Content), analyzer.Options{
		Keyword:          request.Keyword,
		ReadabilityScore: request.ReadabilityScore,
	})
	for _, s := range report.Suggestions {
		metrics.RecordSuggestion(string(s.Category))
	}
	metrics.ObserveRequest("optimize", time.Since(start).Seconds())

	c.JSON(http.StatusOK, report)
}

func analyzeStructure(c *gin.Context) {
	var request struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	start := time.Now()
	report := contentEngine.AnalyzeStructure(content.NewDocument(request.Content))
	metrics.ObserveRequest("structure", time.Since(start).Seconds())

	c.JSON(http.StatusOK, report)
}

func linkOpportunities(c *gin.Context) {
	var request struct {
		Content    string            `json:"content" binding:"required"`
		Candidates []links.Candidate `json:"candidates"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	start := time.Now()
	opportunities := linkEngine.FindOpportunities(content.NewDocument(request.Content), request.Candidates)
	metrics.ObserveRequest("opportunities", time.Since(start).Seconds())

	c.JSON(http.StatusOK, gin.H{"opportunities": opportunities})
}

func linkDistribution(c *gin.Context) {
	var request struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	start := time.Now()
	report := linkEngine.AnalyzeDistribution(content.NewDocument(request.Content))
	metrics.ObserveRequest("distribution", time.Since(start).Seconds())

	c.JSON(http.StatusOK, report)
}

func brokenLinks(c *gin.Context) {
	var request struct {
		Content     string             `json:"content" binding:"required"`
		BlockedURLs []links.BlockedURL `json:"blockedUrls"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	start := time.Now()
	broken := linkEngine.DetectBroken(content.NewDocument(request.Content), request.BlockedURLs)
	metrics.ObserveRequest("broken", time.Since(start).Seconds())

	c.JSON(http.StatusOK, gin.H{"brokenLinks": broken})
}

func anchorText(c *gin.Context) {
	var request struct {
		Text string `json:"text" binding:"required"`
		URL  string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Anchor text and URL are required"})
		return
	}

	report := linkEngine.AnalyzeAnchorText(request.Text, request.URL)

	c.JSON(http.StatusOK, report)
}
