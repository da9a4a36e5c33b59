package api

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured. When
// staticDir holds a dashboard build (an index.html), it is served at
// the root; otherwise the root returns service information.
func NewServer(handler *Handler, staticDir string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, staticDir)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, staticDir string) {
	api := r.Group("/api")
	{
		api.GET("/articles", handler.GetArticles)
		api.GET("/articles/saved", handler.GetSavedArticles)
		api.POST("/articles/save", handler.SaveBookmark)
		api.DELETE("/articles/save/:id", handler.RemoveBookmark)
		api.POST("/scrape", handler.TriggerScrape)
		api.GET("/status", handler.GetStatus)
	}

	r.GET("/health", handler.GetHealth)

	indexFile := filepath.Join(staticDir, "index.html")
	if staticDir != "" && fileExists(indexFile) {
		r.StaticFile("/", indexFile)
		r.Static("/static", staticDir)
		slog.Info("Serving dashboard", "dir", staticDir)
	} else {
		r.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"service":     "NewsHub",
				"version":     handler.version,
				"description": "AI news aggregator with bookmarking and scheduled scraping",
				"endpoints": map[string]string{
					"articles": "/api/articles?source=<key>&saved=true",
					"saved":    "/api/articles/saved",
					"save":     "/api/articles/save (POST)",
					"remove":   "/api/articles/save/<id> (DELETE)",
					"scrape":   "/api/scrape?source=<key> (POST)",
					"status":   "/api/status",
					"health":   "/health",
				},
			})
		})
	}

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
