package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/country-pulse/country-pulse/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
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

	// CORS middleware
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

	setupRoutes(r, handler)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	r.POST("/countries/refresh", handler.RefreshCountries)
	r.GET("/countries", handler.ListCountries)
	r.GET("/countries/image", handler.GetSummaryImage)
	r.GET("/countries/:name", handler.GetCountry)
	r.DELETE("/countries/:name", handler.DeleteCountry)
	r.GET("/status", handler.GetStatus)

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "Country Pulse",
			"version":     cfg.GetVersion(),
			"description": "Country and exchange rate aggregator with estimated GDP figures",
			"endpoints": map[string]string{
				"refresh": "POST /countries/refresh",
				"list":    "GET /countries?region=<region>&currency=<code>&sort=gdp_desc|gdp_asc",
				"country": "GET /countries/<name>",
				"delete":  "DELETE /countries/<name>",
				"status":  "GET /status",
				"image":   "GET /countries/image",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
