package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/country-pulse/country-pulse/app/database"
	"github.com/country-pulse/country-pulse/app/refresh"
)

func NewHandler(repo database.CountryRepository, pipeline RefreshRunner,
	imagePath, imageFallbackPath string) *Handler {
	return &Handler{
		repo:              repo,
		pipeline:          pipeline,
		imagePath:         imagePath,
		imageFallbackPath: imageFallbackPath,
	}
}

func (h *Handler) RefreshCountries(c *gin.Context) {
	err := h.pipeline.Run(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Countries refreshed successfully"})
		return
	}

	var upstreamErr *refresh.UpstreamError
	if errors.As(err, &upstreamErr) {
		slog.Error("Refresh failed, upstream unavailable", "source", upstreamErr.Source, "error", upstreamErr.Err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "External data source unavailable",
			"details": fmt.Sprintf("Could not fetch data from %s API", upstreamErr.Source),
		})
		return
	}

	var validationErr *refresh.ValidationError
	if errors.As(err, &validationErr) {
		slog.Error("Refresh failed, validation error",
			"country", validationErr.Country, "field", validationErr.Field, "message", validationErr.Message)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"country": validationErr.Country,
			"details": gin.H{validationErr.Field: validationErr.Message},
		})
		return
	}

	slog.Error("Refresh failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func (h *Handler) ListCountries(c *gin.Context) {
	opts := database.ListOptions{
		Region:       c.Query("region"),
		CurrencyCode: c.Query("currency"),
	}

	// Unknown sort values fall back to the default name ordering
	switch c.Query("sort") {
	case "gdp_desc":
		opts.Sort = database.SortGDPDesc
	case "gdp_asc":
		opts.Sort = database.SortGDPAsc
	}

	countries, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		slog.Error("Database error", "operation", "list_countries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	result := make([]Country, 0, len(countries))
	for _, country := range countries {
		result = append(result, toAPICountry(country))
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetCountry(c *gin.Context) {
	name := c.Param("name")

	country, err := h.repo.GetByName(c.Request.Context(), name)
	if err != nil {
		slog.Error("Database error", "operation", "get_country", "country", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if country == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
		return
	}

	c.JSON(http.StatusOK, toAPICountry(*country))
}

func (h *Handler) DeleteCountry(c *gin.Context) {
	name := c.Param("name")

	deleted, err := h.repo.DeleteByName(c.Request.Context(), name)
	if err != nil {
		slog.Error("Database error", "operation", "delete_country", "country", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetStatus(c *gin.Context) {
	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "count_countries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	lastRefreshed, err := h.repo.LastRefreshedAt(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "last_refreshed_at", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var lastRefreshedAt *string
	if lastRefreshed != nil {
		formatted := lastRefreshed.UTC().Format(time.RFC3339)
		lastRefreshedAt = &formatted
	}

	c.JSON(http.StatusOK, gin.H{
		"total_countries":   count,
		"last_refreshed_at": lastRefreshedAt,
	})
}

func (h *Handler) GetSummaryImage(c *gin.Context) {
	for _, path := range []string{h.imagePath, h.imageFallbackPath} {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.Header("Content-Type", "image/png")
			c.File(path)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Summary image not found"})
}
