package api

import (
	"context"
	"time"

	"github.com/country-pulse/country-pulse/app/database"
	"github.com/country-pulse/country-pulse/app/refresh"
)

// RefreshRunner triggers one refresh cycle
type RefreshRunner interface {
	Run(ctx context.Context) error
}

var _ RefreshRunner = (*refresh.Pipeline)(nil)

type Handler struct {
	repo              database.CountryRepository
	pipeline          RefreshRunner
	imagePath         string
	imageFallbackPath string
}

// Country is the JSON representation served by the API. Optional fields
// serialize as null.
type Country struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Capital         *string  `json:"capital"`
	Region          *string  `json:"region"`
	Population      int64    `json:"population"`
	CurrencyCode    *string  `json:"currency_code"`
	ExchangeRate    *float64 `json:"exchange_rate"`
	EstimatedGDP    *float64 `json:"estimated_gdp"`
	FlagURL         *string  `json:"flag_url"`
	LastRefreshedAt string   `json:"last_refreshed_at"`
}

func toAPICountry(c database.Country) Country {
	return Country{
		ID:              c.ID,
		Name:            c.Name,
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    c.ExchangeRate,
		EstimatedGDP:    c.EstimatedGDP,
		FlagURL:         c.FlagURL,
		LastRefreshedAt: c.LastRefreshedAt.UTC().Format(time.RFC3339),
	}
}
