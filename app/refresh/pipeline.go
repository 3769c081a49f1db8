package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/country-pulse/country-pulse/app/database"
	"github.com/country-pulse/country-pulse/app/gdp"
	"github.com/country-pulse/country-pulse/app/upstream"
)

const topCountriesForSummary = 5

// DataSource provides the raw upstream data for a refresh cycle
type DataSource interface {
	FetchCountries(ctx context.Context) ([]upstream.Country, error)
	FetchRates(ctx context.Context) (map[string]float64, error)
}

var _ DataSource = (*upstream.Client)(nil)

// SummaryRenderer persists the post-refresh summary image
type SummaryRenderer interface {
	Run(totalCountries int, top []database.Country, asOf time.Time) error
}

// Pipeline runs one refresh cycle: fetch both upstreams, merge by currency
// code, derive GDP, validate, atomically replace the countries table, then
// render the summary image from the committed state.
type Pipeline struct {
	source   DataSource
	repo     database.CountryRepository
	renderer SummaryRenderer
}

func NewPipeline(source DataSource, repo database.CountryRepository, renderer SummaryRenderer) *Pipeline {
	return &Pipeline{
		source:   source,
		repo:     repo,
		renderer: renderer,
	}
}

func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()

	rawCountries, err := p.source.FetchCountries(ctx)
	if err != nil {
		return &UpstreamError{Source: SourceCountries, Err: err}
	}

	rates, err := p.source.FetchRates(ctx)
	if err != nil {
		return &UpstreamError{Source: SourceRates, Err: err}
	}

	// Every row written in this cycle carries the same timestamp
	now := time.Now().UTC()

	candidates := make([]database.Country, 0, len(rawCountries))
	for _, raw := range rawCountries {
		candidate := buildCandidate(raw, rates, now)

		if err := validate(candidate); err != nil {
			return err
		}

		candidates = append(candidates, candidate)
	}

	if err := p.repo.ReplaceAll(ctx, candidates); err != nil {
		return fmt.Errorf("failed to replace countries: %w", err)
	}

	// Aggregates are read back from the committed state so the image
	// reflects what readers now see
	total, err := p.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}

	top, err := p.repo.TopByGDP(ctx, topCountriesForSummary)
	if err != nil {
		return fmt.Errorf("failed to get top countries: %w", err)
	}

	// The data commit stands even if rendering fails
	if err := p.renderer.Run(total, top, now); err != nil {
		slog.Warn("Summary image rendering failed", "error", err)
	}

	slog.Info("Refresh cycle completed",
		"duration", time.Since(started),
		"countries", total,
		"rates", len(rates))

	return nil
}

func buildCandidate(raw upstream.Country, rates map[string]float64, now time.Time) database.Country {
	candidate := database.Country{
		Name:            strings.TrimSpace(raw.Name),
		Capital:         optional(raw.Capital),
		Region:          optional(raw.Region),
		Population:      raw.Population,
		FlagURL:         optional(raw.Flag),
		LastRefreshedAt: now,
	}

	// First listed currency wins; countries without currencies stay nil
	if len(raw.Currencies) > 0 {
		candidate.CurrencyCode = optional(raw.Currencies[0].Code)
	}

	// Only positive rates are usable; anything else counts as no match
	if candidate.CurrencyCode != nil {
		if rate, ok := rates[*candidate.CurrencyCode]; ok && rate > 0 {
			candidate.ExchangeRate = &rate
		}
	}

	candidate.EstimatedGDP = gdp.Estimate(candidate.Population, candidate.CurrencyCode, candidate.ExchangeRate)

	return candidate
}

func validate(c database.Country) error {
	if c.Name == "" {
		return &ValidationError{Country: c.Name, Field: "name", Message: "must not be empty"}
	}
	if c.Population < 0 {
		return &ValidationError{Country: c.Name, Field: "population", Message: "must be a non-negative integer"}
	}
	if c.ExchangeRate != nil && *c.ExchangeRate <= 0 {
		return &ValidationError{Country: c.Name, Field: "exchange_rate", Message: "must be a positive number"}
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
