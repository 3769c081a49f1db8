package database

import (
	"context"
	"time"
)

type SortOrder string

const (
	SortNameAsc SortOrder = "name_asc"
	SortGDPDesc SortOrder = "gdp_desc"
	SortGDPAsc  SortOrder = "gdp_asc"
)

// ListOptions narrows and orders List results. Empty filter fields impose
// no constraint.
type ListOptions struct {
	Region       string
	CurrencyCode string
	Sort         SortOrder
}

type CountryRepository interface {
	ReplaceAll(ctx context.Context, countries []Country) error

	List(ctx context.Context, opts ListOptions) ([]Country, error)
	GetByName(ctx context.Context, name string) (*Country, error)
	DeleteByName(ctx context.Context, name string) (bool, error)

	Count(ctx context.Context) (int, error)
	LastRefreshedAt(ctx context.Context) (*time.Time, error)
	TopByGDP(ctx context.Context, n int) ([]Country, error)
}
