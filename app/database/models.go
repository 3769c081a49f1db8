package database

import (
	"time"
)

// Country represents a country record in the database. Optional upstream
// fields are pointers; nil maps to NULL.
type Country struct {
	ID              int64
	Name            string
	Capital         *string
	Region          *string
	Population      int64
	CurrencyCode    *string
	ExchangeRate    *float64
	EstimatedGDP    *float64
	FlagURL         *string
	LastRefreshedAt time.Time
}
