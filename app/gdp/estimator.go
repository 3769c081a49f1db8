// Package gdp derives the estimated GDP figure stored with each country.
//
// The derivation is a synthetic placeholder for a real economic model: the
// population is scaled by a random multiplier and divided by the USD
// exchange rate. The randomized multiplier is intentional, not a bug.
package gdp

import (
	"math/rand"
)

const (
	MultiplierMin = 1000.0
	MultiplierMax = 2000.0
)

// Estimate returns the estimated GDP for a country.
//
// Three-way contract, preserved exactly:
//   - no currency code: 0 (a country without a currency is treated as a
//     zero economy)
//   - currency code present but no usable rate: nil (unknown, not zero)
//   - positive rate: population * m / rate, m drawn uniformly from
//     [MultiplierMin, MultiplierMax) per country per refresh
func Estimate(population int64, currencyCode *string, exchangeRate *float64) *float64 {
	if currencyCode == nil {
		zero := 0.0
		return &zero
	}

	if exchangeRate == nil || *exchangeRate <= 0 {
		return nil
	}

	multiplier := MultiplierMin + rand.Float64()*(MultiplierMax-MultiplierMin)
	estimate := float64(population) * multiplier / *exchangeRate

	return &estimate
}
