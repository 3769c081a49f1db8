package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ CountryRepository = (*SQLCountryRepository)(nil)

// SQLCountryRepository handles database operations for countries
type SQLCountryRepository struct {
	db *DB
}

func NewCountryRepository(db *DB) *SQLCountryRepository {
	return &SQLCountryRepository{db: db}
}

const countryColumns = `id, name, capital, region, population, currency_code,
       exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

// ReplaceAll swaps the full table contents in a single transaction. Readers
// observe either the previous dataset or the new one, never an intermediate
// state. Any insert failure (a duplicate name included) rolls the whole
// cycle back.
func (r *SQLCountryRepository) ReplaceAll(ctx context.Context, countries []Country) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM countries`); err != nil {
		return fmt.Errorf("failed to clear countries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO countries (name, capital, region, population, currency_code,
		                       exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range countries {
		_, err := stmt.ExecContext(ctx, c.Name, c.Capital, c.Region, c.Population,
			c.CurrencyCode, c.ExchangeRate, c.EstimatedGDP, c.FlagURL,
			c.LastRefreshedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert country %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}

	return nil
}

// List returns countries matching the filter in the requested order.
// Rows with NULL estimated_gdp sort last under both gdp orderings.
func (r *SQLCountryRepository) List(ctx context.Context, opts ListOptions) ([]Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries WHERE 1=1`
	var args []interface{}

	if opts.Region != "" {
		query += ` AND region = ?`
		args = append(args, opts.Region)
	}
	if opts.CurrencyCode != "" {
		query += ` AND currency_code = ?`
		args = append(args, opts.CurrencyCode)
	}

	switch opts.Sort {
	case SortGDPDesc:
		query += ` ORDER BY estimated_gdp DESC NULLS LAST, name ASC`
	case SortGDPAsc:
		query += ` ORDER BY estimated_gdp ASC NULLS LAST, name ASC`
	default:
		query += ` ORDER BY name ASC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	return scanCountries(rows)
}

// GetByName retrieves a country by name, matching case-insensitively.
// Returns nil when no row matches.
func (r *SQLCountryRepository) GetByName(ctx context.Context, name string) (*Country, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+countryColumns+`
		FROM countries
		WHERE name = ? COLLATE NOCASE
	`, name)

	country, err := scanCountry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get country by name: %w", err)
	}

	return country, nil
}

// DeleteByName removes a country, matching case-insensitively. Returns
// false when no row matched.
func (r *SQLCountryRepository) DeleteByName(ctx context.Context, name string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM countries WHERE name = ? COLLATE NOCASE
	`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete country: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// Count returns the total number of countries
func (r *SQLCountryRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get country count: %w", err)
	}
	return count, nil
}

// LastRefreshedAt returns the most recent refresh timestamp, or nil when
// the table is empty.
func (r *SQLCountryRepository) LastRefreshedAt(ctx context.Context) (*time.Time, error) {
	var ts time.Time
	err := r.db.QueryRowContext(ctx, `
		SELECT last_refreshed_at FROM countries
		ORDER BY last_refreshed_at DESC
		LIMIT 1
	`).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last refresh timestamp: %w", err)
	}

	t := ts.UTC()
	return &t, nil
}

// TopByGDP returns up to n countries ordered by estimated GDP descending,
// excluding rows with unknown GDP.
func (r *SQLCountryRepository) TopByGDP(ctx context.Context, n int) ([]Country, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+countryColumns+`
		FROM countries
		WHERE estimated_gdp IS NOT NULL
		ORDER BY estimated_gdp DESC, name ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top countries by GDP: %w", err)
	}
	defer rows.Close()

	return scanCountries(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCountry(row rowScanner) (*Country, error) {
	var c Country
	var capital, region, currencyCode, flagURL sql.NullString
	var exchangeRate, estimatedGDP sql.NullFloat64

	err := row.Scan(
		&c.ID, &c.Name, &capital, &region, &c.Population, &currencyCode,
		&exchangeRate, &estimatedGDP, &flagURL, &c.LastRefreshedAt,
	)
	if err != nil {
		return nil, err
	}

	if capital.Valid {
		c.Capital = &capital.String
	}
	if region.Valid {
		c.Region = &region.String
	}
	if currencyCode.Valid {
		c.CurrencyCode = &currencyCode.String
	}
	if exchangeRate.Valid {
		c.ExchangeRate = &exchangeRate.Float64
	}
	if estimatedGDP.Valid {
		c.EstimatedGDP = &estimatedGDP.Float64
	}
	if flagURL.Valid {
		c.FlagURL = &flagURL.String
	}

	c.LastRefreshedAt = c.LastRefreshedAt.UTC()

	return &c, nil
}

func scanCountries(rows *sql.Rows) ([]Country, error) {
	var countries []Country
	for rows.Next() {
		country, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan country row: %w", err)
		}
		countries = append(countries, *country)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating country rows: %w", err)
	}

	return countries, nil
}
