package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *SQLCountryRepository {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewCountryRepository(db)
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func sampleCountries(now time.Time) []Country {
	return []Country{
		{
			Name:            "Nigeria",
			Capital:         strPtr("Abuja"),
			Region:          strPtr("Africa"),
			Population:      206139589,
			CurrencyCode:    strPtr("NGN"),
			ExchangeRate:    f64Ptr(1600.5),
			EstimatedGDP:    f64Ptr(193000000000),
			FlagURL:         strPtr("https://flagcdn.com/ng.svg"),
			LastRefreshedAt: now,
		},
		{
			Name:            "Germany",
			Capital:         strPtr("Berlin"),
			Region:          strPtr("Europe"),
			Population:      83240525,
			CurrencyCode:    strPtr("EUR"),
			ExchangeRate:    f64Ptr(0.92),
			EstimatedGDP:    f64Ptr(135000000000000),
			FlagURL:         strPtr("https://flagcdn.com/de.svg"),
			LastRefreshedAt: now,
		},
		{
			Name:            "Ghana",
			Capital:         strPtr("Accra"),
			Region:          strPtr("Africa"),
			Population:      31072940,
			CurrencyCode:    strPtr("GHS"),
			LastRefreshedAt: now,
		},
		{
			Name:            "Antarctica",
			Region:          strPtr("Polar"),
			Population:      1000,
			EstimatedGDP:    f64Ptr(0),
			LastRefreshedAt: now,
		},
	}
}

func TestReplaceAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.ReplaceAll(ctx, sampleCountries(now)); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 4 {
		t.Errorf("Expected 4 countries, got %d", count)
	}

	countries, err := repo.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, c := range countries {
		if !c.LastRefreshedAt.Equal(now) {
			t.Errorf("Country %s: expected refresh timestamp %v, got %v", c.Name, now, c.LastRefreshedAt)
		}
	}

	// Second refresh replaces everything
	later := now.Add(time.Hour)
	if err := repo.ReplaceAll(ctx, []Country{
		{Name: "Japan", Population: 125836021, LastRefreshedAt: later},
	}); err != nil {
		t.Fatalf("Second ReplaceAll failed: %v", err)
	}

	count, _ = repo.Count(ctx)
	if count != 1 {
		t.Errorf("Expected 1 country after replace, got %d", count)
	}

	if c, _ := repo.GetByName(ctx, "Nigeria"); c != nil {
		t.Error("Expected Nigeria to be gone after replace")
	}
}

func TestReplaceAllDuplicateNameRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.ReplaceAll(ctx, sampleCountries(now)); err != nil {
		t.Fatalf("Initial ReplaceAll failed: %v", err)
	}

	err := repo.ReplaceAll(ctx, []Country{
		{Name: "Benin", Population: 100, LastRefreshedAt: now},
		{Name: "Benin", Population: 200, LastRefreshedAt: now},
	})
	if err == nil {
		t.Fatal("Expected error for duplicate country name")
	}

	// Old dataset must survive the failed cycle
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 4 {
		t.Errorf("Expected 4 countries after rollback, got %d", count)
	}
	if c, _ := repo.GetByName(ctx, "Nigeria"); c == nil {
		t.Error("Expected Nigeria to survive the failed refresh")
	}
	if c, _ := repo.GetByName(ctx, "Benin"); c != nil {
		t.Error("Expected no partial rows from the failed refresh")
	}
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.ReplaceAll(ctx, sampleCountries(now)); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	for _, name := range []string{"Nigeria", "nigeria", "NIGERIA", "nIgErIa"} {
		c, err := repo.GetByName(ctx, name)
		if err != nil {
			t.Fatalf("GetByName(%q) failed: %v", name, err)
		}
		if c == nil {
			t.Fatalf("GetByName(%q) returned nil", name)
		}
		if c.Name != "Nigeria" {
			t.Errorf("GetByName(%q): expected name 'Nigeria', got %q", name, c.Name)
		}
		if c.Capital == nil || *c.Capital != "Abuja" {
			t.Errorf("GetByName(%q): unexpected capital %v", name, c.Capital)
		}
	}

	c, err := repo.GetByName(ctx, "Atlantis")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if c != nil {
		t.Error("Expected nil for unknown country")
	}
}

func TestGetByNameNullFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.ReplaceAll(ctx, sampleCountries(now)); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	c, err := repo.GetByName(ctx, "Ghana")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if c == nil {
		t.Fatal("Expected Ghana to exist")
	}
	if c.ExchangeRate != nil {
		t.Errorf("Expected nil exchange rate, got %v", *c.ExchangeRate)
	}
	if c.EstimatedGDP != nil {
		t.Errorf("Expected nil estimated GDP, got %v", *c.EstimatedGDP)
	}

	c, err = repo.GetByName(ctx, "Antarctica")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if c.CurrencyCode != nil {
		t.Errorf("Expected nil currency code, got %v", *c.CurrencyCode)
	}
	if c.EstimatedGDP == nil || *c.EstimatedGDP != 0 {
		t.Errorf("Expected estimated GDP of 0, got %v", c.EstimatedGDP)
	}
}

func TestDeleteByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.ReplaceAll(ctx, sampleCountries(now)); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	deleted, err := repo.DeleteByName(ctx, "NIGERIA")
	if err != nil {
		t.Fatalf("DeleteByName failed: %v", err)
	}
	if !deleted {
		t.Error("Expected delete to report a removed row")
	}

	c, _ := repo.GetByName(ctx, "nigeria")
	if c != nil {
		t.Error("Expected Nigeria to be gone after delete")
	}

	deleted, err = repo.DeleteByName(ctx, "Nigeria")
	if err != nil {
		t.Fatalf("DeleteByName failed: %v", err)
	}
	if deleted {
		t.Error("Expected delete of missing country to report no removed row")
	}
}

func TestListFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.ReplaceAll(ctx, sampleCountries(now)); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	africa, err := repo.List(ctx, ListOptions{Region: "Africa"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(africa) != 2 {
		t.Fatalf("Expected 2 African countries, got %d", len(africa))
	}
	// Default ordering is name ascending
	if africa[0].Name != "Ghana" || africa[1].Name != "Nigeria" {
		t.Errorf("Unexpected default ordering: %s, %s", africa[0].Name, africa[1].Name)
	}

	eur, err := repo.List(ctx, ListOptions{CurrencyCode: "EUR"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(eur) != 1 || eur[0].Name != "Germany" {
		t.Errorf("Expected only Germany for currency EUR, got %d rows", len(eur))
	}

	both, err := repo.List(ctx, ListOptions{Region: "Africa", CurrencyCode: "NGN"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(both) != 1 || both[0].Name != "Nigeria" {
		t.Errorf("Expected only Nigeria for Africa+NGN, got %d rows", len(both))
	}
}

func TestListGDPSortNullsLast(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.ReplaceAll(ctx, sampleCountries(now)); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	desc, err := repo.List(ctx, ListOptions{Sort: SortGDPDesc})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(desc) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(desc))
	}
	if desc[0].Name != "Germany" || desc[1].Name != "Nigeria" || desc[2].Name != "Antarctica" {
		t.Errorf("Unexpected gdp_desc ordering: %s, %s, %s", desc[0].Name, desc[1].Name, desc[2].Name)
	}
	if desc[3].Name != "Ghana" {
		t.Errorf("Expected null GDP row last under gdp_desc, got %s", desc[3].Name)
	}

	asc, err := repo.List(ctx, ListOptions{Sort: SortGDPAsc})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if asc[0].Name != "Antarctica" || asc[1].Name != "Nigeria" || asc[2].Name != "Germany" {
		t.Errorf("Unexpected gdp_asc ordering: %s, %s, %s", asc[0].Name, asc[1].Name, asc[2].Name)
	}
	if asc[3].Name != "Ghana" {
		t.Errorf("Expected null GDP row last under gdp_asc, got %s", asc[3].Name)
	}
}

func TestEmptyStoreAggregates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected count 0 on empty store, got %d", count)
	}

	ts, err := repo.LastRefreshedAt(ctx)
	if err != nil {
		t.Fatalf("LastRefreshedAt failed: %v", err)
	}
	if ts != nil {
		t.Errorf("Expected nil refresh timestamp on empty store, got %v", ts)
	}

	top, err := repo.TopByGDP(ctx, 5)
	if err != nil {
		t.Fatalf("TopByGDP failed: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("Expected no top countries on empty store, got %d", len(top))
	}
}

func TestTopByGDP(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.ReplaceAll(ctx, sampleCountries(now)); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	top, err := repo.TopByGDP(ctx, 5)
	if err != nil {
		t.Fatalf("TopByGDP failed: %v", err)
	}

	// Ghana has no GDP and must be excluded
	if len(top) != 3 {
		t.Fatalf("Expected 3 countries with known GDP, got %d", len(top))
	}
	if top[0].Name != "Germany" {
		t.Errorf("Expected Germany first, got %s", top[0].Name)
	}

	top, err = repo.TopByGDP(ctx, 2)
	if err != nil {
		t.Fatalf("TopByGDP failed: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("Expected top list capped at 2, got %d", len(top))
	}

	ts, err := repo.LastRefreshedAt(ctx)
	if err != nil {
		t.Fatalf("LastRefreshedAt failed: %v", err)
	}
	if ts == nil || !ts.Equal(now) {
		t.Errorf("Expected last refresh timestamp %v, got %v", now, ts)
	}
}
