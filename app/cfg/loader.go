package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"data/countrypulse.db" description:"Path to the sqlite database file"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	CountriesAPIURL   string `long:"countries-api-url" env:"COUNTRIES_API_URL" default:"https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies" description:"Upstream countries API URL"`
	RatesAPIURL       string `long:"rates-api-url" env:"RATES_API_URL" default:"https://open.er-api.com/v6/latest/USD" description:"Upstream exchange rates API URL"`
	ImagePath         string `long:"image-path" env:"IMAGE_PATH" default:"data/summary.png" description:"Path where the summary image is written"`
	ImageFallbackPath string `long:"image-fallback-path" env:"IMAGE_FALLBACK_PATH" default:"cache/summary.png" description:"Fallback path checked when serving the summary image"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Country Pulse/1.0" description:"User agent string for upstream HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		Port:              raw.Port,
		CountriesAPIURL:   raw.CountriesAPIURL,
		RatesAPIURL:       raw.RatesAPIURL,
		ImagePath:         raw.ImagePath,
		ImageFallbackPath: raw.ImageFallbackPath,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
