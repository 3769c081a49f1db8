package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port              string
	CountriesAPIURL   string
	RatesAPIURL       string
	ImagePath         string
	ImageFallbackPath string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
