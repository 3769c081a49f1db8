package refresh

import (
	"fmt"
)

type Source string

const (
	SourceCountries Source = "countries"
	SourceRates     Source = "rates"
)

// UpstreamError reports that one of the two upstream APIs could not be
// fetched. Source identifies which one, so the API layer can say so.
type UpstreamError struct {
	Source Source
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ValidationError reports the first candidate row that failed schema
// validation. The whole refresh cycle aborts; nothing is committed.
type ValidationError struct {
	Country string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for country %q: %s %s", e.Country, e.Field, e.Message)
}
