package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client fetches raw data from the two upstream REST APIs. No retries: a
// failed fetch is reported to the caller, which aborts the refresh cycle.
type Client struct {
	httpClient   *http.Client
	countriesURL string
	ratesURL     string
	userAgent    string
}

func NewClient(httpClient *http.Client, countriesURL, ratesURL, userAgent string) *Client {
	return &Client{
		httpClient:   httpClient,
		countriesURL: countriesURL,
		ratesURL:     ratesURL,
		userAgent:    userAgent,
	}
}

// FetchCountries retrieves the raw country list from the countries API
func (c *Client) FetchCountries(ctx context.Context) ([]Country, error) {
	data, err := c.fetch(ctx, c.countriesURL)
	if err != nil {
		return nil, err
	}

	var countries []Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return nil, fmt.Errorf("failed to decode countries response: %w", err)
	}

	return countries, nil
}

// FetchRates retrieves the currency code to USD rate mapping from the
// rates API. A payload without a rates object counts as a failure.
func (c *Client) FetchRates(ctx context.Context) (map[string]float64, error) {
	data, err := c.fetch(ctx, c.ratesURL)
	if err != nil {
		return nil, err
	}

	var response ratesResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	if len(response.Rates) == 0 {
		return nil, fmt.Errorf("rates response contains no rates")
	}

	return response.Rates, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
