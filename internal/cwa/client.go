// Package cwa is a client for the Central Weather Administration open data
// API. It serves the city forecast dataset (F-C0032-001) and the notable
// earthquake report dataset (E-A0016-001).
package cwa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cwabot/cwabot/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the CWA open data datastore base URL.
	DefaultBaseURL = "https://opendata.cwa.gov.tw/api/v1/rest/datastore"

	// ForecastDataset is the 36-hour city forecast dataset.
	ForecastDataset = "F-C0032-001"

	// EarthquakeDataset is the notable earthquake report dataset.
	EarthquakeDataset = "E-A0016-001"
)

// Upstream transport errors.
var (
	errUnavailable = errors.New("cwa unavailable")
	errDecode      = errors.New("cwa response not decodable")
)

// ClientConfig holds configuration for the CWA client.
type ClientConfig struct {
	// APIKey is the CWA authorization key (required).
	APIKey string

	// BaseURL is the datastore base URL (optional, defaults to DefaultBaseURL).
	BaseURL string

	// ForecastHTTPClient serves forecast calls.
	// If nil, uses a resilient client named "cwa-forecast".
	ForecastHTTPClient HTTPDoer

	// EarthquakeHTTPClient serves earthquake calls.
	// If nil, uses a resilient client named "cwa-earthquake".
	EarthquakeHTTPClient HTTPDoer

	// Logger for client operations.
	Logger zerolog.Logger
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a CWA open data API client.
type Client struct {
	apiKey         string
	baseURL        string
	forecastHTTP   HTTPDoer
	earthquakeHTTP HTTPDoer
	logger         zerolog.Logger
}

// NewClient creates a new CWA client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	forecastHTTP := cfg.ForecastHTTPClient
	if forecastHTTP == nil {
		forecastHTTP = resilience.NewClient(resilience.DefaultClientConfig("cwa-forecast"))
	}

	earthquakeHTTP := cfg.EarthquakeHTTPClient
	if earthquakeHTTP == nil {
		earthquakeHTTP = resilience.NewClient(resilience.DefaultClientConfig("cwa-earthquake"))
	}

	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		forecastHTTP:   forecastHTTP,
		earthquakeHTTP: earthquakeHTTP,
		logger:         cfg.Logger,
	}
}

// get fetches one dataset and decodes the JSON body into out.
// Transport and status failures wrap errUnavailable; body failures wrap errDecode.
func (c *Client) get(ctx context.Context, httpClient HTTPDoer, dataset string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("Authorization", c.apiKey)

	endpoint := c.baseURL + "/" + dataset + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: executing request: %w", errUnavailable, resilience.RedactError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code: %d", errUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", errDecode, err)
	}

	c.logger.Debug().Str("dataset", dataset).Msg("cwa dataset fetched")
	return nil
}
