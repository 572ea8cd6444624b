// Package moenv provides a client for the Ministry of Environment open data
// AQI dataset (aqx_p_432).
package moenv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cwabot/cwabot/internal/airquality"
	"github.com/cwabot/cwabot/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the MOENV open data API.
	DefaultBaseURL = "https://data.moenv.gov.tw/api/v2"

	// Dataset is the real-time AQI dataset.
	Dataset = "aqx_p_432"

	// ProviderName identifies this provider.
	ProviderName = "moenv-aqi"

	// pageLimit covers every station in a single page.
	pageLimit = 1000
)

// ClientConfig holds configuration for the MOENV client.
type ClientConfig struct {
	// APIKey is the MOENV open data key (required).
	APIKey string

	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use.
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	Logger zerolog.Logger
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a MOENV AQI API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new MOENV client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// API response types.

type aqiResponse struct {
	Total   string      `json:"total"`
	Records []aqiRecord `json:"records"`
}

type aqiRecord struct {
	SiteName    string   `json:"sitename"`
	County      string   `json:"county"`
	AQI         aqiValue `json:"aqi"`
	Pollutant   string   `json:"pollutant"`
	Status      string   `json:"status"`
	PublishTime string   `json:"publishtime"`
}

// aqiValue accepts the AQI as a JSON string ("45", "" for offline stations)
// or as a bare number.
type aqiValue string

func (v *aqiValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = aqiValue(s)
		return nil
	}
	*v = aqiValue(data)
	return nil
}

func (v aqiValue) int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FetchReadings retrieves the latest reading of every station, in upstream
// order. Stations without a numeric AQI are skipped.
// Implements airquality.Provider.
func (c *Client) FetchReadings(ctx context.Context) ([]airquality.Reading, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("sort", "ImportDate desc")
	params.Set("format", "JSON")

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, Dataset, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", airquality.ErrProviderUnavailable, resilience.RedactError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", airquality.ErrProviderUnavailable, resp.StatusCode)
	}

	var body aqiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", airquality.ErrMalformedResponse, err)
	}
	if body.Records == nil {
		return nil, fmt.Errorf("%w: missing records", airquality.ErrMalformedResponse)
	}

	return c.toReadings(body.Records), nil
}

func (c *Client) toReadings(records []aqiRecord) []airquality.Reading {
	readings := make([]airquality.Reading, 0, len(records))
	skipped := 0

	for _, rec := range records {
		aqi, ok := rec.AQI.int()
		if !ok {
			skipped++
			continue
		}
		readings = append(readings, airquality.Reading{
			County:   rec.County,
			SiteName: rec.SiteName,
			AQI:      aqi,
		})
	}

	if skipped > 0 {
		c.logger.Debug().Int("skipped", skipped).Msg("stations without AQI skipped")
	}

	return readings
}
