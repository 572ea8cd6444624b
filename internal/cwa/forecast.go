package cwa

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cwabot/cwabot/internal/weather"
)

// Forecast element names in F-C0032-001 and their documented positions.
const (
	elementWx   = "Wx"
	elementPoP  = "PoP"
	elementMinT = "MinT"
	elementCI   = "CI"
	elementMaxT = "MaxT"
)

var elementPositions = map[string]int{
	elementWx:   0,
	elementPoP:  1,
	elementMinT: 2,
	elementCI:   3,
	elementMaxT: 4,
}

type forecastResponse struct {
	Success string           `json:"success"`
	Records *forecastRecords `json:"records"`
}

type forecastRecords struct {
	Location []forecastLocation `json:"location"`
}

type forecastLocation struct {
	LocationName   string            `json:"locationName"`
	WeatherElement []forecastElement `json:"weatherElement"`
}

type forecastElement struct {
	ElementName string         `json:"elementName"`
	Time        []forecastTime `json:"time"`
}

type forecastTime struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Parameter *struct {
		ParameterName string `json:"parameterName"`
	} `json:"parameter"`
}

// GetForecast fetches the nearest forecast window for a city.
// Implements weather.Provider.
func (c *Client) GetForecast(ctx context.Context, city string) (*weather.Forecast, error) {
	var resp forecastResponse
	err := c.get(ctx, c.forecastHTTP, ForecastDataset, url.Values{"locationName": {city}}, &resp)
	switch {
	case errors.Is(err, errDecode):
		return nil, fmt.Errorf("%w: %w", weather.ErrMalformedForecast, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", weather.ErrProviderUnavailable, err)
	}

	return toForecast(&resp, city)
}

func toForecast(resp *forecastResponse, city string) (*weather.Forecast, error) {
	if resp.Records == nil {
		return nil, fmt.Errorf("%w: missing records", weather.ErrMalformedForecast)
	}
	if len(resp.Records.Location) == 0 {
		return nil, fmt.Errorf("%w: %s", weather.ErrNoDataForLocation, city)
	}

	loc := resp.Records.Location[0]
	p := elementReader{elements: loc.WeatherElement}

	forecast := &weather.Forecast{
		City:            loc.LocationName,
		Description:     p.text(elementWx),
		RainProbability: p.integer(elementPoP),
		MinTemp:         p.integer(elementMinT),
		Comfort:         p.text(elementCI),
		MaxTemp:         p.integer(elementMaxT),
	}
	if p.err != nil {
		return nil, p.err
	}
	if forecast.City == "" {
		forecast.City = city
	}

	return forecast, nil
}

// elementReader reads time[0] parameters from weather elements, keeping the
// first error.
type elementReader struct {
	elements []forecastElement
	err      error
}

func (r *elementReader) find(name string) *forecastElement {
	for i := range r.elements {
		if r.elements[i].ElementName == name {
			return &r.elements[i]
		}
	}
	// Unnamed elements fall back to the documented order.
	if pos := elementPositions[name]; pos < len(r.elements) && r.elements[pos].ElementName == "" {
		return &r.elements[pos]
	}
	return nil
}

func (r *elementReader) text(name string) string {
	if r.err != nil {
		return ""
	}
	el := r.find(name)
	if el == nil {
		r.err = fmt.Errorf("%w: element %s missing", weather.ErrMalformedForecast, name)
		return ""
	}
	if len(el.Time) == 0 || el.Time[0].Parameter == nil {
		r.err = fmt.Errorf("%w: element %s has no parameter", weather.ErrMalformedForecast, name)
		return ""
	}
	return el.Time[0].Parameter.ParameterName
}

func (r *elementReader) integer(name string) int {
	v := r.text(name)
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.err = fmt.Errorf("%w: element %s value %q: %w", weather.ErrMalformedForecast, name, v, err)
		return 0
	}
	return n
}
