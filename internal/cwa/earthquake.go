package cwa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cwabot/cwabot/internal/earthquake"
)

type earthquakeResponse struct {
	Records *struct {
		Earthquake []earthquakeEntry `json:"Earthquake"`
	} `json:"records"`
}

type earthquakeEntry struct {
	EarthquakeNo   json.Number     `json:"EarthquakeNo"`
	ReportImageURI string          `json:"ReportImageURI"`
	Web            string          `json:"Web"`
	EarthquakeInfo *earthquakeInfo `json:"EarthquakeInfo"`
}

type earthquakeInfo struct {
	OriginTime string `json:"OriginTime"`
	// FocalDepth and MagnitudeValue arrive as numbers, occasionally as strings.
	FocalDepth json.Number `json:"FocalDepth"`
	Epicenter  *struct {
		Location string `json:"Location"`
	} `json:"Epicenter"`
	EarthquakeMagnitude *struct {
		MagnitudeType  string      `json:"MagnitudeType"`
		MagnitudeValue json.Number `json:"MagnitudeValue"`
	} `json:"EarthquakeMagnitude"`
}

// GetLatest fetches the newest notable earthquake. The feed is ordered newest
// first and is not re-sorted. Implements earthquake.Provider.
func (c *Client) GetLatest(ctx context.Context) (*earthquake.Event, error) {
	var resp earthquakeResponse
	err := c.get(ctx, c.earthquakeHTTP, EarthquakeDataset, nil, &resp)
	switch {
	case errors.Is(err, errDecode):
		return nil, fmt.Errorf("%w: %w", earthquake.ErrMalformedReport, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", earthquake.ErrProviderUnavailable, err)
	}

	return toEvent(&resp)
}

func toEvent(resp *earthquakeResponse) (*earthquake.Event, error) {
	if resp.Records == nil {
		return nil, fmt.Errorf("%w: missing records", earthquake.ErrMalformedReport)
	}
	if len(resp.Records.Earthquake) == 0 {
		return nil, earthquake.ErrNoEvents
	}

	entry := resp.Records.Earthquake[0]
	info := entry.EarthquakeInfo
	switch {
	case info == nil:
		return nil, fmt.Errorf("%w: missing EarthquakeInfo", earthquake.ErrMalformedReport)
	case info.Epicenter == nil:
		return nil, fmt.Errorf("%w: missing Epicenter", earthquake.ErrMalformedReport)
	case info.EarthquakeMagnitude == nil || info.EarthquakeMagnitude.MagnitudeValue == "":
		return nil, fmt.Errorf("%w: missing magnitude", earthquake.ErrMalformedReport)
	case info.FocalDepth == "":
		return nil, fmt.Errorf("%w: missing focal depth", earthquake.ErrMalformedReport)
	}

	return &earthquake.Event{
		Location:   info.Epicenter.Location,
		Magnitude:  info.EarthquakeMagnitude.MagnitudeValue.String(),
		Depth:      info.FocalDepth.String(),
		OriginTime: info.OriginTime,
		ImageURL:   entry.ReportImageURI,
	}, nil
}
