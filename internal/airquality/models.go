// Package airquality summarises the nationwide AQI readings into the bot's
// air quality reply.
package airquality

import (
	"errors"
	"fmt"
)

// Provider errors.
var (
	ErrProviderUnavailable = errors.New("air quality provider unavailable")
	ErrMalformedResponse   = errors.New("malformed air quality response")
)

// Unavailable is the reply used whenever the summary cannot be produced.
const Unavailable = "無法取得空氣品質資訊，請稍後再試。"

// BandWidth is the AQI span covered by one band.
const BandWidth = 50

// Band is an AQI health category.
type Band int

const (
	BandGood Band = iota
	BandModerate
	BandUnhealthyForSensitive
	BandUnhealthy
	BandVeryUnhealthy
	BandHazardous
)

var bandLabels = [...]string{
	BandGood:                  "良好",
	BandModerate:              "普通",
	BandUnhealthyForSensitive: "對敏感族群不健康",
	BandUnhealthy:             "對所有族群不健康",
	BandVeryUnhealthy:         "非常不健康",
	BandHazardous:             "危害",
}

// BandFor maps an AQI to its band. The index is aqi/50 clamped to the table,
// so any AQI of 300 or more is hazardous.
func BandFor(aqi int) Band {
	idx := aqi / BandWidth
	switch {
	case aqi < 0:
		return BandGood
	case idx > int(BandHazardous):
		return BandHazardous
	default:
		return Band(idx)
	}
}

// Label returns the display label of the band.
func (b Band) Label() string {
	if b < BandGood || b > BandHazardous {
		return bandLabels[BandHazardous]
	}
	return bandLabels[b]
}

func (b Band) String() string {
	return b.Label()
}

// Reading is the latest AQI reported by one monitoring station.
type Reading struct {
	County   string
	SiteName string
	AQI      int
}

// Band returns the reading's health category.
func (r Reading) Band() Band {
	return BandFor(r.AQI)
}

// Line renders the reading as one line of the summary.
func (r Reading) Line() string {
	return fmt.Sprintf("%s%s: AQI %d, 狀態: %s", r.County, r.SiteName, r.AQI, r.Band().Label())
}
