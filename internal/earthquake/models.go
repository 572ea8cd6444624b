// Package earthquake produces the bot's reply for the most recent notable
// earthquake.
package earthquake

import (
	"errors"
	"fmt"
)

// Earthquake errors.
var (
	ErrProviderUnavailable = errors.New("earthquake provider unavailable")
	ErrNoEvents            = errors.New("no earthquake events reported")
	ErrMalformedReport     = errors.New("malformed earthquake report")
)

const (
	// NotFound is the reply text used when no event can be produced.
	NotFound = "找不到地震資訊"

	// DefaultFallbackImageURL accompanies NotFound.
	DefaultFallbackImageURL = "https://example.com/demo.jpg"
)

// Event is the newest entry of the notable earthquake feed. Numeric fields are
// kept as the upstream rendered them.
type Event struct {
	Location   string
	Magnitude  string
	Depth      string
	OriginTime string
	ImageURL   string
}

// Text renders the event summary line.
func (e Event) Text() string {
	return fmt.Sprintf("%s，芮氏規模 %s 級，深度 %s 公里，發生時間 %s。",
		e.Location, e.Magnitude, e.Depth, e.OriginTime)
}
