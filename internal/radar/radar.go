// Package radar builds cache-busting URLs for the composite radar echo image.
package radar

import (
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
)

// DefaultImageURL is the CWA composite radar echo image (O-A0058-001).
const DefaultImageURL = "https://cwaopendata.s3.ap-northeast-1.amazonaws.com/Observation/O-A0058-001.png"

// Source hands out radar image URLs. Every URL carries a nanosecond stamp as
// its query so chat clients never show a cached image; stamps are strictly
// increasing even when the clock stalls or steps back.
type Source struct {
	base  string
	clock clockwork.Clock
	last  atomic.Int64
}

// NewSource creates a Source for base (DefaultImageURL when empty). A nil
// clock uses the real clock.
func NewSource(base string, clock clockwork.Clock) *Source {
	if base == "" {
		base = DefaultImageURL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	// Any query on the configured URL is replaced by the stamp.
	if u, err := url.Parse(base); err == nil {
		u.RawQuery = ""
		u.Fragment = ""
		base = u.String()
	}
	return &Source{base: strings.TrimSuffix(base, "?"), clock: clock}
}

// URL returns the image URL with a fresh stamp.
func (s *Source) URL() string {
	return s.base + "?" + strconv.FormatInt(s.next(), 10)
}

func (s *Source) next() int64 {
	now := s.clock.Now().UnixNano()
	for {
		last := s.last.Load()
		stamp := now
		if stamp <= last {
			stamp = last + 1
		}
		if s.last.CompareAndSwap(last, stamp) {
			return stamp
		}
	}
}
