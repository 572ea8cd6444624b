// Package weather turns a city forecast from the upstream provider into the
// bot's weather reply.
package weather

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrNoDataForLocation   = errors.New("no weather data for location")
	ErrMalformedForecast   = errors.New("malformed forecast payload")
)

// Unavailable is the reply used whenever a forecast cannot be produced.
const Unavailable = "無法取得天氣資訊，請稍後再試。"

// Advisory thresholds.
const (
	UmbrellaRainProbability = 40 // percent, inclusive
	HeatMaxTemp             = 30 // °C, inclusive
	ColdMinTemp             = 12 // °C, inclusive
)

// Advisory is one line of the reminder block.
type Advisory string

const (
	AdvisoryUmbrella Advisory = "⚠️ 降雨機率較高，記得攜帶雨具！"
	AdvisoryHeat     Advisory = "🥵 天氣炎熱，請注意防曬和補充水分！"
	AdvisoryCold     Advisory = "🥶 氣溫較低，記得穿著保暖衣物！"
	AdvisoryFine     Advisory = "🌤 天氣狀況良好，適合外出活動"
)

// Forecast is the nearest forecast window for one city as reported upstream.
type Forecast struct {
	City string

	// Description is the weather phenomenon text (e.g. "多雲時晴").
	Description string

	// RainProbability in percent (0-100).
	RainProbability int

	// MinTemp and MaxTemp in °C.
	MinTemp int
	MaxTemp int

	// Comfort is the comfort index text (e.g. "舒適至悶熱").
	Comfort string
}

// Report is a Forecast stamped with the date it was produced.
type Report struct {
	Forecast
	Date time.Time
}

// NewReport stamps a forecast with the given time.
func NewReport(f Forecast, now time.Time) Report {
	return Report{Forecast: f, Date: now}
}

// Advisories derives the reminder lines. AdvisoryFine is returned alone when
// no other advisory applies.
func (r Report) Advisories() []Advisory {
	var advisories []Advisory
	if r.RainProbability >= UmbrellaRainProbability {
		advisories = append(advisories, AdvisoryUmbrella)
	}
	if r.MaxTemp >= HeatMaxTemp {
		advisories = append(advisories, AdvisoryHeat)
	}
	if r.MinTemp <= ColdMinTemp {
		advisories = append(advisories, AdvisoryCold)
	}
	if len(advisories) == 0 {
		return []Advisory{AdvisoryFine}
	}
	return advisories
}

// Text renders the reply shown to the user.
func (r Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 日期：%s\n", r.Date.Format(time.DateOnly))
	fmt.Fprintf(&b, "🌆 %s 3小時內天氣預報：\n", r.City)
	fmt.Fprintf(&b, "🌤 天氣狀況：%s\n", r.Description)
	fmt.Fprintf(&b, "🌡 溫度：%d~%d°C\n", r.MinTemp, r.MaxTemp)
	fmt.Fprintf(&b, "😊 舒適度：%s\n", r.Comfort)
	fmt.Fprintf(&b, "☔ 降雨機率：%d%%\n", r.RainProbability)
	b.WriteString("📢 小提醒：")
	for _, a := range r.Advisories() {
		b.WriteString("\n")
		b.WriteString(string(a))
	}
	return b.String()
}
