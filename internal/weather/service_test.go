package weather_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cwabot/cwabot/internal/weather"
)

// mockProvider is a mock weather provider for testing.
type mockProvider struct {
	mu        sync.Mutex
	calls     []string
	forecasts map[string]*weather.Forecast
	err       error
}

func newMockProvider() *mockProvider {
	return &mockProvider{forecasts: make(map[string]*weather.Forecast)}
}

func (m *mockProvider) GetForecast(_ context.Context, city string) (*weather.Forecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, city)

	if m.err != nil {
		return nil, m.err
	}
	if f, ok := m.forecasts[city]; ok {
		copied := *f
		return &copied, nil
	}
	return nil, weather.ErrNoDataForLocation
}

func newTestService(p weather.Provider) *weather.Service {
	return weather.NewService(weather.ServiceConfig{
		Provider: p,
		Logger:   zerolog.Nop(),
		Clock:    clockwork.NewFakeClockAt(time.Date(2024, 12, 24, 8, 0, 0, 0, time.Local)),
	})
}

func TestService_Report(t *testing.T) {
	provider := newMockProvider()
	provider.forecasts["臺北市"] = &weather.Forecast{
		City:            "臺北市",
		Description:     "陰短暫雨",
		RainProbability: 70,
		MinTemp:         11,
		MaxTemp:         16,
		Comfort:         "寒冷至稍有寒意",
	}

	text := newTestService(provider).Report(context.Background(), "臺北市")

	assert.True(t, strings.HasPrefix(text, "📅 日期：2024-12-24\n"))
	assert.Contains(t, text, "臺北市")
	assert.Contains(t, text, "陰短暫雨")
	assert.Contains(t, text, "11~16°C")
	assert.Contains(t, text, "寒冷至稍有寒意")
	assert.Contains(t, text, "70%")
	assert.Contains(t, text, string(weather.AdvisoryUmbrella))
	assert.Contains(t, text, string(weather.AdvisoryCold))
	assert.NotContains(t, text, string(weather.AdvisoryFine))
	assert.Equal(t, []string{"臺北市"}, provider.calls)
}

func TestService_ReportFillsMissingCity(t *testing.T) {
	provider := newMockProvider()
	provider.forecasts["花蓮縣"] = &weather.Forecast{Description: "晴", MinTemp: 20, MaxTemp: 25}

	text := newTestService(provider).Report(context.Background(), "花蓮縣")

	assert.Contains(t, text, "🌆 花蓮縣 ")
}

func TestService_ReportFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"provider unavailable", fmt.Errorf("executing request: %w", weather.ErrProviderUnavailable)},
		{"malformed", fmt.Errorf("decoding: %w", weather.ErrMalformedForecast)},
		{"deadline", context.DeadlineExceeded},
		{"other", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newMockProvider()
			provider.err = tt.err

			assert.Equal(t, weather.Unavailable, newTestService(provider).Report(context.Background(), "臺北市"))
		})
	}
}

func TestService_ReportUnknownCity(t *testing.T) {
	provider := newMockProvider()

	assert.Equal(t, weather.Unavailable, newTestService(provider).Report(context.Background(), "台北"))
}
