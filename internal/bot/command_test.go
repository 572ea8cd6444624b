package bot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwabot/cwabot/internal/bot"
	"github.com/cwabot/cwabot/internal/region"
)

func TestClassify(t *testing.T) {
	table := region.Default()

	tests := []struct {
		token    string
		expected bot.Command
	}{
		{"W", bot.CommandShowMenu},
		{"w", bot.CommandShowMenu},
		{"北部", bot.CommandSelectRegion},
		{"離島", bot.CommandSelectRegion},
		{"臺北市", bot.CommandSelectCity},
		{"連江縣", bot.CommandSelectCity},
		{"E", bot.CommandEarthquake},
		{"e", bot.CommandEarthquake},
		{"A", bot.CommandAirQuality},
		{"a", bot.CommandAirQuality},
		{"R", bot.CommandRadar},
		{"r", bot.CommandRadar},
		{"", bot.CommandUnknown},
		{"hello", bot.CommandUnknown},
		{" W", bot.CommandUnknown},
		{"W ", bot.CommandUnknown},
		{"WW", bot.CommandUnknown},
		{"台北市", bot.CommandUnknown},
		{"臺北", bot.CommandUnknown},
		{"北部 ", bot.CommandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.expected, bot.Classify(tt.token, table))
		})
	}
}

func TestClassify_RegionBeatsCommandLetters(t *testing.T) {
	table, err := region.New(
		region.Region{Name: "E", Cities: []string{"R"}},
		region.Region{Name: "South", Cities: []string{"A"}},
	)
	assert.NoError(t, err)

	assert.Equal(t, bot.CommandSelectRegion, bot.Classify("E", table))
	assert.Equal(t, bot.CommandSelectCity, bot.Classify("R", table))
	assert.Equal(t, bot.CommandSelectCity, bot.Classify("A", table))
	assert.Equal(t, bot.CommandEarthquake, bot.Classify("e", table))
}

func TestClassify_MenuLetterBeatsRegionAndCity(t *testing.T) {
	table, err := region.New(
		region.Region{Name: "W", Cities: []string{"臺北市"}},
		region.Region{Name: "X", Cities: []string{"w"}},
	)
	assert.NoError(t, err)

	assert.Equal(t, bot.CommandShowMenu, bot.Classify("W", table))
	assert.Equal(t, bot.CommandShowMenu, bot.Classify("w", table))
	assert.Equal(t, bot.CommandSelectRegion, bot.Classify("X", table))
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "show_menu", bot.CommandShowMenu.String())
	assert.Equal(t, "radar", bot.CommandRadar.String())
	assert.Equal(t, "unknown", bot.Command(99).String())
}
