// Package bot maps an inbound chat token to the bot's reply messages.
package bot

import "github.com/cwabot/cwabot/internal/region"

// Command is the classification of an inbound token.
type Command int

const (
	CommandUnknown Command = iota
	CommandShowMenu
	CommandSelectRegion
	CommandSelectCity
	CommandEarthquake
	CommandAirQuality
	CommandRadar
)

var commandNames = map[Command]string{
	CommandUnknown:      "unknown",
	CommandShowMenu:     "show_menu",
	CommandSelectRegion: "select_region",
	CommandSelectCity:   "select_city",
	CommandEarthquake:   "earthquake",
	CommandAirQuality:   "air_quality",
	CommandRadar:        "radar",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return commandNames[CommandUnknown]
}

// Classify resolves token against the region table. Matching is exact:
// surrounding whitespace is significant and region and city names are
// case sensitive. Rules apply in priority order, first match wins.
func Classify(token string, regions *region.Table) Command {
	switch {
	case token == "W" || token == "w":
		return CommandShowMenu
	case regions.IsRegion(token):
		return CommandSelectRegion
	case regions.IsCity(token):
		return CommandSelectCity
	case token == "E" || token == "e":
		return CommandEarthquake
	case token == "A" || token == "a":
		return CommandAirQuality
	case token == "R" || token == "r":
		return CommandRadar
	default:
		return CommandUnknown
	}
}
