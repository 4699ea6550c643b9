package display

import (
	"github.com/aalrahma/salah-widget/internal/prayer"
	"github.com/aalrahma/salah-widget/internal/weather"
)

// Theme is the visual treatment for one period of the day.
type Theme struct {
	Icon  string
	Color func(string) string
}

var themes = map[prayer.Period]Theme{
	prayer.PeriodFajr:    {Icon: "🌄", Color: Blue},
	prayer.PeriodSunrise: {Icon: "🌅", Color: Yellow},
	prayer.PeriodDhuhr:   {Icon: "☀️", Color: Green},
	prayer.PeriodAsr:     {Icon: "🌤", Color: Cyan},
	prayer.PeriodMaghrib: {Icon: "🌇", Color: Magenta},
	prayer.PeriodIsha:    {Icon: "🌙", Color: Gray},
}

// ThemeFor returns the theme for a period. Unknown periods get the
// night theme.
func ThemeFor(p prayer.Period) Theme {
	if t, ok := themes[p]; ok {
		return t
	}
	return themes[prayer.PeriodIsha]
}

var weatherIcons = map[weather.Condition]string{
	weather.Sunny:        "☀️",
	weather.PartlyCloudy: "⛅",
	weather.Cloudy:       "☁️",
	weather.Rainy:        "🌧",
	weather.Snowy:        "❄️",
	weather.Stormy:       "⛈",
	weather.Foggy:        "🌫",
	weather.ClearNight:   "🌙",
}

// WeatherIcon returns the icon for a condition, or empty when there is
// no sensible glyph.
func WeatherIcon(c weather.Condition) string {
	return weatherIcons[c]
}
