// Package weather defines the normalized weather snapshot and the two
// provider clients that produce it. Providers with different response
// shapes are translated into the one Snapshot type at the client edge.
package weather

import (
	"context"
	"time"

	"github.com/aalrahma/salah-widget/internal/location"
)

// Condition is the normalized weather condition shown by the renderer.
type Condition string

const (
	Sunny        Condition = "sunny"
	PartlyCloudy Condition = "partly-cloudy"
	Cloudy       Condition = "cloudy"
	Rainy        Condition = "rainy"
	Snowy        Condition = "snowy"
	Stormy       Condition = "stormy"
	Foggy        Condition = "foggy"
	ClearNight   Condition = "clear-night"
	Unknown      Condition = "unknown"
)

// Label returns the human-readable condition text.
func (c Condition) Label() string {
	switch c {
	case Sunny:
		return "Sunny"
	case PartlyCloudy:
		return "Partly Cloudy"
	case Cloudy:
		return "Cloudy"
	case Rainy:
		return "Rainy"
	case Snowy:
		return "Snowy"
	case Stormy:
		return "Thunderstorm"
	case Foggy:
		return "Foggy"
	case ClearNight:
		return "Clear"
	default:
		return "Unknown"
	}
}

// Snapshot is one observed weather reading, normalized across providers.
type Snapshot struct {
	TemperatureC int       `json:"temperature_c"`
	Condition    Condition `json:"condition"`
	ObservedAt   time.Time `json:"observed_at"`
}

// Provider abstracts a weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coords location.Coordinates) (Snapshot, error)
}

// Broad sanity range for any temperature reading, in Celsius.
const (
	minSaneTemp = -60
	maxSaneTemp = 60
)

// minHotClimateTemp is the floor below which a reading for a hot-climate
// location is treated as corrupted or regionally mismatched.
const minHotClimateTemp = 15

// HotClimate reports whether the coordinates sit in the hot-climate band
// (roughly the Arabian peninsula and surroundings) where implausibly cold
// cached readings are rejected.
func HotClimate(coords location.Coordinates) bool {
	return coords.Latitude >= 15 && coords.Latitude <= 35 &&
		coords.Longitude >= 25 && coords.Longitude <= 60
}

// Plausible reports whether the snapshot can be trusted for the given
// coordinates. Implausible cached values force a re-fetch instead of
// being displayed.
func (s Snapshot) Plausible(coords location.Coordinates) bool {
	if s.TemperatureC < minSaneTemp || s.TemperatureC > maxSaneTemp {
		return false
	}
	if HotClimate(coords) && s.TemperatureC < minHotClimateTemp {
		return false
	}
	return true
}
