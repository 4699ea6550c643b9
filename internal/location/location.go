// Package location defines the resolved-location value objects shared by
// the resolvers and the renderer boundary.
package location

import (
	"fmt"
	"time"
)

// Coordinates is a geographic point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates are on the globe.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// String renders the point rounded to 4 decimal places, the display form
// used when reverse geocoding is unavailable.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// RoundedKey renders the point rounded to 0.01 degrees, the cache key
// granularity for weather lookups.
func (c Coordinates) RoundedKey() string {
	return fmt.Sprintf("%.2f,%.2f", c.Latitude, c.Longitude)
}

// Resolved is one location resolution. It is a value object: superseded
// by a fresh resolution, never mutated.
type Resolved struct {
	Coordinates Coordinates `json:"coordinates"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	DisplayName string      `json:"display_name"`
	Timezone    string      `json:"timezone,omitempty"`
	IsFallback  bool        `json:"is_fallback"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Default is the static fallback location. It is always available and
// never fails; the widget ends up here when every other source is down.
func Default() Resolved {
	return Resolved{
		Coordinates: Coordinates{Latitude: 27.0040, Longitude: 49.6460},
		City:        "Jubail",
		Country:     "Saudi Arabia",
		DisplayName: "Jubail, Saudi Arabia",
		Timezone:    "Asia/Riyadh",
		IsFallback:  true,
		Timestamp:   time.Now(),
	}
}
