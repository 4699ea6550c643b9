// Package app holds the widget's runtime state and drives it from
// scheduled ticks. Rendering is delegated to a collaborator so the same
// core serves the interactive widget and the one-shot status line.
package app

import (
	"github.com/aalrahma/salah-widget/internal/location"
	"github.com/aalrahma/salah-widget/internal/prayer"
	"github.com/aalrahma/salah-widget/internal/resolver"
	"github.com/aalrahma/salah-widget/internal/weather"
)

// Renderer receives state changes as they happen. Implementations must
// be fast; callbacks run on the scheduler's goroutines while the state
// lock is held, and a slow callback delays the next countdown tick.
type Renderer interface {
	// LocationResolved fires when the session location is established or
	// replaced by a refresh.
	LocationResolved(loc location.Resolved)

	// PrayerTimesResolved fires when a day's timetable is established,
	// including the seasonal approximation served on exhaustion.
	PrayerTimesResolved(tt resolver.Timetable)

	// WeatherResolved fires on every weather cycle. ok is false when no
	// source produced a usable snapshot.
	WeatherResolved(snap weather.Snapshot, ok bool)

	// CountdownTick fires once per second with the current countdown.
	CountdownTick(cd prayer.Countdown)

	// PeriodChanged fires when the clock crosses into a new period,
	// and once at bootstrap with the initial period.
	PeriodChanged(p prayer.Period)

	// Error surfaces a degraded resolution. The widget keeps running on
	// fallback data; this is informational.
	Error(err error)
}
