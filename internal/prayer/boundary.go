// Package prayer holds the temporal core of the widget: the daily boundary
// set, the time-window classifier, and the countdown engine.
package prayer

import (
	"fmt"
	"strconv"
	"strings"
)

// Names of the six daily boundaries, in chronological order.
const (
	Fajr    = "Fajr"
	Sunrise = "Sunrise"
	Dhuhr   = "Dhuhr"
	Asr     = "Asr"
	Maghrib = "Maghrib"
	Isha    = "Isha"
)

// BoundaryNames lists the tracked boundaries in chronological order.
var BoundaryNames = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ArabicNames maps boundary names to their Arabic forms for the prayer grid.
var ArabicNames = map[string]string{
	Fajr:    "الفجر",
	Sunrise: "الشروق",
	Dhuhr:   "الظهر",
	Asr:     "العصر",
	Maghrib: "المغرب",
	Isha:    "العشاء",
}

// BoundarySet is one calendar day's six prayer-time instants as "HH:MM"
// clock strings. Within a day the values are monotonically non-decreasing
// in field order; the period after Isha wraps to before the next day's
// Fajr. A set is regenerated once per calendar day or on location change,
// never mutated in place.
type BoundarySet struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// Times returns the boundary values in chronological order,
// parallel to BoundaryNames.
func (b BoundarySet) Times() []string {
	return []string{b.Fajr, b.Sunrise, b.Dhuhr, b.Asr, b.Maghrib, b.Isha}
}

// boundaryMinutes holds each boundary as minutes since midnight.
type boundaryMinutes struct {
	fajr, sunrise, dhuhr, asr, maghrib, isha int
}

// minutes parses every boundary. Any unparseable value makes the whole
// set malformed; callers then fall back to the hour-of-day classifier.
func (b BoundarySet) minutes() (boundaryMinutes, error) {
	var m boundaryMinutes
	for _, f := range []struct {
		name string
		raw  string
		dst  *int
	}{
		{Fajr, b.Fajr, &m.fajr},
		{Sunrise, b.Sunrise, &m.sunrise},
		{Dhuhr, b.Dhuhr, &m.dhuhr},
		{Asr, b.Asr, &m.asr},
		{Maghrib, b.Maghrib, &m.maghrib},
		{Isha, b.Isha, &m.isha},
	} {
		v, err := ClockToMinutes(f.raw)
		if err != nil {
			return boundaryMinutes{}, fmt.Errorf("%s (%q): %w", f.name, f.raw, err)
		}
		*f.dst = v
	}
	return m, nil
}

// Valid reports whether every boundary parses as a clock time.
func (b BoundarySet) Valid() bool {
	_, err := b.minutes()
	return err == nil
}

// ClockToMinutes parses "HH:MM" into minutes since midnight.
// A timezone suffix like " (AST)", which the Al Adhan API sometimes
// appends, is stripped first.
func ClockToMinutes(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", raw)
	}

	// Atoi rejects trailing garbage like "1a", which Sscanf would accept.
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("clock time out of range: %q", raw)
	}

	return hour*60 + min, nil
}
