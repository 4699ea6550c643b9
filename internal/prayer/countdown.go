package prayer

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Countdown is the per-second output of the countdown engine.
type Countdown struct {
	// Active is the name of the latest boundary at or before now.
	// Before Fajr it wraps to the previous day's Isha, matching Classify.
	Active string
	// Next is the name of the earliest boundary after now. Past Isha it
	// wraps to the next day's Fajr.
	Next string
	// SecondsRemaining until the next boundary. Always < 86400, never
	// negative.
	SecondsRemaining uint
}

// Tick recomputes the countdown state for the given instant. It runs on
// every 1-second scheduler tick and is pure: same inputs, same output.
func Tick(now time.Time, b BoundarySet) (Countdown, error) {
	m, err := b.minutes()
	if err != nil {
		return Countdown{}, fmt.Errorf("malformed boundary set: %w", err)
	}

	nowSecs := now.Hour()*3600 + now.Minute()*60 + now.Second()

	names := BoundaryNames
	secs := []int{
		m.fajr * 60, m.sunrise * 60, m.dhuhr * 60,
		m.asr * 60, m.maghrib * 60, m.isha * 60,
	}

	var c Countdown
	nextSecs := -1
	for i, s := range secs {
		if s <= nowSecs {
			c.Active = names[i]
		} else if nextSecs == -1 || s < nextSecs {
			c.Next = names[i]
			nextSecs = s
		}
	}

	// Before Fajr no boundary has passed today; the night that began at
	// yesterday's Isha is still running.
	if c.Active == "" {
		c.Active = Isha
	}

	// Past Isha: the next boundary is tomorrow's Fajr.
	if nextSecs == -1 {
		c.Next = Fajr
		c.SecondsRemaining = uint((secondsPerDay - nowSecs) + m.fajr*60)
		return c, nil
	}

	c.SecondsRemaining = uint(nextSecs - nowSecs)
	return c, nil
}

// SameDay reports whether a and b fall on the same calendar day. The
// daily boundary refresh keys off a date change rather than elapsed-time
// counting so that it survives device sleep and resume.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
