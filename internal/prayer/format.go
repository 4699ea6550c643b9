package prayer

import (
	"fmt"
	"time"
)

// FormatCountdown renders seconds remaining as "HH:MM:SS".
func FormatCountdown(secs uint) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatRemaining renders a duration as "Xh Ym", or "Ym" under an hour.
// Negative durations clamp to "0m".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatClock reformats an "HH:MM" boundary value for display.
// timeFormat follows Go reference-time syntax: "15:04" or "3:04 PM".
func FormatClock(raw string, timeFormat string) string {
	mins, err := ClockToMinutes(raw)
	if err != nil {
		return raw
	}
	t := time.Date(0, 1, 1, mins/60, mins%60, 0, 0, time.UTC)
	return t.Format(timeFormat)
}
