package display

import (
	"fmt"
	"time"

	"github.com/aalrahma/salah-widget/internal/prayer"
	"github.com/aalrahma/salah-widget/internal/resolver"
)

// StatusLine renders the compact single-line form used in tmux status
// bars and shell prompts: "🕌 Dhuhr 11:55 (in 2h 54m)". Approximate
// timetables are marked with a trailing asterisk.
func StatusLine(tt resolver.Timetable, cd prayer.Countdown, timeFormat string) string {
	if cd.Next == "" {
		return ""
	}

	clock := ""
	times := tt.Boundaries.Times()
	for i, name := range prayer.BoundaryNames {
		if name == cd.Next {
			clock = prayer.FormatClock(times[i], timeFormat)
			break
		}
	}

	remaining := prayer.FormatRemaining(
		time.Duration(cd.SecondsRemaining) * time.Second)

	line := fmt.Sprintf("🕌 %s %s (in %s)", cd.Next, clock, remaining)
	if tt.IsFallback {
		line += "*"
	}
	return line
}
