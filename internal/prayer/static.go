package prayer

import (
	"fmt"
	"time"
)

// Seasonal fallback tables. These approximate times keep the widget in a
// displayable state when every network source for the day has failed.
// Values are rough Gulf-region schedules, one band per season.
var (
	springTable = BoundarySet{
		Fajr: "04:15", Sunrise: "05:35", Dhuhr: "11:55",
		Asr: "15:25", Maghrib: "18:15", Isha: "19:45",
	}
	summerTable = BoundarySet{
		Fajr: "03:45", Sunrise: "05:05", Dhuhr: "11:45",
		Asr: "15:15", Maghrib: "18:35", Isha: "20:05",
	}
	autumnTable = BoundarySet{
		Fajr: "04:30", Sunrise: "05:50", Dhuhr: "11:50",
		Asr: "15:10", Maghrib: "17:55", Isha: "19:25",
	}
	winterTable = BoundarySet{
		Fajr: "04:55", Sunrise: "06:15", Dhuhr: "11:45",
		Asr: "14:55", Maghrib: "17:25", Isha: "18:55",
	}
)

// SeasonalBoundaries returns the static boundary set for the given date's
// month band. It always succeeds; this is the terminal source of the
// prayer-times fallback chain.
func SeasonalBoundaries(date time.Time) BoundarySet {
	switch m := date.Month(); {
	case m >= time.March && m <= time.May:
		return springTable
	case m >= time.June && m <= time.August:
		return summerTable
	case m >= time.September && m <= time.November:
		return autumnTable
	default:
		return winterTable
	}
}

// approxHijriYear is the fixed year used by the offline Hijri estimate.
const approxHijriYear = 1445

// hijriMonths is the 12-entry Hijri month name table.
var hijriMonths = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Sha'ban",
	"Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// ApproxHijri computes a rough Hijri date string for the given Gregorian
// date, e.g. "22 Rajab 1445 AH". It is a display-grade approximation (day
// offset plus a month shift), not a calendar conversion; the API's Hijri
// date replaces it whenever a fetch succeeds.
func ApproxHijri(date time.Time) string {
	day := (date.Day() + 10) % 30
	if day == 0 {
		day = 30
	}
	month := hijriMonths[(int(date.Month())+5)%12]
	return fmt.Sprintf("%d %s %d AH", day, month, approxHijriYear)
}
