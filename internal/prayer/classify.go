package prayer

import "time"

// Period names one of the six themed intervals of the day. The naming is
// historical and deliberately off by one: each period is named for the
// boundary that opened it, so PeriodSunrise denotes the interval spent
// waiting for Dhuhr, PeriodDhuhr the interval waiting for Asr, and so on.
// Behavior, not naming intuition, is the contract here; downstream theme
// tables are keyed on these exact values.
type Period string

const (
	PeriodFajr    Period = "fajr"
	PeriodSunrise Period = "sunrise"
	PeriodDhuhr   Period = "dhuhr"
	PeriodAsr     Period = "asr"
	PeriodMaghrib Period = "maghrib"
	PeriodIsha    Period = "isha"
)

// AllPeriods lists every period name.
var AllPeriods = []Period{
	PeriodFajr, PeriodSunrise, PeriodDhuhr, PeriodAsr, PeriodMaghrib, PeriodIsha,
}

// Classify maps a clock time to its period. The branch order is
// load-bearing: the night period spans midnight, so it is checked first.
// If the boundary set is malformed the hour-of-day heuristic takes over.
func Classify(now time.Time, b BoundarySet) Period {
	m, err := b.minutes()
	if err != nil {
		return ClassifyByHour(now.Hour())
	}

	cur := now.Hour()*60 + now.Minute()

	switch {
	case cur < m.fajr || cur >= m.isha:
		return PeriodIsha
	case cur < m.sunrise:
		return PeriodFajr
	case cur < m.dhuhr:
		return PeriodSunrise
	case cur < m.asr:
		return PeriodDhuhr
	case cur < m.maghrib:
		return PeriodAsr
	default:
		return PeriodMaghrib
	}
}

// ClassifyByHour is the standalone fallback classifier used when no
// boundary set is available. Its clock ranges are fixed and independent
// of any prayer calculation.
func ClassifyByHour(hour int) Period {
	switch {
	case hour >= 21 || hour < 4:
		return PeriodIsha
	case hour < 6:
		return PeriodFajr
	case hour < 12:
		return PeriodSunrise
	case hour < 15:
		return PeriodDhuhr
	case hour < 18:
		return PeriodAsr
	default:
		return PeriodMaghrib
	}
}
