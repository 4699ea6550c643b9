package display

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aalrahma/salah-widget/internal/location"
	"github.com/aalrahma/salah-widget/internal/prayer"
	"github.com/aalrahma/salah-widget/internal/resolver"
	"github.com/aalrahma/salah-widget/internal/weather"
)

func sampleTimetable() resolver.Timetable {
	return resolver.Timetable{
		Boundaries: prayer.BoundarySet{
			Fajr: "04:15", Sunrise: "05:35", Dhuhr: "11:55",
			Asr: "15:25", Maghrib: "18:15", Isha: "19:45",
		},
		Hijri: "25 Ramadan 1447 AH",
		Date:  "2026-03-14",
	}
}

func TestWidgetPaintsFullFrame(t *testing.T) {
	SetEnabled(false)

	var out strings.Builder
	w := NewWidget(&out, "15:04", false)

	w.LocationResolved(location.Resolved{
		City: "Al Jubail", Country: "Saudi Arabia",
		DisplayName: "Al Jubail, Saudi Arabia",
	})
	w.PrayerTimesResolved(sampleTimetable())
	w.WeatherResolved(weather.Snapshot{
		TemperatureC: 31, Condition: weather.Sunny, ObservedAt: time.Now(),
	}, true)
	w.PeriodChanged(prayer.PeriodSunrise)
	w.CountdownTick(prayer.Countdown{
		Active: prayer.Sunrise, Next: prayer.Dhuhr, SecondsRemaining: 10500,
	})

	frame := out.String()
	for _, want := range []string{
		"Al Jubail, Saudi Arabia",
		"31°C Sunny",
		"Sat 14 Mar 2026",
		"25 Ramadan 1447 AH",
		"Dhuhr",
		"الظهر",
		"11:55",
		"Next: Dhuhr in 02:55:00",
	} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q:\n%s", want, frame)
		}
	}
	if strings.Contains(frame, "approximate") {
		t.Error("frame marked approximate for a live timetable")
	}
}

func TestWidgetMarksFallbackTimetable(t *testing.T) {
	SetEnabled(false)

	var out strings.Builder
	w := NewWidget(&out, "15:04", false)

	tt := sampleTimetable()
	tt.IsFallback = true
	w.PrayerTimesResolved(tt)
	w.CountdownTick(prayer.Countdown{Next: prayer.Fajr, SecondsRemaining: 60})

	if !strings.Contains(out.String(), "approximate times (offline)") {
		t.Error("fallback timetable not marked in frame")
	}
}

func TestWidgetShowsDegradeNotice(t *testing.T) {
	SetEnabled(false)

	var out strings.Builder
	w := NewWidget(&out, "15:04", false)
	w.PrayerTimesResolved(sampleTimetable())
	w.Error(errors.New("location: every source failed"))
	w.CountdownTick(prayer.Countdown{Next: prayer.Fajr, SecondsRemaining: 60})

	if !strings.Contains(out.String(), "! location: every source failed") {
		t.Errorf("frame missing degrade notice:\n%s", out.String())
	}
}

func TestWidgetOmitsWeatherWhenUnavailable(t *testing.T) {
	SetEnabled(false)

	var out strings.Builder
	w := NewWidget(&out, "15:04", false)
	w.PrayerTimesResolved(sampleTimetable())
	w.WeatherResolved(weather.Snapshot{}, false)
	w.CountdownTick(prayer.Countdown{Next: prayer.Fajr, SecondsRemaining: 60})

	if strings.Contains(out.String(), "°C") {
		t.Error("frame shows a temperature with no weather available")
	}
}

func TestWidgetTwelveHourClock(t *testing.T) {
	SetEnabled(false)

	var out strings.Builder
	w := NewWidget(&out, "3:04 PM", false)
	w.PrayerTimesResolved(sampleTimetable())
	w.CountdownTick(prayer.Countdown{Next: prayer.Dhuhr, SecondsRemaining: 60})

	frame := out.String()
	if !strings.Contains(frame, "6:15 PM") {
		t.Errorf("frame missing 12-hour Maghrib time:\n%s", frame)
	}
}

// ---------------------------------------------------------------------------
// Status line
// ---------------------------------------------------------------------------

func TestStatusLine(t *testing.T) {
	cd := prayer.Countdown{Next: prayer.Dhuhr, SecondsRemaining: 10500}

	got := StatusLine(sampleTimetable(), cd, "15:04")
	if got != "🕌 Dhuhr 11:55 (in 2h 55m)" {
		t.Errorf("StatusLine = %q", got)
	}
}

func TestStatusLineMarksFallback(t *testing.T) {
	tt := sampleTimetable()
	tt.IsFallback = true
	cd := prayer.Countdown{Next: prayer.Fajr, SecondsRemaining: 300}

	got := StatusLine(tt, cd, "15:04")
	if !strings.HasSuffix(got, "*") {
		t.Errorf("StatusLine = %q, want trailing asterisk", got)
	}
}

func TestStatusLineEmptyWithoutNext(t *testing.T) {
	if got := StatusLine(sampleTimetable(), prayer.Countdown{}, "15:04"); got != "" {
		t.Errorf("StatusLine = %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// Themes
// ---------------------------------------------------------------------------

func TestThemeForCoversEveryPeriod(t *testing.T) {
	for _, p := range prayer.AllPeriods {
		th := ThemeFor(p)
		if th.Icon == "" || th.Color == nil {
			t.Errorf("ThemeFor(%q) incomplete: %+v", p, th)
		}
	}
}

func TestThemeForUnknownPeriod(t *testing.T) {
	th := ThemeFor(prayer.Period("nonsense"))
	if th.Icon != ThemeFor(prayer.PeriodIsha).Icon {
		t.Errorf("unknown period theme = %+v, want night theme", th)
	}
}
