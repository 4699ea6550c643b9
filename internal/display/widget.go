package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aalrahma/salah-widget/internal/location"
	"github.com/aalrahma/salah-widget/internal/prayer"
	"github.com/aalrahma/salah-widget/internal/resolver"
	"github.com/aalrahma/salah-widget/internal/weather"
)

// clearAndHome repositions the cursor and wipes the frame so each tick
// redraws in place instead of scrolling.
const clearAndHome = "\033[H\033[2J"

// Widget renders the live terminal widget. It implements the app's
// renderer contract; every callback updates state and the per-second
// countdown tick repaints the whole frame.
type Widget struct {
	mu sync.Mutex

	out        io.Writer
	timeFormat string
	redraw     bool // clear the screen before each frame

	loc       location.Resolved
	timetable resolver.Timetable
	snap      weather.Snapshot
	weatherOK bool
	countdown prayer.Countdown
	period    prayer.Period
	notice    string
}

// NewWidget creates a widget writing to out. timeFormat is a Go
// reference-time layout ("15:04" or "3:04 PM"). redraw selects
// full-screen repainting; one-shot callers leave it off.
func NewWidget(out io.Writer, timeFormat string, redraw bool) *Widget {
	return &Widget{
		out:        out,
		timeFormat: timeFormat,
		redraw:     redraw,
	}
}

func (w *Widget) LocationResolved(loc location.Resolved) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loc = loc
}

func (w *Widget) PrayerTimesResolved(tt resolver.Timetable) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timetable = tt
}

func (w *Widget) WeatherResolved(snap weather.Snapshot, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snap = snap
	w.weatherOK = ok
}

func (w *Widget) PeriodChanged(p prayer.Period) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.period = p
}

func (w *Widget) Error(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notice = err.Error()
}

func (w *Widget) CountdownTick(cd prayer.Countdown) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.countdown = cd
	w.paint()
}

// Paint forces a repaint from current state, for one-shot rendering.
func (w *Widget) Paint() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paint()
}

func (w *Widget) paint() {
	var sb strings.Builder
	if w.redraw {
		sb.WriteString(clearAndHome)
	}

	theme := ThemeFor(w.period)

	// Header: place on the left, weather on the right.
	place := w.loc.DisplayName
	if place == "" {
		place = fmt.Sprintf("%s, %s", w.loc.City, w.loc.Country)
	}
	header := "  " + theme.Icon + "  " + Bold(place)
	if w.weatherOK {
		header += "    " + w.weatherCell()
	}
	sb.WriteString(header + "\n")

	// Date line: Gregorian plus the Hijri date under it.
	sb.WriteString("  " + Dim(w.dateLine()) + "\n\n")

	sb.WriteString(w.grid(theme))

	if next := w.countdown.Next; next != "" {
		line := fmt.Sprintf("Next: %s in %s", next,
			prayer.FormatCountdown(w.countdown.SecondsRemaining))
		sb.WriteString("\n  " + theme.Color(line) + "\n")
	}

	if w.timetable.IsFallback {
		sb.WriteString("  " + Dim("approximate times (offline)") + "\n")
	}
	if w.notice != "" {
		sb.WriteString("  " + Red("!") + " " + Gray(w.notice) + "\n")
	}

	fmt.Fprint(w.out, sb.String())
}

func (w *Widget) weatherCell() string {
	cell := fmt.Sprintf("%d°C %s", w.snap.TemperatureC, w.snap.Condition.Label())
	if icon := WeatherIcon(w.snap.Condition); icon != "" {
		cell = icon + " " + cell
	}
	return cell
}

func (w *Widget) dateLine() string {
	line := w.timetable.Date
	if t, err := time.Parse("2006-01-02", w.timetable.Date); err == nil {
		line = t.Format("Mon 02 Jan 2006")
	}
	if w.timetable.Hijri != "" {
		line += " · " + w.timetable.Hijri
	}
	return line
}

// grid renders the six-row prayer table with the upcoming boundary
// highlighted in the period theme's color.
func (w *Widget) grid(theme Theme) string {
	tbl := NewTable([]string{"Prayer", "", "Time"})
	tbl.SetHighlightStyle(func(s string) string { return Bold(theme.Color(s)) })
	times := w.timetable.Boundaries.Times()
	for i, name := range prayer.BoundaryNames {
		tbl.AddRow([]string{
			name,
			prayer.ArabicNames[name],
			prayer.FormatClock(times[i], w.timeFormat),
		})
		if name == w.countdown.Next {
			tbl.SetHighlightRow(i)
		}
	}
	return tbl.Render()
}
