package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aalrahma/salah-widget/internal/prayer"
	"github.com/aalrahma/salah-widget/internal/resolver"
)

// App is the widget core: resolved state plus the tick handlers the
// scheduler drives. Two locks keep the 1-second countdown responsive:
// fetchMu serializes resolver access, mu guards published state and
// renderer callbacks. Network resolution runs under fetchMu only, so an
// in-flight fetch never stalls OnSecond. fetchMu is always acquired
// before mu.
type App struct {
	mu      sync.Mutex
	fetchMu sync.Mutex

	log      *zap.Logger
	clock    func() time.Time
	renderer Renderer

	locations  *resolver.Location
	timetables *resolver.PrayerTimes
	weathers   *resolver.Weather

	timetable resolver.Timetable
	period    prayer.Period
	today     time.Time
	rolling   bool
	haveTime  bool
}

// New assembles the app around its resolvers and renderer.
func New(loc *resolver.Location, pt *resolver.PrayerTimes, w *resolver.Weather, r Renderer, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		log:        log,
		clock:      time.Now,
		renderer:   r,
		locations:  loc,
		timetables: pt,
		weathers:   w,
	}
}

// SetClock overrides the time source for tests.
func (a *App) SetClock(now func() time.Time) {
	a.clock = now
}

// Bootstrap performs the initial resolution pass: location, then the
// timetable for today, then weather. It never fails; every concern has
// a fallback and degradations go through the renderer's Error callback.
func (a *App) Bootstrap(ctx context.Context) {
	a.fetchMu.Lock()
	defer a.fetchMu.Unlock()

	now := a.clock()

	loc, locErr := a.locations.Resolve(ctx)
	tt, ttErr := a.timetables.Resolve(ctx, now, loc.Coordinates)
	snap, ok := a.weathers.Resolve(ctx, loc.Coordinates)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.today = now
	if locErr != nil {
		a.renderer.Error(locErr)
	}
	a.renderer.LocationResolved(loc)
	if ttErr != nil {
		a.renderer.Error(ttErr)
	}
	a.timetable = tt
	a.haveTime = true
	a.renderer.PrayerTimesResolved(tt)
	a.renderer.WeatherResolved(snap, ok)

	a.period = prayer.Classify(now, tt.Boundaries)
	a.renderer.PeriodChanged(a.period)
	a.tickLocked(now)
}

// OnSecond recomputes the countdown and watches for the civil date
// changing under a running session. It takes only the state lock, so a
// slow fetch on the minute or midnight path cannot delay it. Date
// rollover is detected by comparing dates, not by counting elapsed
// ticks, so it survives suspend and resume.
func (a *App) OnSecond(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.haveTime {
		return
	}

	now := a.clock()
	if !prayer.SameDay(now, a.today) && !a.rolling {
		a.rolling = true
		go a.rollover(ctx, now)
	}

	a.tickLocked(now)
}

// OnMinute re-evaluates the period and cycles the weather. The weather
// cache absorbs most of these cycles; the network is touched only when
// the snapshot has expired.
func (a *App) OnMinute(ctx context.Context) {
	a.mu.Lock()
	if !a.haveTime {
		a.mu.Unlock()
		return
	}
	now := a.clock()
	if p := prayer.Classify(now, a.timetable.Boundaries); p != a.period {
		a.period = p
		a.renderer.PeriodChanged(p)
	}
	a.mu.Unlock()

	a.fetchMu.Lock()
	loc, ok := a.locations.Current()
	if !ok {
		a.fetchMu.Unlock()
		return
	}
	snap, ok := a.weathers.Resolve(ctx, loc.Coordinates)
	a.fetchMu.Unlock()

	a.mu.Lock()
	a.renderer.WeatherResolved(snap, ok)
	a.mu.Unlock()
}

// OnMidnight fetches the new day's timetable. The scheduler fires it at
// 00:00; the rollover watch in OnSecond covers clock jumps that skip
// the scheduled moment.
func (a *App) OnMidnight(ctx context.Context) {
	a.rollover(ctx, a.clock())
}

// Refresh discards every cache and re-resolves from scratch. This is
// the manual path that also clears budget exhaustion.
func (a *App) Refresh(ctx context.Context) {
	a.fetchMu.Lock()
	defer a.fetchMu.Unlock()

	now := a.clock()

	loc, locErr := a.locations.Refresh(ctx)
	tt, ttErr := a.timetables.Refresh(ctx, now, loc.Coordinates)
	snap, ok := a.weathers.Refresh(ctx, loc.Coordinates)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.today = now
	if locErr != nil {
		a.renderer.Error(locErr)
	}
	a.renderer.LocationResolved(loc)
	if ttErr != nil {
		a.renderer.Error(ttErr)
	}
	a.timetable = tt
	a.haveTime = true
	a.renderer.PrayerTimesResolved(tt)
	a.renderer.WeatherResolved(snap, ok)

	a.period = prayer.Classify(now, tt.Boundaries)
	a.renderer.PeriodChanged(a.period)
	a.tickLocked(now)
}

// Period returns the current period.
func (a *App) Period() prayer.Period {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.period
}

// Timetable returns the current day's timetable.
func (a *App) Timetable() resolver.Timetable {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timetable
}

func (a *App) tickLocked(now time.Time) {
	cd, err := prayer.Tick(now, a.timetable.Boundaries)
	if err != nil {
		// Resolvers validate boundaries before accepting them, so this
		// is a bug rather than an input condition.
		a.log.Error("countdown tick on malformed boundaries", zap.Error(err))
		return
	}
	a.renderer.CountdownTick(cd)
}

// rollover resolves the new day's timetable under fetchMu, then takes
// the state lock only to publish. The countdown keeps ticking against
// the old timetable while the fetch is in flight; last completed write
// wins.
func (a *App) rollover(ctx context.Context, now time.Time) {
	a.fetchMu.Lock()
	loc, haveLoc := a.locations.Current()
	var locErr error
	if !haveLoc {
		loc, locErr = a.locations.Resolve(ctx)
	}

	a.log.Info("fetching timetable for new day",
		zap.String("date", now.Format("2006-01-02")))

	tt, ttErr := a.timetables.Resolve(ctx, now, loc.Coordinates)
	a.fetchMu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if !haveLoc {
		if locErr != nil {
			a.renderer.Error(locErr)
		}
		a.renderer.LocationResolved(loc)
	}
	if ttErr != nil {
		a.renderer.Error(ttErr)
	}
	a.today = now
	a.timetable = tt
	a.haveTime = true
	a.renderer.PrayerTimesResolved(tt)

	if p := prayer.Classify(now, tt.Boundaries); p != a.period {
		a.period = p
		a.renderer.PeriodChanged(p)
	}
	a.rolling = false
}
