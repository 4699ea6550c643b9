package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aalrahma/salah-widget/internal/api"
	"github.com/aalrahma/salah-widget/internal/cache"
	"github.com/aalrahma/salah-widget/internal/fallback"
	"github.com/aalrahma/salah-widget/internal/location"
	"github.com/aalrahma/salah-widget/internal/prayer"
)

const timingsCacheSource = "timings-cache"

// Timetable is one day's resolved prayer schedule.
type Timetable struct {
	Boundaries prayer.BoundarySet `json:"boundaries"`
	Hijri      string             `json:"hijri"`
	Timezone   string             `json:"timezone,omitempty"`
	Date       string             `json:"date"` // YYYY-MM-DD
	IsFallback bool               `json:"is_fallback"`
}

// PrayerTimes resolves a day's timetable through the chain
// {persisted cache, primary endpoint, mirror endpoints} and degrades to
// the seasonal static table when the chain is exhausted.
type PrayerTimes struct {
	cache   *cache.Cache
	clients []*api.Client
	chain   *fallback.Chain[Timetable]
	method  int
	log     *zap.Logger

	// Query for the in-flight Resolve call. The chain sources read these
	// rather than taking parameters, which keeps Source[T] uniform.
	date   time.Time
	coords location.Coordinates

	current *Timetable
	lastOK  bool
}

// NewPrayerTimes builds the timetable resolver. One chain source is
// created per client, after the cache source. budget <= 0 gives every
// source one shot.
func NewPrayerTimes(c *cache.Cache, clients []*api.Client, method, budget int, log *zap.Logger) *PrayerTimes {
	if budget <= 0 {
		budget = len(clients) + 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := &PrayerTimes{
		cache:   c,
		clients: clients,
		method:  method,
		log:     log,
	}

	sources := make([]fallback.Source[Timetable], 0, len(clients)+1)
	sources = append(sources, fallback.SourceFunc(timingsCacheSource, r.fromCache))
	for i, client := range clients {
		name := "aladhan-primary"
		if i > 0 {
			name = fmt.Sprintf("aladhan-mirror-%d", i)
		}
		cl := client
		sources = append(sources, fallback.SourceFunc(name,
			func(ctx context.Context) (Timetable, error) {
				return r.fromEndpoint(ctx, cl)
			}))
	}
	r.chain = fallback.NewChain(log, budget, sources...)
	return r
}

// Resolve returns the timetable for the given civil date and location.
// A non-nil error means every source failed and the seasonal approximation
// is being served; the returned value is always usable.
func (r *PrayerTimes) Resolve(ctx context.Context, date time.Time, coords location.Coordinates) (Timetable, error) {
	dayKey := date.Format("2006-01-02")
	if r.current != nil && r.current.Date == dayKey && r.coords == coords {
		return *r.current, nil
	}

	if r.lastOK {
		r.chain.Reset()
		r.lastOK = false
	}
	r.date = date
	r.coords = coords

	tt, err := r.chain.Resolve(ctx)
	if err != nil {
		tt = Timetable{
			Boundaries: prayer.SeasonalBoundaries(date),
			Hijri:      prayer.ApproxHijri(date),
			Date:       dayKey,
			IsFallback: true,
		}
		r.current = &tt
		r.log.Warn("prayer times degraded to seasonal approximation",
			zap.String("date", dayKey), zap.Error(err))
		return tt, fmt.Errorf("prayer times: %w", err)
	}

	r.lastOK = true
	r.current = &tt
	// Only fresh fetches are persisted; a cache hit already has a
	// correctly stamped entry.
	if r.chain.LastSource() != timingsCacheSource {
		if err := cache.Save(r.cache, cache.TimingsKey, r.queryKey(), tt); err != nil {
			r.log.Warn("failed to persist timetable", zap.Error(err))
		}
	}
	return tt, nil
}

// Refresh discards cached timetables and re-runs the full chain.
func (r *PrayerTimes) Refresh(ctx context.Context, date time.Time, coords location.Coordinates) (Timetable, error) {
	r.current = nil
	r.lastOK = false
	if err := r.cache.Remove(cache.TimingsKey); err != nil {
		r.log.Warn("failed to clear timings cache", zap.Error(err))
	}
	r.chain.Reset()
	return r.Resolve(ctx, date, coords)
}

func (r *PrayerTimes) queryKey() string {
	return fmt.Sprintf("%s|%s|%d",
		r.date.Format("2006-01-02"), r.coords.RoundedKey(), r.method)
}

func (r *PrayerTimes) fromCache(ctx context.Context) (Timetable, error) {
	// Timetables are valid for the whole civil day, so the entry carries
	// no TTL; a date or location change invalidates via the query key.
	tt, ok := cache.Load[Timetable](r.cache, cache.TimingsKey, r.queryKey(), 0)
	if !ok {
		return Timetable{}, errors.New("no cached timetable for query")
	}
	if !tt.Boundaries.Valid() {
		return Timetable{}, errors.New("cached timetable is malformed")
	}
	return tt, nil
}

func (r *PrayerTimes) fromEndpoint(ctx context.Context, client *api.Client) (Timetable, error) {
	resp, err := client.FetchTimings(ctx, r.date, r.coords.Latitude, r.coords.Longitude, r.method)
	if err != nil {
		return Timetable{}, err
	}

	tt := Timetable{
		Boundaries: prayer.BoundarySet{
			Fajr:    resp.Data.Timings.Fajr,
			Sunrise: resp.Data.Timings.Sunrise,
			Dhuhr:   resp.Data.Timings.Dhuhr,
			Asr:     resp.Data.Timings.Asr,
			Maghrib: resp.Data.Timings.Maghrib,
			Isha:    resp.Data.Timings.Isha,
		},
		Hijri:    resp.Data.Date.Hijri.Format(),
		Timezone: resp.Data.Meta.Timezone,
		Date:     r.date.Format("2006-01-02"),
	}
	if !tt.Boundaries.Valid() {
		return Timetable{}, fallback.E(fallback.KindParse,
			errors.New("endpoint returned malformed timings"))
	}
	return tt, nil
}
