package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aalrahma/salah-widget/internal/cache"
	"github.com/aalrahma/salah-widget/internal/fallback"
	"github.com/aalrahma/salah-widget/internal/location"
	"github.com/aalrahma/salah-widget/internal/weather"
)

// Weather resolves a current-conditions snapshot through the chain
// {persisted cache, providers...}. Unlike location and prayer times it
// has no static terminal value: on exhaustion the widget simply shows
// weather as unavailable.
const weatherCacheSource = "weather-cache"

type Weather struct {
	cache     *cache.Cache
	providers []weather.Provider
	chain     *fallback.Chain[weather.Snapshot]
	log       *zap.Logger

	coords location.Coordinates
	lastOK bool
}

// NewWeather builds the weather resolver. budget <= 0 gives every source
// one shot.
func NewWeather(c *cache.Cache, providers []weather.Provider, budget int, log *zap.Logger) *Weather {
	if budget <= 0 {
		budget = len(providers) + 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := &Weather{
		cache:     c,
		providers: providers,
		log:       log,
	}

	sources := make([]fallback.Source[weather.Snapshot], 0, len(providers)+1)
	sources = append(sources, fallback.SourceFunc(weatherCacheSource, r.fromCache))
	for _, p := range providers {
		prov := p
		sources = append(sources, fallback.SourceFunc(prov.Name(),
			func(ctx context.Context) (weather.Snapshot, error) {
				return r.fromProvider(ctx, prov)
			}))
	}
	r.chain = fallback.NewChain(log, budget, sources...)
	return r
}

// Resolve returns the current snapshot for the given coordinates. ok is
// false when no source could produce a plausible snapshot; the widget
// renders the weather cell as unavailable in that case.
func (r *Weather) Resolve(ctx context.Context, coords location.Coordinates) (weather.Snapshot, bool) {
	if r.lastOK {
		r.chain.Reset()
		r.lastOK = false
	}
	r.coords = coords

	snap, err := r.chain.Resolve(ctx)
	if err != nil {
		r.log.Warn("weather unavailable", zap.Error(err))
		return weather.Snapshot{}, false
	}

	r.lastOK = true
	// A cache hit must not be written back: re-stamping StoredAt would
	// keep a snapshot alive past its TTL across the minute cycles.
	if r.chain.LastSource() != weatherCacheSource {
		if err := cache.Save(r.cache, cache.WeatherKey, r.queryKey(), snap); err != nil {
			r.log.Warn("failed to persist weather snapshot", zap.Error(err))
		}
	}
	return snap, true
}

// Refresh discards the cached snapshot and re-runs the full chain.
func (r *Weather) Refresh(ctx context.Context, coords location.Coordinates) (weather.Snapshot, bool) {
	r.lastOK = false
	if err := r.cache.Remove(cache.WeatherKey); err != nil {
		r.log.Warn("failed to clear weather cache", zap.Error(err))
	}
	r.chain.Reset()
	return r.Resolve(ctx, coords)
}

func (r *Weather) queryKey() string {
	return fmt.Sprintf("weather|%s", r.coords.RoundedKey())
}

func (r *Weather) fromCache(ctx context.Context) (weather.Snapshot, error) {
	snap, ok := cache.Load[weather.Snapshot](r.cache, cache.WeatherKey, r.queryKey(), cache.WeatherTTL)
	if !ok {
		return weather.Snapshot{}, errors.New("no unexpired cached snapshot")
	}
	if !snap.Plausible(r.coords) {
		return weather.Snapshot{}, errors.New("cached snapshot implausible for location")
	}
	return snap, nil
}

func (r *Weather) fromProvider(ctx context.Context, p weather.Provider) (weather.Snapshot, error) {
	snap, err := p.Fetch(ctx, r.coords)
	if err != nil {
		return weather.Snapshot{}, err
	}
	if !snap.Plausible(r.coords) {
		return weather.Snapshot{}, fallback.E(fallback.KindParse,
			fmt.Errorf("%s returned implausible snapshot: %d°C %s",
				p.Name(), snap.TemperatureC, snap.Condition))
	}
	return snap, nil
}
