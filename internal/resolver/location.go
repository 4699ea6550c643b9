// Package resolver wires the fallback chains for the widget's three data
// concerns: location, prayer times, and weather. Each resolver owns its
// chain, its cache entries, and its attempt state.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zsefvlol/timezonemapper"
	"go.uber.org/zap"

	"github.com/aalrahma/salah-widget/internal/cache"
	"github.com/aalrahma/salah-widget/internal/fallback"
	"github.com/aalrahma/salah-widget/internal/geo"
	"github.com/aalrahma/salah-widget/internal/location"
)

// DefaultLocationBudget gives each fallible location source one shot.
const DefaultLocationBudget = 2

const locationCacheSource = "location-cache"

// Location resolves the user's location through the chain
// {in-memory value, persisted cache, geolocation + reverse geocode} and
// degrades to the static default when the chain is exhausted.
type Location struct {
	cache    *cache.Cache
	detector *geo.Detector
	reverser *geo.Reverser
	chain    *fallback.Chain[location.Resolved]
	log      *zap.Logger

	current *location.Resolved
	fixed   bool
	lastOK  bool
}

// NewLocation builds the location resolver. budget <= 0 selects the default.
func NewLocation(c *cache.Cache, d *geo.Detector, r *geo.Reverser, budget int, log *zap.Logger) *Location {
	if budget <= 0 {
		budget = DefaultLocationBudget
	}
	if log == nil {
		log = zap.NewNop()
	}

	lr := &Location{
		cache:    c,
		detector: d,
		reverser: r,
		log:      log,
	}
	lr.chain = fallback.NewChain(log, budget,
		fallback.SourceFunc(locationCacheSource, lr.fromCache),
		fallback.SourceFunc("geolocation", lr.fromGeolocation),
	)
	return lr
}

// Resolve returns the session's location. A non-nil error means the chain
// was exhausted and the static default is being served; the returned
// value is always usable.
func (r *Location) Resolve(ctx context.Context) (location.Resolved, error) {
	// In-memory value first: a location, once obtained, is immutable for
	// the session until a manual refresh supersedes it.
	if r.current != nil {
		return *r.current, nil
	}

	// A chain that completed its last cycle cleanly starts the next one
	// from the top; only exhaustion is sticky.
	if r.lastOK {
		r.chain.Reset()
		r.lastOK = false
	}

	loc, err := r.chain.Resolve(ctx)
	if err != nil {
		def := location.Default()
		r.current = &def
		r.log.Warn("location resolution degraded to static default",
			zap.Error(err))
		return def, fmt.Errorf("location: %w", err)
	}

	r.lastOK = true
	r.current = &loc
	// A cache hit must not be written back: re-stamping StoredAt would
	// keep the entry alive past its TTL.
	if r.chain.LastSource() != locationCacheSource {
		if err := cache.Save(r.cache, cache.LocationKey, cache.LocationKey, loc); err != nil {
			r.log.Warn("failed to persist location", zap.Error(err))
		}
	}
	return loc, nil
}

// Refresh clears the cached location and re-runs the full chain,
// bypassing any prior budget exhaustion.
func (r *Location) Refresh(ctx context.Context) (location.Resolved, error) {
	if r.fixed {
		return *r.current, nil
	}
	r.current = nil
	r.lastOK = false
	if err := r.cache.Remove(cache.LocationKey); err != nil {
		r.log.Warn("failed to clear location cache", zap.Error(err))
	}
	r.chain.Reset()
	return r.Resolve(ctx)
}

// SetFixed pins the session location, bypassing the chain entirely.
// Used when the user configured explicit coordinates.
func (r *Location) SetFixed(loc location.Resolved) {
	if loc.Timezone == "" {
		loc.Timezone = timezonemapper.LatLngToTimezoneString(
			loc.Coordinates.Latitude, loc.Coordinates.Longitude)
	}
	r.current = &loc
	r.fixed = true
	r.lastOK = true
}

// Current returns the in-memory location, if one has been resolved.
func (r *Location) Current() (location.Resolved, bool) {
	if r.current == nil {
		return location.Resolved{}, false
	}
	return *r.current, true
}

func (r *Location) fromCache(ctx context.Context) (location.Resolved, error) {
	loc, ok := cache.Load[location.Resolved](r.cache, cache.LocationKey, cache.LocationKey, cache.LocationTTL)
	if !ok {
		return location.Resolved{}, errors.New("no unexpired cached location")
	}
	if !loc.Coordinates.Valid() {
		return location.Resolved{}, errors.New("cached location has invalid coordinates")
	}
	return loc, nil
}

func (r *Location) fromGeolocation(ctx context.Context) (location.Resolved, error) {
	dctx, cancel := context.WithTimeout(ctx, geo.DetectTimeout)
	defer cancel()

	pos, err := r.detector.Detect(dctx)
	if err != nil {
		return location.Resolved{}, err
	}

	loc := location.Resolved{
		Coordinates: pos.Coordinates,
		City:        pos.City,
		Country:     pos.Country,
		Timezone:    pos.Timezone,
		Timestamp:   time.Now(),
	}
	if loc.Timezone == "" {
		loc.Timezone = timezonemapper.LatLngToTimezoneString(
			pos.Coordinates.Latitude, pos.Coordinates.Longitude)
	}

	// Reverse geocoding only improves the display name; its failure must
	// not fail the whole resolution.
	place, err := r.reverser.Reverse(ctx, pos.Coordinates)
	if err != nil {
		r.log.Warn("reverse geocoding failed, displaying raw coordinates",
			zap.Error(err))
		coordText := pos.Coordinates.String()
		if loc.City == "" {
			loc.City = coordText
		}
		if loc.Country == "" {
			loc.Country = "Unknown"
		}
		loc.DisplayName = coordText
		return loc, nil
	}

	if place.City != "" {
		loc.City = place.City
	}
	if place.Country != "" {
		loc.Country = place.Country
	}
	loc.DisplayName = place.DisplayName
	return loc, nil
}
