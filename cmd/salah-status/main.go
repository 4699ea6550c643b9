// salah-status prints a single prayer-countdown line for tmux status
// bars and shell prompts, then exits. It shares the widget's cache, so
// a running widget keeps the status line fresh for free.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/aalrahma/salah-widget/internal/api"
	"github.com/aalrahma/salah-widget/internal/cache"
	"github.com/aalrahma/salah-widget/internal/display"
	"github.com/aalrahma/salah-widget/internal/geo"
	"github.com/aalrahma/salah-widget/internal/location"
	"github.com/aalrahma/salah-widget/internal/prayer"
	"github.com/aalrahma/salah-widget/internal/resolver"
	"github.com/aalrahma/salah-widget/internal/store"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	latitude := flag.Float64("latitude", 0, "Latitude (skips geolocation)")
	longitude := flag.Float64("longitude", 0, "Longitude (skips geolocation)")
	method := flag.Int("method", 4, "Calculation method ID (0-23)")
	timeFormat := flag.String("time-format", "24h", "Time format: 12h or 24h")
	cacheDir := flag.String("cache-dir", "", "Cache directory (default: ~/.cache/salah-widget/)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("salah-status %s\n", version)
		return
	}

	if err := run(*latitude, *longitude, *method, *timeFormat, *cacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(lat, lon float64, method int, timeFmt, cacheDir string) error {
	goTimeFmt := "15:04"
	if timeFmt == "12h" {
		goTimeFmt = "3:04 PM"
	}

	var st store.Store
	fs, err := store.NewFileStore(cacheDir)
	if err != nil {
		// A status line must render even with a broken cache dir.
		st = store.NewMemoryStore()
	} else {
		st = fs
	}
	c := cache.New(st)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	locations := resolver.NewLocation(c, geo.NewDetector(), geo.NewReverser(), 0, nil)
	if lat != 0 || lon != 0 {
		locations.SetFixed(location.Resolved{
			Coordinates: location.Coordinates{Latitude: lat, Longitude: lon},
			Timestamp:   time.Now(),
		})
	}

	// Degraded resolutions still yield usable values; the status bar
	// shows the approximation marker instead of an error.
	loc, _ := locations.Resolve(ctx)

	limiter := rate.NewLimiter(rate.Every(time.Second), 2)
	clients := []*api.Client{api.NewClient(api.DefaultBaseURL, limiter)}
	for _, mirror := range api.DefaultMirrors {
		clients = append(clients, api.NewClient(mirror, limiter))
	}
	timetables := resolver.NewPrayerTimes(c, clients, method, 0, nil)

	now := time.Now()
	tt, _ := timetables.Resolve(ctx, now, loc.Coordinates)

	cd, err := prayer.Tick(now, tt.Boundaries)
	if err != nil {
		return fmt.Errorf("could not compute countdown: %w", err)
	}

	fmt.Print(display.StatusLine(tt, cd, goTimeFmt))
	return nil
}
