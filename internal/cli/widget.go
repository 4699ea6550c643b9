package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/aalrahma/salah-widget/internal/api"
	"github.com/aalrahma/salah-widget/internal/app"
	"github.com/aalrahma/salah-widget/internal/cache"
	"github.com/aalrahma/salah-widget/internal/config"
	"github.com/aalrahma/salah-widget/internal/display"
	"github.com/aalrahma/salah-widget/internal/geo"
	"github.com/aalrahma/salah-widget/internal/location"
	"github.com/aalrahma/salah-widget/internal/resolver"
	"github.com/aalrahma/salah-widget/internal/store"
	"github.com/aalrahma/salah-widget/internal/weather"
)

// buildApp assembles the resolver stack and widget for the given
// effective config. redraw selects full-screen repainting.
func buildApp(cfg *config.Config, out io.Writer, redraw bool) *app.App {
	var st store.Store
	fs, err := store.NewFileStore(cfg.CacheDir)
	if err != nil {
		// Cache init failure is non-fatal; run with an in-memory store.
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		st = store.NewMemoryStore()
	} else {
		st = fs
	}
	c := cache.New(st)

	locations := resolver.NewLocation(c, geo.NewDetector(), geo.NewReverser(), FlagBudget, logger)
	if cfg.HasFixedLocation() {
		locations.SetFixed(location.Resolved{
			Coordinates: location.Coordinates{
				Latitude:  cfg.Latitude,
				Longitude: cfg.Longitude,
			},
			City:      cfg.City,
			Country:   cfg.Country,
			Timestamp: time.Now(),
		})
	}

	// The Al Adhan endpoints share one limiter: mirrors are fallbacks,
	// not extra capacity.
	limiter := rate.NewLimiter(rate.Every(time.Second), 2)
	clients := []*api.Client{api.NewClient(api.DefaultBaseURL, limiter)}
	for _, mirror := range api.DefaultMirrors {
		clients = append(clients, api.NewClient(mirror, limiter))
	}
	timetables := resolver.NewPrayerTimes(c, clients,
		cfg.MethodOrDefault(config.DefaultMethod), FlagBudget, logger)

	weatherLimiter := rate.NewLimiter(rate.Every(time.Second), 1)
	var providers []weather.Provider
	if cfg.WeatherAPIKey != "" {
		providers = append(providers, weather.NewOpenWeatherMap(cfg.WeatherAPIKey, weatherLimiter))
	}
	providers = append(providers, weather.NewOpenMeteo(weatherLimiter))
	snapshots := resolver.NewWeather(c, providers, FlagBudget, logger)

	widget := display.NewWidget(out, cfg.TimeLayout(), redraw)
	return app.New(locations, timetables, snapshots, widget, logger)
}

// runWidget is the root command's action: bootstrap, start the tick
// loops, and block until interrupted.
func runWidget(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	a := buildApp(cfg, os.Stdout, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Bootstrap(ctx)

	sched, err := app.NewScheduler(ctx, a, time.Local, logger)
	if err != nil {
		return fmt.Errorf("failed to build scheduler: %w", err)
	}
	sched.Start()

	<-ctx.Done()
	sched.Stop()
	fmt.Println()
	return nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the live widget (default)",
		Long:  "Run the full-screen widget with a per-second countdown. Equivalent to invoking the binary with no subcommand.",
		RunE:  runWidget,
	}
}

func newOnceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Render a single frame and exit",
		Long:  "Resolve location, prayer times, and weather once, print the widget frame, and exit without starting the tick loops.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			a := buildApp(cfg, os.Stdout, false)
			a.Bootstrap(cmd.Context())
			return nil
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Discard caches, re-resolve everything, and print a frame",
		Long:  "Clear cached location, prayer times, and weather, then re-run every source chain from the top. Use this after a network outage or a change of location.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			a := buildApp(cfg, os.Stdout, false)
			a.Refresh(cmd.Context())
			return nil
		},
	}
}
