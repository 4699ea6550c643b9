package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/aalrahma/salah-widget/internal/fallback"
	"github.com/aalrahma/salah-widget/internal/location"
)

// DefaultOpenMeteoBaseURL is the Open-Meteo forecast endpoint.
const DefaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteo is the secondary weather provider. Free, keyless, and with a
// different response shape that is translated to the common Snapshot.
type OpenMeteo struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	circuit    *gobreaker.CircuitBreaker
	// BaseURL is exported for testing with httptest.
	BaseURL string
}

// NewOpenMeteo creates the provider.
func NewOpenMeteo(limiter *rate.Limiter) *OpenMeteo {
	return &OpenMeteo{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: limiter,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openmeteo",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		BaseURL: DefaultOpenMeteoBaseURL,
	}
}

func (p *OpenMeteo) Name() string { return "openmeteo" }

// openMeteoResponse maps the provider-specific response shape.
type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
		IsDay       int     `json:"is_day"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
}

// Fetch gets the current weather and normalizes it to a Snapshot.
func (p *OpenMeteo) Fetch(ctx context.Context, coords location.Coordinates) (Snapshot, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return Snapshot{}, fallback.Classify(err)
		}
	}

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", coords.Latitude))
	params.Set("longitude", fmt.Sprintf("%f", coords.Longitude))
	params.Set("current_weather", "true")

	result, err := p.circuit.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s?%s", p.BaseURL, params.Encode()), nil)
		if err != nil {
			return nil, fallback.E(fallback.KindNetwork, err)
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, fallback.Classify(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fallback.Errorf(fallback.KindNetwork,
				"open-meteo returned status %d", resp.StatusCode)
		}

		var payload openMeteoResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fallback.Errorf(fallback.KindParse,
				"failed to decode open-meteo response: %w", err)
		}
		return &payload, nil
	})
	if err != nil {
		return Snapshot{}, fallback.Classify(err)
	}

	payload := result.(*openMeteoResponse)
	cw := payload.CurrentWeather

	observed := time.Now()
	if ts, err := time.Parse("2006-01-02T15:04", cw.Time); err == nil {
		observed = ts
	}

	return Snapshot{
		TemperatureC: int(math.Round(cw.Temperature)),
		Condition:    openMeteoCondition(cw.WeatherCode, cw.IsDay == 1),
		ObservedAt:   observed,
	}, nil
}

// openMeteoCondition maps WMO weather codes to the normalized enum.
func openMeteoCondition(code int, day bool) Condition {
	switch {
	case code == 0:
		if day {
			return Sunny
		}
		return ClearNight
	case code == 1 || code == 2:
		return PartlyCloudy
	case code == 3:
		return Cloudy
	case code == 45 || code == 48:
		return Foggy
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return Rainy
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return Snowy
	case code >= 95:
		return Stormy
	default:
		return Unknown
	}
}
