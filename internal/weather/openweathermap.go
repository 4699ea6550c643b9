package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/aalrahma/salah-widget/internal/fallback"
	"github.com/aalrahma/salah-widget/internal/location"
)

// DefaultOWMBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultOWMBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherMap is the primary weather provider. It requires an API key;
// when none is configured the resolver skips it entirely.
type OpenWeatherMap struct {
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	circuit    *gobreaker.CircuitBreaker
	// BaseURL is exported for testing with httptest.
	BaseURL string
}

// NewOpenWeatherMap creates the provider. A nil limiter disables rate
// limiting; the circuit breaker keeps a struggling endpoint from being
// hammered on every scheduled cycle.
func NewOpenWeatherMap(apiKey string, limiter *rate.Limiter) *OpenWeatherMap {
	return &OpenWeatherMap{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: limiter,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openweathermap",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		BaseURL: DefaultOWMBaseURL,
	}
}

func (p *OpenWeatherMap) Name() string { return "openweathermap" }

// owmResponse maps the provider-specific response shape.
type owmResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

// Fetch gets the current weather and normalizes it to a Snapshot.
func (p *OpenWeatherMap) Fetch(ctx context.Context, coords location.Coordinates) (Snapshot, error) {
	if p.apiKey == "" {
		return Snapshot{}, fallback.Errorf(fallback.KindNetwork, "openweathermap: no API key configured")
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return Snapshot{}, fallback.Classify(err)
		}
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	params.Set("lon", fmt.Sprintf("%f", coords.Longitude))
	params.Set("appid", p.apiKey)
	params.Set("units", "metric")

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
			body, _ := io.ReadAll(resp.Body)
			return nil, fallback.Errorf(fallback.KindNetwork,
				"openweathermap returned status %d: %s", resp.StatusCode, string(body))
		}

		var payload owmResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fallback.Errorf(fallback.KindParse,
				"failed to decode openweathermap response: %w", err)
		}
		return &payload, nil
	})
	if err != nil {
		return Snapshot{}, fallback.Classify(err)
	}

	payload := result.(*owmResponse)

	icon := ""
	if len(payload.Weather) > 0 {
		icon = payload.Weather[0].Icon
	}

	observed := time.Now()
	if payload.Dt > 0 {
		observed = time.Unix(payload.Dt, 0)
	}

	return Snapshot{
		TemperatureC: int(math.Round(payload.Main.Temp)),
		Condition:    owmCondition(icon),
		ObservedAt:   observed,
	}, nil
}

// owmCondition maps OpenWeatherMap icon codes to the normalized enum.
func owmCondition(icon string) Condition {
	if icon == "" {
		return Unknown
	}

	night := strings.HasSuffix(icon, "n")
	switch strings.TrimRight(icon, "dn") {
	case "01":
		if night {
			return ClearNight
		}
		return Sunny
	case "02":
		return PartlyCloudy
	case "03", "04":
		return Cloudy
	case "09", "10":
		return Rainy
	case "11":
		return Stormy
	case "13":
		return Snowy
	case "50":
		return Foggy
	default:
		return Unknown
	}
}
