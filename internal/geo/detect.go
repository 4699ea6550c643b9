// Package geo resolves the user's position (IP geolocation) and turns
// coordinates into a human-readable place name (reverse geocoding).
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aalrahma/salah-widget/internal/fallback"
	"github.com/aalrahma/salah-widget/internal/location"
)

// DefaultDetectURL is the ip-api.com endpoint. Free, no API key.
const DefaultDetectURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// DetectTimeout bounds a geolocation attempt before the resolver fails
// over to the next source.
const DetectTimeout = 10 * time.Second

// Position is a detected geographic position with place metadata.
type Position struct {
	Coordinates location.Coordinates
	City        string
	Country     string
	Timezone    string
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// Detector locates the user from their public IP address.
type Detector struct {
	httpClient *http.Client
	// BaseURL is exported for testing with httptest.
	BaseURL string
}

// NewDetector creates a Detector with the default endpoint and timeout.
func NewDetector() *Detector {
	return &Detector{
		httpClient: &http.Client{Timeout: DetectTimeout},
		BaseURL:    DefaultDetectURL,
	}
}

// Detect resolves the current position. Failures carry a fallback.Kind:
// denied access maps to KindPermissionDenied, slow responses to
// KindTimeout, everything else to KindNetwork or KindParse.
func (d *Detector) Detect(ctx context.Context) (Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL, nil)
	if err != nil {
		return Position{}, fallback.E(fallback.KindNetwork, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Position{}, fallback.Classify(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests:
		return Position{}, fallback.Errorf(fallback.KindPermissionDenied,
			"geolocation access refused (status %d)", resp.StatusCode)
	default:
		return Position{}, fallback.Errorf(fallback.KindNetwork,
			"geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Position{}, fallback.Errorf(fallback.KindParse,
			"failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return Position{}, fallback.Errorf(fallback.KindNetwork,
			"geolocation failed: %s", result.Message)
	}

	coords := location.Coordinates{Latitude: result.Lat, Longitude: result.Lon}
	if !coords.Valid() {
		return Position{}, fallback.E(fallback.KindParse,
			errors.New("geolocation returned out-of-range coordinates"))
	}

	return Position{
		Coordinates: coords,
		City:        result.City,
		Country:     result.Country,
		Timezone:    result.Timezone,
	}, nil
}
