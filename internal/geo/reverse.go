package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aalrahma/salah-widget/internal/fallback"
	"github.com/aalrahma/salah-widget/internal/location"
)

// DefaultReverseURL is the Nominatim reverse-geocoding endpoint.
const DefaultReverseURL = "https://nominatim.openstreetmap.org/reverse"

// Place is a reverse-geocoded place name.
type Place struct {
	City        string
	Country     string
	DisplayName string
}

// nominatimResponse maps the fields we use from a Nominatim reverse lookup.
type nominatimResponse struct {
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		County       string `json:"county"`
		Country      string `json:"country"`
	} `json:"address"`
}

// Reverser turns coordinates into a display name via Nominatim.
type Reverser struct {
	httpClient *http.Client
	// BaseURL is exported for testing with httptest.
	BaseURL string
}

// NewReverser creates a Reverser with the default endpoint.
func NewReverser() *Reverser {
	return &Reverser{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    DefaultReverseURL,
	}
}

// Reverse looks up the place name for the given coordinates.
// A reverse-geocoding failure is not fatal to location resolution; the
// caller substitutes the rounded coordinates as the display name.
func (r *Reverser) Reverse(ctx context.Context, coords location.Coordinates) (Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	params.Set("lon", fmt.Sprintf("%f", coords.Longitude))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?%s", r.BaseURL, params.Encode()), nil)
	if err != nil {
		return Place{}, fallback.E(fallback.KindNetwork, err)
	}
	// Nominatim usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "salah-widget")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Place{}, fallback.Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fallback.Errorf(fallback.KindNetwork,
			"reverse geocoding returned status %d", resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Place{}, fallback.Errorf(fallback.KindParse,
			"failed to decode reverse geocoding response: %w", err)
	}

	city := firstNonEmpty(
		result.Address.City,
		result.Address.Town,
		result.Address.Village,
		result.Address.Municipality,
		result.Address.County,
		"Unknown Location",
	)

	display := city
	if result.Address.Country != "" {
		display = fmt.Sprintf("%s, %s", city, result.Address.Country)
	}

	return Place{
		City:        city,
		Country:     result.Address.Country,
		DisplayName: display,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
