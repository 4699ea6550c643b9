// Package api implements the Al Adhan prayer-times client. The same
// client type serves both the primary endpoint and its mirrors; the
// resolver layer decides which base URL to consult in what order.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/aalrahma/salah-widget/internal/fallback"
)

// DefaultBaseURL is the primary Al Adhan endpoint.
const DefaultBaseURL = "https://api.aladhan.com/v1"

// DefaultMirrors are alternate routes to the same data, tried by the
// prayer-times fallback chain when the primary endpoint is unreachable.
var DefaultMirrors = []string{
	"https://api.aladhan.com/v1", // second direct attempt
	"https://aladhan.p.rapidapi.com/v1",
}

// Client communicates with one Al Adhan base URL.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	// BaseURL is exported for testing with httptest.
	BaseURL string
}

// NewClient creates a client for the given base URL. An empty baseURL
// selects the primary endpoint. The limiter may be shared across clients
// to bound the request rate against the free API; nil disables limiting.
func NewClient(baseURL string, limiter *rate.Limiter) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: limiter,
		BaseURL: baseURL,
	}
}

// FetchTimings fetches prayer times for the given date and coordinates.
// method selects the calculation method; pass -1 for the API default.
func (c *Client) FetchTimings(ctx context.Context, date time.Time, lat, lon float64, method int) (*Response, error) {
	dateStr := date.Format("02-01-2006")
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, dateStr)

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	if method >= 0 {
		params.Set("method", fmt.Sprintf("%d", method))
	}

	return c.doRequest(ctx, endpoint, params)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fallback.Classify(fmt.Errorf("rate limit wait: %w", err))
		}
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fallback.E(fallback.KindNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fallback.Classify(fmt.Errorf("prayer times request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fallback.Errorf(fallback.KindNetwork,
			"prayer times API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fallback.Errorf(fallback.KindParse, "failed to decode prayer times response: %w", err)
	}

	if apiResp.Code != 200 {
		return nil, fallback.Errorf(fallback.KindNetwork,
			"prayer times API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}

	return &apiResp, nil
}
