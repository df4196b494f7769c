package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"distro-go/internal/config"
)

// Coordinates is a geocoded point.
type Coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

var client = &http.Client{Timeout: 10 * time.Second}

// Geocode resolves a free-form address through Nominatim. Returns nil when
// the address cannot be resolved; delivery screens fall back to the address
// text.
func Geocode(ctx context.Context, address string) (*Coordinates, error) {
	cfg := config.Cfg.Geocode

	endpoint := fmt.Sprintf("%s/search?%s", cfg.BaseURL, url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request failed with status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %v", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	return &Coordinates{Latitude: results[0].Lat, Longitude: results[0].Lon}, nil
}

// DirectionsURL builds a Google Maps directions link a deliverer can open on
// their phone for a shop address.
func DirectionsURL(address string) string {
	return "https://www.google.com/maps/dir/?api=1&destination=" + url.QueryEscape(address)
}
