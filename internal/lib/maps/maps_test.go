package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"distro-go/internal/config"

	"github.com/stretchr/testify/require"
)

func withGeocodeServer(t *testing.T, handler http.HandlerFunc) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	prev := config.Cfg
	config.Cfg = &config.Config{Geocode: config.GeocodeConfig{
		BaseURL:   server.URL,
		UserAgent: "distro-api-test/1.0",
	}}
	t.Cleanup(func() { config.Cfg = prev })
}

func TestGeocode(t *testing.T) {
	withGeocodeServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "1 Galle Road, Colombo", r.URL.Query().Get("q"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"6.9271","lon":"79.8612"}]`))
	})

	coords, err := Geocode(context.Background(), "1 Galle Road, Colombo")
	require.NoError(t, err)
	require.NotNil(t, coords)
	require.Equal(t, "6.9271", coords.Latitude)
	require.Equal(t, "79.8612", coords.Longitude)
}

func TestGeocodeUnresolved(t *testing.T) {
	withGeocodeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	coords, err := Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	require.Nil(t, coords)
}

func TestDirectionsURL(t *testing.T) {
	url := DirectionsURL("1 Galle Road, Colombo")
	require.Contains(t, url, "google.com/maps/dir")
	require.Contains(t, url, "1+Galle+Road%2C+Colombo")
}
