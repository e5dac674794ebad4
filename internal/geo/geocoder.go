// Package geo wraps the external geocoding and weather collaborators.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ourcircle/internal/middleware"
	"ourcircle/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// httpClient is shared by the geocoder and weather clients.
var httpClient = &http.Client{Timeout: 5 * time.Second}

// Geocoder resolves coordinates to a human-readable place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

type nominatimGeocoder struct {
	baseURL string
	client  *http.Client
}

// NewGeocoder returns a Geocoder backed by a Nominatim-compatible endpoint.
func NewGeocoder(baseURL string) Geocoder {
	return &nominatimGeocoder{baseURL: baseURL, client: httpClient}
}

type reverseGeocodeResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (g *nominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	span, ctx := observability.NewClientSpan(ctx, "geo.ReverseGeocode",
		attribute.Float64("geo.lat", lat),
		attribute.Float64("geo.lon", lon),
	)
	defer span.End()

	start := time.Now()
	name, err := g.reverseGeocode(ctx, lat, lon)
	outcome := "success"
	if err != nil {
		outcome = "error"
		span.SetError(err)
	}
	observability.UpstreamRequestLatency.WithLabelValues("geocoder", outcome).Observe(time.Since(start).Seconds())

	return name, err
}

func (g *nominatimGeocoder) reverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?%s", g.baseURL, url.Values{
		"format": {"jsonv2"},
		"lat":    {fmt.Sprintf("%f", lat)},
		"lon":    {fmt.Sprintf("%f", lon)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "ourcircle/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Error != "" {
		return "", fmt.Errorf("geocoder error: %s", body.Error)
	}
	if body.DisplayName == "" {
		return "", fmt.Errorf("geocoder returned no result")
	}
	return body.DisplayName, nil
}

// ResolveLocation turns coordinates into a display string for post metadata.
// A failed lookup, including a missing geocoder, degrades to the raw
// coordinates instead of failing the caller's write.
func ResolveLocation(ctx context.Context, g Geocoder, lat, lon float64) string {
	if g == nil {
		observability.GeocoderFallbacks.Inc()
		return fmt.Sprintf("Lat: %v, Lon: %v", lat, lon)
	}
	name, err := g.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Reverse geocoding failed, falling back to raw coordinates",
			"error", err.Error(),
		)
		observability.GeocoderFallbacks.Inc()
		return fmt.Sprintf("Lat: %v, Lon: %v", lat, lon)
	}
	return name
}
