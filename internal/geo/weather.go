package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ourcircle/internal/models"
	"ourcircle/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// WeatherClient fetches current conditions for a coordinate pair. Unlike
// geocoding, failures here surface directly to the caller.
type WeatherClient interface {
	Current(ctx context.Context, lat, lon float64) (*models.WeatherReport, error)
}

type openWeatherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewWeatherClient returns a WeatherClient backed by an OpenWeather-compatible
// endpoint.
func NewWeatherClient(baseURL, apiKey string) WeatherClient {
	return &openWeatherClient{baseURL: baseURL, apiKey: apiKey, client: httpClient}
}

type currentWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (w *openWeatherClient) Current(ctx context.Context, lat, lon float64) (*models.WeatherReport, error) {
	span, ctx := observability.NewClientSpan(ctx, "geo.CurrentWeather",
		attribute.Float64("geo.lat", lat),
		attribute.Float64("geo.lon", lon),
	)
	defer span.End()

	start := time.Now()
	report, err := w.current(ctx, lat, lon)
	outcome := "success"
	if err != nil {
		outcome = "error"
		span.SetError(err)
	}
	observability.UpstreamRequestLatency.WithLabelValues("weather", outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, models.NewUpstreamError("Weather", err)
	}
	return report, nil
}

func (w *openWeatherClient) current(ctx context.Context, lat, lon float64) (*models.WeatherReport, error) {
	endpoint := fmt.Sprintf("%s/data/2.5/weather?%s", w.baseURL, url.Values{
		"lat":   {fmt.Sprintf("%f", lat)},
		"lon":   {fmt.Sprintf("%f", lon)},
		"appid": {w.apiKey},
		"units": {"metric"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	var body currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	report := &models.WeatherReport{
		Location:    body.Name,
		Temperature: body.Main.Temp,
		Humidity:    body.Main.Humidity,
		WindSpeed:   body.Wind.Speed,
	}
	if len(body.Weather) > 0 {
		report.Description = body.Weather[0].Description
	}
	return report, nil
}
