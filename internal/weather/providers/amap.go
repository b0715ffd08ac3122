package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-team/internal/weather"
)

// DefaultAMapBaseURL is the AMap geocoding endpoint.
const DefaultAMapBaseURL = "https://restapi.amap.com/v3/geocode/geo"

// AMapGeocoder implements weather.Geocoder against the AMap geocoding API.
type AMapGeocoder struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewAMapGeocoder(httpCfg HTTPClientConfig, apiKey, baseURL string) *AMapGeocoder {
	if baseURL == "" {
		baseURL = DefaultAMapBaseURL
	}
	return &AMapGeocoder{
		name:    "amap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newBreaker("amap"),
	}
}

func (g *AMapGeocoder) Name() string {
	return g.name
}

type amapResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Count    string `json:"count"`
	Geocodes []struct {
		FormattedAddress string `json:"formatted_address"`
		Location         string `json:"location"`
	} `json:"geocodes"`
}

// Geocode returns every candidate AMap reports, best first. An answer with no
// matches is an empty slice, not an error.
func (g *AMapGeocoder) Geocode(ctx context.Context, query string) ([]weather.Coordinates, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: amap api key is not configured", weather.ErrConfiguration)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", g.apiKey)
		values.Set("address", query)
		values.Set("output", "json")
		return http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", g.baseURL, values.Encode()), nil)
	}

	resp, err := doRequest(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body amapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode amap response: %v", weather.ErrTransport, err)
	}

	if body.Status != "1" {
		return nil, fmt.Errorf("%w: amap status %q: %s", weather.ErrTransport, body.Status, body.Info)
	}
	if body.Count == "0" || len(body.Geocodes) == 0 {
		return nil, nil
	}

	out := make([]weather.Coordinates, 0, len(body.Geocodes))
	for _, gc := range body.Geocodes {
		c, err := parseLonLat(gc.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: amap location: %v", weather.ErrTransport, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// parseLonLat parses AMap's "lon,lat" pair.
func parseLonLat(s string) (weather.Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return weather.Coordinates{}, fmt.Errorf("malformed location %q", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("malformed longitude %q: %w", parts[0], err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("malformed latitude %q: %w", parts[1], err)
	}
	return weather.NewCoordinates(lat, lon)
}
