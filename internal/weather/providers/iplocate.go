package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-team/internal/weather"
)

// DefaultIPLocateURL answers with the caller's approximate location.
const DefaultIPLocateURL = "http://ip-api.com/json/?lang=zh-CN"

// IPLocator implements weather.Locator with an ip-api.com style endpoint.
type IPLocator struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewIPLocator(httpCfg HTTPClientConfig, url string) *IPLocator {
	if url == "" {
		url = DefaultIPLocateURL
	}
	return &IPLocator{
		url:     url,
		httpCfg: httpCfg,
		circuit: newBreaker("iplocate"),
	}
}

type ipLocateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Country string `json:"country"`
	Region  string `json:"regionName"`
	City    string `json:"city"`
}

// Locate returns the city reported for the caller's public IP.
func (l *IPLocator) Locate(ctx context.Context) (string, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	}

	resp, err := doRequest(ctx, l.httpCfg, l.circuit, buildRequest)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body ipLocateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode ip location: %v", weather.ErrTransport, err)
	}
	if body.Status != "" && body.Status != "success" {
		return "", fmt.Errorf("%w: ip location status %q: %s", weather.ErrTransport, body.Status, body.Message)
	}
	if body.City == "" {
		return "", fmt.Errorf("%w: ip location has no city", weather.ErrNotFound)
	}
	return body.City, nil
}
