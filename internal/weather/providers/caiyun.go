package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-team/internal/weather"
)

// DefaultCaiyunBaseURL is the v2.6 endpoint root.
const DefaultCaiyunBaseURL = "https://api.caiyunapp.com/v2.6"

// CaiyunProvider implements weather.ForecastSource for the Caiyun daily API.
type CaiyunProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	limiter *rate.Limiter // nil disables client-side throttling
}

// NewCaiyunProvider creates the provider. qps <= 0 disables throttling;
// otherwise requests are spaced to at most qps per second (burst 1).
func NewCaiyunProvider(httpCfg HTTPClientConfig, apiKey, baseURL string, qps float64) *CaiyunProvider {
	if baseURL == "" {
		baseURL = DefaultCaiyunBaseURL
	}
	var limiter *rate.Limiter
	if qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
	return &CaiyunProvider{
		name:    "caiyun",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newBreaker("caiyun"),
		limiter: limiter,
	}
}

func (p *CaiyunProvider) Name() string {
	return p.name
}

// Fetch issues one daily-forecast request. days is clamped to [1,15].
// A payload whose status is not "ok" is returned without error.
func (p *CaiyunProvider) Fetch(ctx context.Context, coords weather.Coordinates, days int) (weather.ForecastResult, error) {
	if p.apiKey == "" {
		return weather.ForecastResult{}, fmt.Errorf("%w: caiyun api key is not configured", weather.ErrConfiguration)
	}
	days = weather.ClampHorizon(days)

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return weather.ForecastResult{}, fmt.Errorf("%w: throttle: %v", weather.ErrTransport, err)
		}
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("dailysteps", strconv.Itoa(days))

		// Caiyun expects longitude first.
		u := fmt.Sprintf("%s/%s/%s,%s/daily?%s",
			p.baseURL,
			url.PathEscape(p.apiKey),
			strconv.FormatFloat(coords.Longitude, 'f', -1, 64),
			strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
			values.Encode(),
		)
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ForecastResult{}, err
	}
	defer resp.Body.Close()

	var payload caiyunPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: decode caiyun payload: %v", weather.ErrTransport, err)
	}

	result, err := payload.toResult()
	if err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: %v", weather.ErrTransport, err)
	}
	return result, nil
}

type caiyunValue struct {
	Date        string   `json:"date"`
	Max         *float64 `json:"max"`
	Min         *float64 `json:"min"`
	Avg         *float64 `json:"avg"`
	Probability *float64 `json:"probability"`
}

type caiyunSkycon struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type caiyunWind struct {
	Date string `json:"date"`
	Avg  *struct {
		Speed     float64 `json:"speed"`
		Direction float64 `json:"direction"`
	} `json:"avg"`
}

type caiyunPayload struct {
	Status string `json:"status"`
	Result *struct {
		Daily *struct {
			Status        string         `json:"status"`
			Temperature   []caiyunValue  `json:"temperature"`
			Skycon        []caiyunSkycon `json:"skycon"`
			Precipitation []caiyunValue  `json:"precipitation"`
			Humidity      []caiyunValue  `json:"humidity"`
			Wind          []caiyunWind   `json:"wind"`
		} `json:"daily"`
	} `json:"result"`
}

// toResult converts the parallel per-field arrays into daily records. Any
// structural defect rejects the whole payload.
func (p caiyunPayload) toResult() (weather.ForecastResult, error) {
	if p.Status == "" {
		return weather.ForecastResult{}, fmt.Errorf("caiyun payload has no status")
	}
	if p.Status != weather.StatusOK {
		return weather.ForecastResult{Status: p.Status}, nil
	}
	if p.Result == nil || p.Result.Daily == nil {
		return weather.ForecastResult{}, fmt.Errorf("caiyun payload has no result.daily")
	}

	d := p.Result.Daily
	n := len(d.Temperature)
	if n == 0 {
		return weather.ForecastResult{}, fmt.Errorf("caiyun payload has no days")
	}
	if len(d.Skycon) != n || len(d.Precipitation) != n || len(d.Humidity) != n || len(d.Wind) != n {
		return weather.ForecastResult{}, fmt.Errorf(
			"caiyun arrays differ in length: temperature=%d skycon=%d precipitation=%d humidity=%d wind=%d",
			n, len(d.Skycon), len(d.Precipitation), len(d.Humidity), len(d.Wind))
	}

	days := make([]weather.DailyRecord, 0, n)
	for i := 0; i < n; i++ {
		t := d.Temperature[i]
		if t.Max == nil || t.Min == nil {
			return weather.ForecastResult{}, fmt.Errorf("day %d: temperature max/min missing", i)
		}
		date, err := parseCaiyunDate(t.Date)
		if err != nil {
			return weather.ForecastResult{}, fmt.Errorf("day %d: %w", i, err)
		}
		if d.Skycon[i].Value == "" {
			return weather.ForecastResult{}, fmt.Errorf("day %d: skycon missing", i)
		}
		if d.Precipitation[i].Probability == nil {
			return weather.ForecastResult{}, fmt.Errorf("day %d: precipitation probability missing", i)
		}
		if d.Humidity[i].Avg == nil {
			return weather.ForecastResult{}, fmt.Errorf("day %d: humidity avg missing", i)
		}
		if d.Wind[i].Avg == nil {
			return weather.ForecastResult{}, fmt.Errorf("day %d: wind avg missing", i)
		}

		days = append(days, weather.DailyRecord{
			Date:                     date,
			TempMin:                  *t.Min,
			TempMax:                  *t.Max,
			Skycon:                   d.Skycon[i].Value,
			PrecipitationProbability: *d.Precipitation[i].Probability,
			Humidity:                 *d.Humidity[i].Avg,
			WindSpeed:                d.Wind[i].Avg.Speed,
		})
	}

	return weather.ForecastResult{Status: p.Status, Days: days}, nil
}

// parseCaiyunDate keeps the calendar date of values like "2024-06-01T00:00+08:00".
func parseCaiyunDate(s string) (time.Time, error) {
	if len(s) < 10 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	ts, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return ts, nil
}
