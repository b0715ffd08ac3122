package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-team/internal/weather"
)

// DefaultOpenMeteoBaseURL is the keyless Open-Meteo forecast endpoint.
const DefaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

const openMeteoDaily = "weather_code,temperature_2m_max,temperature_2m_min," +
	"precipitation_probability_max,relative_humidity_2m_mean,wind_speed_10m_max"

// OpenMeteoProvider implements weather.ForecastSource for Open-Meteo. It
// needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(httpCfg HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Fetch asks for days daily aggregates. Wind is the daily maximum, the
// closest Open-Meteo offers to a daily average.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, coords weather.Coordinates, days int) (weather.ForecastResult, error) {
	days = weather.ClampHorizon(days)

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("daily", openMeteoDaily)
		values.Set("wind_speed_unit", "ms")
		values.Set("timezone", "auto")
		values.Set("forecast_days", strconv.Itoa(days))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ForecastResult{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: decode openmeteo payload: %v", weather.ErrTransport, err)
	}

	result, err := payload.toResult()
	if err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: %v", weather.ErrTransport, err)
	}
	return result, nil
}

type openMeteoPayload struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
	Daily  *struct {
		Time        []string   `json:"time"`
		WeatherCode []*int     `json:"weather_code"`
		TempMax     []*float64 `json:"temperature_2m_max"`
		TempMin     []*float64 `json:"temperature_2m_min"`
		Precip      []*float64 `json:"precipitation_probability_max"`
		Humidity    []*float64 `json:"relative_humidity_2m_mean"`
		Wind        []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// toResult converts the column arrays into daily records. Percentages are
// scaled to fractions.
func (p openMeteoPayload) toResult() (weather.ForecastResult, error) {
	if p.Error {
		return weather.ForecastResult{}, fmt.Errorf("openmeteo error: %s", p.Reason)
	}
	if p.Daily == nil || len(p.Daily.Time) == 0 {
		return weather.ForecastResult{}, fmt.Errorf("openmeteo payload has no daily data")
	}

	d := p.Daily
	n := len(d.Time)
	if len(d.WeatherCode) != n || len(d.TempMax) != n || len(d.TempMin) != n ||
		len(d.Precip) != n || len(d.Humidity) != n || len(d.Wind) != n {
		return weather.ForecastResult{}, fmt.Errorf("openmeteo daily arrays differ in length")
	}

	days := make([]weather.DailyRecord, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", d.Time[i])
		if err != nil {
			return weather.ForecastResult{}, fmt.Errorf("day %d: %w", i, err)
		}
		if d.WeatherCode[i] == nil || d.TempMax[i] == nil || d.TempMin[i] == nil ||
			d.Precip[i] == nil || d.Humidity[i] == nil || d.Wind[i] == nil {
			return weather.ForecastResult{}, fmt.Errorf("day %d: missing values", i)
		}
		days = append(days, weather.DailyRecord{
			Date:                     date,
			TempMin:                  *d.TempMin[i],
			TempMax:                  *d.TempMax[i],
			Skycon:                   wmoSkycon(*d.WeatherCode[i]),
			PrecipitationProbability: *d.Precip[i] / 100,
			Humidity:                 *d.Humidity[i] / 100,
			WindSpeed:                *d.Wind[i],
		})
	}
	return weather.ForecastResult{Status: weather.StatusOK, Days: days}, nil
}

// wmoSkycon maps WMO weather interpretation codes onto condition codes.
func wmoSkycon(code int) string {
	switch code {
	case 0:
		return "CLEAR_DAY"
	case 1, 2:
		return "PARTLY_CLOUDY_DAY"
	case 3:
		return "CLOUDY"
	case 45, 48:
		return "FOG"
	case 51, 53, 55, 56, 57, 61, 80:
		return "LIGHT_RAIN"
	case 63, 66, 81:
		return "MODERATE_RAIN"
	case 65, 67:
		return "HEAVY_RAIN"
	case 82, 95, 96, 99:
		return "STORM_RAIN"
	case 71, 77, 85:
		return "LIGHT_SNOW"
	case 73:
		return "MODERATE_SNOW"
	case 75, 86:
		return "HEAVY_SNOW"
	default:
		return fmt.Sprintf("WMO_%d", code)
	}
}
