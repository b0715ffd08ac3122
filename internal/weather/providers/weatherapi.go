package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-team/internal/weather"
)

// DefaultWeatherAPIBaseURL is the WeatherAPI.com forecast endpoint.
const DefaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1/forecast.json"

// WeatherAPIProvider implements weather.ForecastSource for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(httpCfg HTTPClientConfig, apiKey, baseURL string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherAPIBaseURL
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// Fetch requests days of daily summaries. The plan behind the key may cap
// the horizon below 15; fewer days then come back.
func (p *WeatherAPIProvider) Fetch(ctx context.Context, coords weather.Coordinates, days int) (weather.ForecastResult, error) {
	if p.apiKey == "" {
		return weather.ForecastResult{}, fmt.Errorf("%w: weatherapi api key is not configured", weather.ErrConfiguration)
	}
	days = weather.ClampHorizon(days)

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", coords.String())
		values.Set("days", strconv.Itoa(days))
		values.Set("aqi", "no")
		values.Set("alerts", "no")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ForecastResult{}, err
	}
	defer resp.Body.Close()

	var payload weatherAPIPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: decode weatherapi payload: %v", weather.ErrTransport, err)
	}

	result, err := payload.toResult()
	if err != nil {
		return weather.ForecastResult{}, fmt.Errorf("%w: %v", weather.ErrTransport, err)
	}
	return result, nil
}

type weatherAPIPayload struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Forecast *struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC     float64 `json:"maxtemp_c"`
				MinTempC     float64 `json:"mintemp_c"`
				MaxWindKph   float64 `json:"maxwind_kph"`
				AvgHumidity  float64 `json:"avghumidity"`
				ChanceOfRain float64 `json:"daily_chance_of_rain"`
				ChanceOfSnow float64 `json:"daily_chance_of_snow"`
				Condition    struct {
					Text string `json:"text"`
					Code int    `json:"code"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p weatherAPIPayload) toResult() (weather.ForecastResult, error) {
	if p.Error != nil {
		return weather.ForecastResult{}, fmt.Errorf("weatherapi error %d: %s", p.Error.Code, p.Error.Message)
	}
	if p.Forecast == nil || len(p.Forecast.ForecastDay) == 0 {
		return weather.ForecastResult{}, fmt.Errorf("weatherapi payload has no forecast days")
	}

	days := make([]weather.DailyRecord, 0, len(p.Forecast.ForecastDay))
	for i, fd := range p.Forecast.ForecastDay {
		date, err := time.Parse("2006-01-02", fd.Date)
		if err != nil {
			return weather.ForecastResult{}, fmt.Errorf("day %d: %w", i, err)
		}
		days = append(days, weather.DailyRecord{
			Date:                     date,
			TempMin:                  fd.Day.MinTempC,
			TempMax:                  fd.Day.MaxTempC,
			Skycon:                   weatherAPISkycon(fd.Day.Condition.Code, fd.Day.Condition.Text),
			PrecipitationProbability: math.Max(fd.Day.ChanceOfRain, fd.Day.ChanceOfSnow) / 100,
			Humidity:                 fd.Day.AvgHumidity / 100,
			// kph to m/s
			WindSpeed: fd.Day.MaxWindKph / 3.6,
		})
	}
	return weather.ForecastResult{Status: weather.StatusOK, Days: days}, nil
}

var weatherAPICodes = map[int]string{
	1000: "CLEAR_DAY",
	1003: "PARTLY_CLOUDY_DAY",
	1006: "CLOUDY", 1009: "CLOUDY",
	1030: "FOG", 1135: "FOG", 1147: "FOG",
	1063: "LIGHT_RAIN", 1072: "LIGHT_RAIN", 1150: "LIGHT_RAIN", 1153: "LIGHT_RAIN", 1168: "LIGHT_RAIN",
	1180: "LIGHT_RAIN", 1183: "LIGHT_RAIN", 1198: "LIGHT_RAIN", 1240: "LIGHT_RAIN",
	1186: "MODERATE_RAIN", 1189: "MODERATE_RAIN", 1201: "MODERATE_RAIN", 1243: "MODERATE_RAIN",
	1192: "HEAVY_RAIN", 1195: "HEAVY_RAIN",
	1087: "STORM_RAIN", 1246: "STORM_RAIN", 1273: "STORM_RAIN", 1276: "STORM_RAIN",
	1066: "LIGHT_SNOW", 1069: "LIGHT_SNOW", 1204: "LIGHT_SNOW", 1210: "LIGHT_SNOW", 1213: "LIGHT_SNOW",
	1237: "LIGHT_SNOW", 1249: "LIGHT_SNOW", 1255: "LIGHT_SNOW", 1261: "LIGHT_SNOW",
	1207: "MODERATE_SNOW", 1216: "MODERATE_SNOW", 1219: "MODERATE_SNOW", 1252: "MODERATE_SNOW",
	1114: "HEAVY_SNOW", 1222: "HEAVY_SNOW", 1225: "HEAVY_SNOW", 1258: "HEAVY_SNOW", 1264: "HEAVY_SNOW",
	1117: "STORM_SNOW", 1279: "STORM_SNOW", 1282: "STORM_SNOW",
}

// weatherAPISkycon maps a condition code, falling back to the English text
// for codes outside the table.
func weatherAPISkycon(code int, text string) string {
	if s, ok := weatherAPICodes[code]; ok {
		return s
	}
	switch t := strings.ToLower(text); {
	case t == "":
		return "CLOUDY"
	case strings.Contains(t, "thunder") || strings.Contains(t, "storm"):
		return "STORM_RAIN"
	case strings.Contains(t, "snow") || strings.Contains(t, "sleet") || strings.Contains(t, "blizzard"):
		return "LIGHT_SNOW"
	case strings.Contains(t, "rain") || strings.Contains(t, "shower") || strings.Contains(t, "drizzle"):
		return "LIGHT_RAIN"
	case strings.Contains(t, "fog") || strings.Contains(t, "mist"):
		return "FOG"
	case strings.Contains(t, "cloud") || strings.Contains(t, "overcast"):
		return "CLOUDY"
	case strings.Contains(t, "sunny") || strings.Contains(t, "clear"):
		return "CLEAR_DAY"
	default:
		return "CLOUDY"
	}
}
