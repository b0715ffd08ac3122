package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-team/internal/weather"
)

// Forecast sources.
const (
	SourceCaiyun     = "caiyun"
	SourceOpenMeteo  = "openmeteo"
	SourceWeatherAPI = "weatherapi"
)

// Geocoder backends.
const (
	GeocoderAMap   = "amap"
	GeocoderGoogle = "google"
	GeocoderNone   = "none"
)

type AppConfig struct {
	// ForecastSource selects the daily forecast backend.
	ForecastSource string  `validate:"oneof=caiyun openmeteo weatherapi"`
	CaiyunAPIKey   string  `validate:"required_if=ForecastSource caiyun"`
	CaiyunBaseURL  string  `validate:"required,url"`
	CaiyunQPS      float64 `validate:"gte=0"`

	OpenMeteoBaseURL  string `validate:"omitempty,url"`
	WeatherAPIKey     string `validate:"required_if=ForecastSource weatherapi"`
	WeatherAPIBaseURL string `validate:"omitempty,url"`

	// Geocoder selects the dynamic lookup backend for places outside the registry.
	Geocoder      string `validate:"oneof=amap google none"`
	AMapAPIKey    string `validate:"required_if=Geocoder amap"`
	AMapBaseURL   string `validate:"omitempty,url"`
	GoogleAPIKey  string `validate:"required_if=Geocoder google"`
	LookupTimeout time.Duration

	// LLM features are off without a key.
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string `validate:"omitempty,url"`

	IPLocateURL string `validate:"omitempty,url"`
	DefaultCity string `validate:"required"`

	HTTPTimeout  time.Duration `validate:"gt=0"`
	StageTimeout time.Duration `validate:"gt=0"`
	MaxTurns     int           `validate:"gte=1,lte=64"`
	Strategy     string        `validate:"oneof=selector handoff autoplan"`

	// WarmPlaces are resolved every WarmInterval so their lookups stay cached.
	WarmPlaces   []string
	WarmInterval time.Duration

	Port string `validate:"required,numeric"`
}

// ConfigurationError lists every setting that failed validation.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Unwrap lets callers match with errors.Is(err, weather.ErrConfiguration).
func (e *ConfigurationError) Unwrap() error {
	return weather.ErrConfiguration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("INFO: No .env file found or error loading it: %v", err)
		}
	}
	return FromEnv()
}

// FromEnv builds and validates the configuration from the process
// environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var problems []string

	cfg.ForecastSource = strings.ToLower(getenvDefault("FORECAST_SOURCE", SourceCaiyun))
	cfg.CaiyunAPIKey = strings.TrimSpace(os.Getenv("CAIYUN_API_KEY"))
	cfg.CaiyunBaseURL = getenvDefault("CAIYUN_BASE_URL", "https://api.caiyunapp.com/v2.6")
	cfg.CaiyunQPS = getenvFloat("CAIYUN_QPS", 0)
	cfg.OpenMeteoBaseURL = os.Getenv("OPENMETEO_BASE_URL")
	cfg.WeatherAPIKey = strings.TrimSpace(os.Getenv("WEATHERAPI_API_KEY"))
	cfg.WeatherAPIBaseURL = os.Getenv("WEATHERAPI_BASE_URL")

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", GeocoderAMap))
	cfg.AMapAPIKey = strings.TrimSpace(os.Getenv("AMAP_API_KEY"))
	cfg.AMapBaseURL = getenvDefault("AMAP_BASE_URL", "https://restapi.amap.com/v3/geocode/geo")
	cfg.GoogleAPIKey = strings.TrimSpace(os.Getenv("GOOGLE_GEOCODING_API_KEY"))

	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "gpt-4o-mini")
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")

	cfg.IPLocateURL = os.Getenv("IP_LOCATE_URL")
	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", "上海")

	cfg.MaxTurns = getenvInt("MAX_TURNS", 8)
	cfg.Strategy = strings.ToLower(getenvDefault("TEAM_STRATEGY", "selector"))
	cfg.Port = getenvDefault("PORT", "8080")

	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"LOOKUP_TIMEOUT", "10s", &cfg.LookupTimeout},
		{"HTTP_TIMEOUT", "15s", &cfg.HTTPTimeout},
		{"STAGE_TIMEOUT", "60s", &cfg.StageTimeout},
		{"WARM_INTERVAL", "6h", &cfg.WarmInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getenvDefault(d.key, d.def))
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid %s: %v", d.key, err))
			continue
		}
		*d.dest = v
	}

	cfg.WarmPlaces = splitList(os.Getenv("WARM_PLACES"))

	problems = append(problems, validate(cfg)...)
	if len(problems) > 0 {
		return nil, &ConfigurationError{Problems: problems}
	}
	return cfg, nil
}

// LLMEnabled reports whether an OpenAI key is configured.
func (c *AppConfig) LLMEnabled() bool {
	return c.OpenAIAPIKey != ""
}

var envNames = map[string]string{
	"ForecastSource":    "FORECAST_SOURCE",
	"OpenMeteoBaseURL":  "OPENMETEO_BASE_URL",
	"WeatherAPIKey":     "WEATHERAPI_API_KEY",
	"WeatherAPIBaseURL": "WEATHERAPI_BASE_URL",
	"CaiyunAPIKey":      "CAIYUN_API_KEY",
	"CaiyunBaseURL":     "CAIYUN_BASE_URL",
	"CaiyunQPS":         "CAIYUN_QPS",
	"Geocoder":          "GEOCODER",
	"AMapAPIKey":        "AMAP_API_KEY",
	"AMapBaseURL":       "AMAP_BASE_URL",
	"GoogleAPIKey":      "GOOGLE_GEOCODING_API_KEY",
	"OpenAIBaseURL":     "OPENAI_BASE_URL",
	"IPLocateURL":       "IP_LOCATE_URL",
	"DefaultCity":       "DEFAULT_CITY",
	"HTTPTimeout":       "HTTP_TIMEOUT",
	"StageTimeout":      "STAGE_TIMEOUT",
	"MaxTurns":          "MAX_TURNS",
	"Strategy":          "TEAM_STRATEGY",
	"Port":              "PORT",
}

func validate(cfg *AppConfig) []string {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		out = append(out, fmt.Sprintf("%s failed %q", name, fe.Tag()))
	}
	return out
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
