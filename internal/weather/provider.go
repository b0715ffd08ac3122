package weather

import (
	"context"
)

// Geocoder abstracts a dynamic place lookup (e.g. AMap, Google).
// An empty slice with a nil error means no candidate matched.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query string) ([]Coordinates, error)
}

// ForecastSource abstracts a multi-day forecast provider (e.g. Caiyun).
type ForecastSource interface {
	Name() string
	Fetch(ctx context.Context, coords Coordinates, days int) (ForecastResult, error)
}

// Locator guesses the caller's city, typically from its public IP.
type Locator interface {
	Locate(ctx context.Context) (string, error)
}

// Resolver turns a place name into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Coordinates, error)
}

// Formatter renders forecasts into reports.
type Formatter interface {
	Day(result ForecastResult, place string, dayIndex int) (string, error)
	Range(result ForecastResult, place string, days int) (string, error)
}
