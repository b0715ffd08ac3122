package weather

import (
	"fmt"
	"time"
)

// Horizon limits accepted by forecast sources.
const (
	MinHorizonDays = 1
	MaxHorizonDays = 15
)

// StatusOK is the payload status of a successful forecast.
const StatusOK = "ok"

// Coordinates locate a place. Values are immutable once produced.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinates validates the pair before building it.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("longitude %v out of range", lon)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%v,%v", c.Latitude, c.Longitude)
}

// ClampHorizon forces days into [MinHorizonDays, MaxHorizonDays].
func ClampHorizon(days int) int {
	if days < MinHorizonDays {
		return MinHorizonDays
	}
	if days > MaxHorizonDays {
		return MaxHorizonDays
	}
	return days
}

// DailyRecord is one calendar day of a forecast.
type DailyRecord struct {
	Date time.Time `json:"date"`

	TempMin float64 `json:"tempMin"`
	TempMax float64 `json:"tempMax"`

	// Skycon is the raw condition code, e.g. "PARTLY_CLOUDY_DAY".
	Skycon string `json:"skycon"`

	PrecipitationProbability float64 `json:"precipitationProbability"` // 0..1
	Humidity                 float64 `json:"humidity"`                 // 0..1
	WindSpeed                float64 `json:"windSpeed"`                // m/s
}

// ForecastResult is the full payload of one forecast fetch.
// Days are ordered ascending; index 0 is the nearest day.
type ForecastResult struct {
	Status string        `json:"status"`
	Days   []DailyRecord `json:"days"`
}

// OK reports whether the payload carries a success status.
func (r ForecastResult) OK() bool {
	return r.Status == StatusOK
}
