package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-team/internal/weather"
)

// geocoderMu guards the geocoder package's API key variable. Lookups hold
// the read lock, so a request the library never times out only stalls a key
// change, not other lookups.
var geocoderMu sync.RWMutex

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API
// through github.com/kelvins/geocoder.
type GoogleGeocoder struct {
	name   string
	apiKey string

	// lookup is swapped in tests.
	lookup func(apiKey, query string) (geocoder.Location, error)
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:   "google",
		apiKey: apiKey,
		lookup: keyedLookup(geocoder.Geocoding),
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

// Geocode returns at most one candidate. The library call takes no context
// and its client has no timeout, so ctx only bounds how long we wait; an
// abandoned call finishes in the background.
func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) ([]weather.Coordinates, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: google api key is not configured", weather.ErrConfiguration)
	}

	type answer struct {
		loc geocoder.Location
		err error
	}
	done := make(chan answer, 1)
	go func() {
		loc, err := g.lookup(g.apiKey, query)
		done <- answer{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: google geocode: %v", weather.ErrTransport, ctx.Err())
	case a := <-done:
		if a.err != nil {
			// The library reports "no results" as an error as well.
			return nil, fmt.Errorf("%w: google geocode: %v", weather.ErrTransport, a.err)
		}
		c, err := weather.NewCoordinates(a.loc.Latitude, a.loc.Longitude)
		if err != nil {
			return nil, fmt.Errorf("%w: google geocode: %v", weather.ErrTransport, err)
		}
		return []weather.Coordinates{c}, nil
	}
}

// keyedLookup runs geocode with the package key set to apiKey.
func keyedLookup(geocode func(geocoder.Address) (geocoder.Location, error)) func(apiKey, query string) (geocoder.Location, error) {
	return func(apiKey, query string) (geocoder.Location, error) {
		geocoderMu.RLock()
		for geocoder.ApiKey != apiKey {
			geocoderMu.RUnlock()
			geocoderMu.Lock()
			geocoder.ApiKey = apiKey
			geocoderMu.Unlock()
			geocoderMu.RLock()
		}
		defer geocoderMu.RUnlock()

		return geocode(geocoder.Address{City: query})
	}
}
