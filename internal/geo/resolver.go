package geo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/weather-team/internal/store"
	"github.com/i474232898/weather-team/internal/weather"
)

// DefaultLookupTimeout bounds a single dynamic geocoding call.
const DefaultLookupTimeout = 10 * time.Second

// Resolver resolves place names: registry first, then the cache of earlier
// dynamic lookups, then the geocoder.
type Resolver struct {
	registry *Registry
	cache    *store.CoordinateCache
	geocoder weather.Geocoder // optional
	timeout  time.Duration
}

// NewResolver creates a Resolver that owns a fresh, empty cache.
// geocoder may be nil, in which case unknown names are never looked up.
func NewResolver(registry *Registry, geocoder weather.Geocoder, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Resolver{
		registry: registry,
		cache:    store.NewCoordinateCache(),
		geocoder: geocoder,
		timeout:  timeout,
	}
}

// Resolve returns the coordinates of name or an error wrapping
// weather.ErrNotFound. Lookup failures of any kind are reported as not found.
func (r *Resolver) Resolve(ctx context.Context, name string) (weather.Coordinates, error) {
	if c, ok := r.registry.Lookup(name); ok {
		return c, nil
	}
	if c, ok := r.cache.Get(name); ok {
		return c, nil
	}
	if r.geocoder == nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %q", weather.ErrNotFound, name)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	candidates, err := r.geocoder.Geocode(lookupCtx, name)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return weather.Coordinates{}, fmt.Errorf("%w: resolving %q", weather.ErrCancelled, name)
		}
		log.Printf("WARN: geocoder %s failed for %q: %v", r.geocoder.Name(), name, err)
		return weather.Coordinates{}, fmt.Errorf("%w: %q", weather.ErrNotFound, name)
	}
	if len(candidates) == 0 {
		log.Printf("INFO: geocoder %s has no match for %q", r.geocoder.Name(), name)
		return weather.Coordinates{}, fmt.Errorf("%w: %q", weather.ErrNotFound, name)
	}

	first := candidates[0]
	if _, err := weather.NewCoordinates(first.Latitude, first.Longitude); err != nil {
		log.Printf("WARN: geocoder %s returned invalid coordinates for %q: %v", r.geocoder.Name(), name, err)
		return weather.Coordinates{}, fmt.Errorf("%w: %q", weather.ErrNotFound, name)
	}

	r.cache.Put(name, first)
	log.Printf("INFO: resolved %q -> %s via %s", name, first, r.geocoder.Name())
	return first, nil
}

// Cached reports how many dynamic lookups are held in the cache.
func (r *Resolver) Cached() int {
	return r.cache.Len()
}
