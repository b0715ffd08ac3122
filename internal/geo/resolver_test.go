package geo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-team/internal/weather"
)

// mockGeocoder counts calls and returns canned candidates.
type mockGeocoder struct {
	calls      atomic.Int32
	candidates []weather.Coordinates
	err        error
	delay      time.Duration
}

func (m *mockGeocoder) Name() string { return "mock" }

func (m *mockGeocoder) Geocode(ctx context.Context, _ string) ([]weather.Coordinates, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	return m.candidates, m.err
}

func TestResolver_RegistryHitsMakeNoCalls(t *testing.T) {
	reg := NewRegistry()
	gc := &mockGeocoder{}
	r := NewResolver(reg, gc, time.Second)

	for _, p := range places {
		for _, name := range p.names {
			got, err := r.Resolve(context.Background(), name)
			require.NoError(t, err, name)
			assert.Equal(t, weather.Coordinates{Latitude: p.lat, Longitude: p.lon}, got, name)
		}
	}

	assert.Equal(t, int32(0), gc.calls.Load())
	assert.Equal(t, 0, r.Cached(), "registry hits are not cached")
}

func TestResolver_DynamicLookupIsCached(t *testing.T) {
	gc := &mockGeocoder{candidates: []weather.Coordinates{
		{Latitude: 24.3305, Longitude: 102.5427},
		{Latitude: 1, Longitude: 1},
	}}
	r := NewResolver(NewRegistry(), gc, time.Second)

	first, err := r.Resolve(context.Background(), "玉溪")
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinates{Latitude: 24.3305, Longitude: 102.5427}, first, "first candidate wins")

	second, err := r.Resolve(context.Background(), "玉溪")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), gc.calls.Load())
	assert.Equal(t, 1, r.Cached())
}

func TestResolver_NotFound(t *testing.T) {
	tests := []struct {
		name string
		gc   weather.Geocoder
	}{
		{"no geocoder", nil},
		{"empty result", &mockGeocoder{}},
		{"geocoder error", &mockGeocoder{err: errors.New("boom")}},
		{"invalid coordinates", &mockGeocoder{candidates: []weather.Coordinates{{Latitude: 120, Longitude: 10}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(NewRegistry(), tt.gc, time.Second)

			_, err := r.Resolve(context.Background(), "Atlantis")
			require.Error(t, err)
			assert.True(t, errors.Is(err, weather.ErrNotFound))
			assert.Equal(t, 0, r.Cached(), "failures are not cached")
		})
	}
}

func TestResolver_EmptyNameIsOrdinaryLookup(t *testing.T) {
	gc := &mockGeocoder{}
	r := NewResolver(NewRegistry(), gc, time.Second)

	_, err := r.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, weather.ErrNotFound)
	assert.Equal(t, int32(1), gc.calls.Load())
}

func TestResolver_TimeoutIsNotFound(t *testing.T) {
	gc := &mockGeocoder{
		candidates: []weather.Coordinates{{Latitude: 1, Longitude: 1}},
		delay:      time.Second,
	}
	r := NewResolver(NewRegistry(), gc, 20*time.Millisecond)

	_, err := r.Resolve(context.Background(), "Somewhere")
	assert.ErrorIs(t, err, weather.ErrNotFound)
	assert.Equal(t, 0, r.Cached())
}

func TestResolver_ConcurrentResolve(t *testing.T) {
	gc := &mockGeocoder{candidates: []weather.Coordinates{{Latitude: 10, Longitude: 20}}}
	r := NewResolver(NewRegistry(), gc, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := r.Resolve(context.Background(), "Springfield")
			assert.NoError(t, err)
			assert.Equal(t, 10.0, c.Latitude)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.Cached())
	assert.GreaterOrEqual(t, gc.calls.Load(), int32(1))
}
