package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-team/internal/weather"
)

const beijingPayload = `{
  "status": "ok",
  "result": {
    "daily": {
      "status": "ok",
      "temperature": [{"date": "2024-06-01T00:00+08:00", "max": 31.6, "min": 23.2, "avg": 27}],
      "skycon": [{"date": "2024-06-01T00:00+08:00", "value": "PARTLY_CLOUDY_DAY"}],
      "precipitation": [{"date": "2024-06-01T00:00+08:00", "max": 0, "min": 0, "avg": 0, "probability": 0}],
      "humidity": [{"date": "2024-06-01T00:00+08:00", "max": 0.5, "min": 0.3, "avg": 0.45}],
      "wind": [{"date": "2024-06-01T00:00+08:00", "avg": {"speed": 10.2, "direction": 180}}]
    }
  }
}`

func newCaiyunServer(t *testing.T, status int, body string, seen *string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if seen != nil {
			*seen = r.URL.String()
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testHTTPConfig() HTTPClientConfig {
	return HTTPClientConfig{Client: &http.Client{}, Timeout: 2 * time.Second}
}

func TestCaiyun_FetchParsesDailyArrays(t *testing.T) {
	var seen string
	srv := newCaiyunServer(t, http.StatusOK, beijingPayload, &seen, nil)
	p := NewCaiyunProvider(testHTTPConfig(), "KEY", srv.URL, 0)

	res, err := p.Fetch(context.Background(), weather.Coordinates{Latitude: 39.9042, Longitude: 116.4074}, 1)
	require.NoError(t, err)

	assert.Equal(t, "/KEY/116.4074,39.9042/daily?dailysteps=1", seen)
	require.True(t, res.OK())
	require.Len(t, res.Days, 1)

	d := res.Days[0]
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d.Date)
	assert.Equal(t, 23.2, d.TempMin)
	assert.Equal(t, 31.6, d.TempMax)
	assert.Equal(t, "PARTLY_CLOUDY_DAY", d.Skycon)
	assert.Equal(t, 0.0, d.PrecipitationProbability)
	assert.Equal(t, 0.45, d.Humidity)
	assert.Equal(t, 10.2, d.WindSpeed)
}

func TestCaiyun_HorizonIsClamped(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "dailysteps=1"},
		{-3, "dailysteps=1"},
		{7, "dailysteps=7"},
		{40, "dailysteps=15"},
	}

	for _, tt := range tests {
		var seen string
		srv := newCaiyunServer(t, http.StatusOK, beijingPayload, &seen, nil)
		p := NewCaiyunProvider(testHTTPConfig(), "KEY", srv.URL, 0)

		_, err := p.Fetch(context.Background(), weather.Coordinates{Latitude: 1, Longitude: 2}, tt.days)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(seen, tt.want), "days=%d sent %s", tt.days, seen)
	}
}

func TestCaiyun_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, weather.ErrRateLimited},
		{"server error", http.StatusInternalServerError, weather.ErrTransport},
		{"unauthorized", http.StatusUnauthorized, weather.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := newCaiyunServer(t, tt.status, `{}`, nil, &calls)
			p := NewCaiyunProvider(testHTTPConfig(), "KEY", srv.URL, 0)

			_, err := p.Fetch(context.Background(), weather.Coordinates{}, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, int32(1), calls.Load(), "no retry")
		})
	}
}

func TestCaiyun_NonOKStatusIsReturnedAsIs(t *testing.T) {
	srv := newCaiyunServer(t, http.StatusOK, `{"status":"failed","error":"token is invalid"}`, nil, nil)
	p := NewCaiyunProvider(testHTTPConfig(), "KEY", srv.URL, 0)

	res, err := p.Fetch(context.Background(), weather.Coordinates{}, 3)
	require.NoError(t, err)
	assert.Equal(t, "failed", res.Status)
	assert.False(t, res.OK())
	assert.Empty(t, res.Days)
}

func TestCaiyun_MalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"no status", `{"result":{}}`},
		{"no daily", `{"status":"ok","result":{}}`},
		{"length mismatch", `{"status":"ok","result":{"daily":{
			"temperature":[{"date":"2024-06-01","max":1,"min":0},{"date":"2024-06-02","max":1,"min":0}],
			"skycon":[{"date":"2024-06-01","value":"CLEAR_DAY"}],
			"precipitation":[{"probability":0},{"probability":0}],
			"humidity":[{"avg":0.1},{"avg":0.1}],
			"wind":[{"avg":{"speed":1}},{"avg":{"speed":1}}]}}}`},
		{"missing temperature", `{"status":"ok","result":{"daily":{
			"temperature":[{"date":"2024-06-01","min":0}],
			"skycon":[{"value":"CLEAR_DAY"}],
			"precipitation":[{"probability":0}],
			"humidity":[{"avg":0.1}],
			"wind":[{"avg":{"speed":1}}]}}}`},
		{"bad date", `{"status":"ok","result":{"daily":{
			"temperature":[{"date":"June 1","max":1,"min":0}],
			"skycon":[{"value":"CLEAR_DAY"}],
			"precipitation":[{"probability":0}],
			"humidity":[{"avg":0.1}],
			"wind":[{"avg":{"speed":1}}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCaiyunServer(t, http.StatusOK, tt.body, nil, nil)
			p := NewCaiyunProvider(testHTTPConfig(), "KEY", srv.URL, 0)

			_, err := p.Fetch(context.Background(), weather.Coordinates{}, 2)
			assert.ErrorIs(t, err, weather.ErrTransport)
		})
	}
}

func TestCaiyun_MissingKeyIsConfigurationError(t *testing.T) {
	p := NewCaiyunProvider(testHTTPConfig(), "", "http://127.0.0.1:1", 0)

	_, err := p.Fetch(context.Background(), weather.Coordinates{}, 1)
	assert.ErrorIs(t, err, weather.ErrConfiguration)
}

func TestCaiyun_TimeoutIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	p := NewCaiyunProvider(HTTPClientConfig{Client: &http.Client{}, Timeout: 30 * time.Millisecond}, "KEY", srv.URL, 0)

	_, err := p.Fetch(context.Background(), weather.Coordinates{}, 1)
	assert.ErrorIs(t, err, weather.ErrTransport)
}

func TestCaiyun_ThrottleHonoursCancellation(t *testing.T) {
	var calls atomic.Int32
	srv := newCaiyunServer(t, http.StatusOK, beijingPayload, nil, &calls)
	p := NewCaiyunProvider(testHTTPConfig(), "KEY", srv.URL, 0.5)

	_, err := p.Fetch(context.Background(), weather.Coordinates{}, 1)
	require.NoError(t, err)

	// The limiter has no token for another two seconds.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Fetch(ctx, weather.Coordinates{}, 1)
	assert.ErrorIs(t, err, weather.ErrTransport)
	assert.Equal(t, int32(1), calls.Load())
}
