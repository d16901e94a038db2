package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/land-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL, 5*time.Second,
		clockwork.NewFakeClockAt(testNow),
		observability.NewMetricsForTesting(),
		discardLogger())
}

func TestRecentRainfallMM(t *testing.T) {
	var gotQuery map[string][]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		// Two samples outside the 24h window, three inside (the window
		// edges are inclusive).
		io.WriteString(w, `{"hourly":{
			"time":["2026-04-30T11:00","2026-04-30T12:00","2026-05-01T05:00","2026-05-01T12:00","2026-05-01T13:00"],
			"precipitation":[9.0,1.5,2.5,0.5,7.0]
		}}`)
	}))

	mm, err := c.RecentRainfallMM(context.Background(), 20.1, 80.5)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, mm, 1e-9)

	assert.Equal(t, []string{"precipitation"}, gotQuery["hourly"])
	assert.Equal(t, []string{"1"}, gotQuery["past_days"])
	assert.Equal(t, []string{"UTC"}, gotQuery["timezone"])
	// Coordinates format with four decimals.
	assert.Equal(t, []string{"20.1000"}, gotQuery["latitude"])
	assert.Equal(t, []string{"80.5000"}, gotQuery["longitude"])
}

func TestRecentRainfallMM_NoSamplesInWindow(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"hourly":{"time":["2026-04-01T00:00"],"precipitation":[3.0]}}`)
	}))

	_, err := c.RecentRainfallMM(context.Background(), 20, 80)
	assert.ErrorContains(t, err, "no hourly precipitation samples")
}

func TestRecentRainfallMM_SeriesLengthMismatch(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"hourly":{"time":["2026-05-01T05:00"],"precipitation":[1.0,2.0]}}`)
	}))

	_, err := c.RecentRainfallMM(context.Background(), 20, 80)
	assert.ErrorContains(t, err, "length mismatch")
}

func TestRecentRainfallMM_BadTimestamp(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"hourly":{"time":["yesterday"],"precipitation":[1.0]}}`)
	}))

	_, err := c.RecentRainfallMM(context.Background(), 20, 80)
	assert.ErrorContains(t, err, "parse hourly timestamp")
}

func TestElevationM(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/elevation", r.URL.Path)
		io.WriteString(w, `{"elevation":[123.4]}`)
	}))

	m, err := c.ElevationM(context.Background(), 20, 80)
	require.NoError(t, err)
	assert.Equal(t, 123.4, m)
}

func TestElevationM_EmptyResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"elevation":[]}`)
	}))

	_, err := c.ElevationM(context.Background(), 20, 80)
	assert.ErrorContains(t, err, "no values")
}

func TestDoRequest_Non200(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))

	_, err := c.RecentRainfallMM(context.Background(), 20, 80)
	assert.ErrorContains(t, err, "status 429")
}

func TestDoRequest_MalformedJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "not json")
	}))

	_, err := c.ElevationM(context.Background(), 20, 80)
	assert.ErrorContains(t, err, "decode")
}

func TestDoRequest_ContextCancelled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"elevation":[1]}`)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ElevationM(ctx, 20, 80)
	assert.Error(t, err)
}
