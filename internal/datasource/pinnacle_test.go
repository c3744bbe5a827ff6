package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/models"
)

const marketsFixture = `{
  "sport_id": 2,
  "events": [
    {"event_id": 1, "league_name": "ATP Wimbledon - R1", "home": "Carlos Alcaraz", "away": "Novak Djokovic",
     "starts": "2024-07-01T12:00:00", "periods": {"num_0": {"money_line": {"home": 1.8, "away": 2.05}}}},
    {"event_id": 2, "league_name": "ATP Challenger Lyon", "home": "A", "away": "B",
     "starts": "2024-06-01T10:00:00", "periods": {"num_0": {"money_line": {"home": 1.5, "away": 2.5}}}},
    {"event_id": 3, "league_name": "WTA Rome", "home": "C", "away": "D",
     "starts": "2024-05-10T10:00:00", "periods": {"num_0": {"money_line": {"home": 1.5, "away": 2.5}}}},
    {"event_id": 4, "league_name": "ATP Rome", "home": "Jannik Sinner", "away": "Daniil Medvedev",
     "starts": "2024-05-10T10:00:00", "periods": {"num_0": {}}},
    {"event_id": 5, "league_name": "Roland Garros Men's Singles", "home": "Casper Ruud", "away": "Alexander Zverev",
     "starts": "2024-06-02T10:00:00", "periods": {"num_0": {"money_line": {"home": 2.2, "away": 1.7}}}},
    {"event_id": 6, "league_name": "ATP Madrid", "home": "Taylor Fritz", "away": "Tommy Paul",
     "starts": "2024-04-28T10:00:00", "periods": {"num_0": {"money_line": {"home": 1.0, "away": 12.0}}}}
  ]
}`

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.Name = "test-odds"
	cfg.RateLimit = 1000
	cfg.MaxRetries = 1
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	cfg.CircuitBreakerMax = 2
	return NewRateLimitedHTTPClient(cfg, nil)
}

func newTestPinnacle(url string) *PinnacleSource {
	return NewPinnacleSource(testHTTPClient(), PinnacleConfig{
		BaseURL: url,
		APIKey:  "test-key",
		Enabled: true,
	}, nil)
}

func TestIsATPSingles(t *testing.T) {
	tests := []struct {
		league string
		want   bool
	}{
		{"ATP Rome", true},
		{"ATP Challenger Lyon", false},
		{"ATP 125 Oeiras", false},
		{"ATP Doubles Halle", false},
		{"ITF ATP Men", false},
		{"Wimbledon Men's Singles", true},
		{"Wimbledon Women's Singles", false},
		{"US Open WTA", false},
		{"WTA Rome", false},
		{"Laver Cup", false},
	}
	for _, tt := range tests {
		t.Run(tt.league, func(t *testing.T) {
			assert.Equal(t, tt.want, IsATPSingles(tt.league))
		})
	}
}

func TestPinnacleFetchMatches(t *testing.T) {
	var gotKey, gotHost, gotSport, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		gotSport = r.URL.Query().Get("sport_id")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(marketsFixture))
	}))
	defer server.Close()

	matches, diag, err := newTestPinnacle(server.URL).FetchMatches(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, DefaultPinnacleHost, gotHost)
	assert.Equal(t, "2", gotSport)
	assert.Equal(t, "/kit/v1/markets", gotPath)

	require.Len(t, matches, 2)
	assert.Equal(t, "Carlos Alcaraz", matches[0].Player1)
	assert.Equal(t, "Novak Djokovic", matches[0].Player2)
	assert.Equal(t, models.SurfaceGrass, matches[0].Surface)
	assert.InDelta(t, 1.8, matches[0].Odds1, 1e-12)
	assert.InDelta(t, 2.05, matches[0].Odds2, 1e-12)
	assert.Equal(t, "ATP Wimbledon - R1", matches[0].Tournament)
	assert.Equal(t, models.SurfaceClay, matches[1].Surface)

	assert.Equal(t, 4, diag.Processed)
	assert.Equal(t, 2, diag.Skipped)
	assert.Equal(t, 2, diag.SkipsByReason["invalid_odds"])
}

func TestPinnacleErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantErr  error
	}{
		{"unauthorized", http.StatusUnauthorized, "", ErrCodeAuthenticationFailed, ErrAuthenticationFailed},
		{"not found", http.StatusNotFound, "nope", ErrCodeServerError, ErrServerError},
		{"bad json", http.StatusOK, "{", ErrCodeInvalidData, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, _, err := newTestPinnacle(server.URL).FetchMatches(context.Background())
			require.Error(t, err)
			var dsErr DataSourceError
			require.True(t, errors.As(err, &dsErr))
			assert.Equal(t, tt.wantCode, dsErr.Code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPinnacleDisabled(t *testing.T) {
	src := NewPinnacleSource(testHTTPClient(), PinnacleConfig{}, nil)
	_, _, err := src.FetchMatches(context.Background())
	assert.ErrorIs(t, err, ErrSourceDisabled)
}

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	matches, _, err := newTestPinnacle(server.URL).FetchMatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPClientCircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testHTTPClient()
	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		resp.Body.Close()
	}
	before := calls.Load()

	_, err := client.Get(context.Background(), server.URL, nil)
	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeCircuitOpen, dsErr.Code)
	assert.Equal(t, before, calls.Load(), "open breaker must not reach the server")
}
