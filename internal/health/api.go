package health

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/repository"
	"github.com/yourusername/tennis-edge/internal/service"
)

const (
	defaultRatingsLimit   = 100
	defaultValueBetWindow = 24 * time.Hour
)

// RatingsProvider serves the current leaderboard
type RatingsProvider interface {
	TopRatings(surface models.Surface, limit int) (service.SnapshotSummary, []models.PlayerRating, error)
}

// ValueBetProvider serves persisted recommendations
type ValueBetProvider interface {
	RecentValueBets(ctx context.Context, since time.Time) ([]repository.StoredValueBet, error)
}

// ErrorResponse is the JSON body of a failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}

// RatingsResponse is the body of GET /api/ratings
type RatingsResponse struct {
	Snapshot service.SnapshotSummary `json:"snapshot"`
	Surface  string                  `json:"surface,omitempty"`
	Ratings  []models.PlayerRating   `json:"ratings"`
}

// ValueBetsResponse is the body of GET /api/value-bets
type ValueBetsResponse struct {
	Since time.Time                   `json:"since"`
	Count int                         `json:"count"`
	Bets  []repository.StoredValueBet `json:"bets"`
}

// RatingsHandler serves GET /api/ratings?surface=Clay&limit=50. Without a
// surface players are ranked by overall rating.
func RatingsHandler(p RatingsProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
			return
		}

		var surface models.Surface
		if raw := r.URL.Query().Get("surface"); raw != "" {
			parsed, err := models.ParseSurface(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
				return
			}
			surface = parsed
		}

		limit := defaultRatingsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
				return
			}
			limit = n
		}

		summary, rows, err := p.TopRatings(surface, limit)
		if errors.Is(err, models.ErrNoSnapshot) {
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, RatingsResponse{Snapshot: summary, Surface: surface.String(), Ratings: rows})
	})
}

// ValueBetsHandler serves GET /api/value-bets?since=2024-06-01T00:00:00Z,
// defaulting to the last 24 hours.
func ValueBetsHandler(p ValueBetProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
			return
		}

		since := time.Now().UTC().Add(-defaultValueBetWindow)
		if raw := r.URL.Query().Get("since"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "since must be RFC3339"})
				return
			}
			since = parsed.UTC()
		}

		bets, err := p.RecentValueBets(r.Context(), since)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		if bets == nil {
			bets = []repository.StoredValueBet{}
		}

		writeJSON(w, http.StatusOK, ValueBetsResponse{Since: since, Count: len(bets), Bets: bets})
	})
}
