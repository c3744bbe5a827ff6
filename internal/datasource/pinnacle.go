package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/surface"
)

const (
	pinnacleSourceName = "pinnacle"
	// DefaultPinnacleBaseURL is the RapidAPI gateway for Pinnacle odds
	DefaultPinnacleBaseURL = "https://pinnacle-odds.p.rapidapi.com"
	// DefaultPinnacleHost is sent as X-RapidAPI-Host
	DefaultPinnacleHost = "pinnacle-odds.p.rapidapi.com"
	// TennisSportID is Pinnacle's sport id for tennis
	TennisSportID = 2
)

var majors = []string{"wimbledon", "us open", "australian open", "french open", "roland garros"}

// PinnacleConfig holds the odds API settings
type PinnacleConfig struct {
	BaseURL string
	Host    string
	APIKey  string
	SportID int
	Enabled bool
}

// PinnacleSource fetches ATP singles money lines from the Pinnacle markets feed
type PinnacleSource struct {
	httpClient  *RateLimitedHTTPClient
	cfg         PinnacleConfig
	sampleLimit int
	logger      *logrus.Logger
	now         func() time.Time
}

type pinnacleMarkets struct {
	Events []pinnacleEvent `json:"events"`
}

type pinnacleEvent struct {
	EventID    int64                     `json:"event_id"`
	LeagueName string                    `json:"league_name"`
	Home       string                    `json:"home"`
	Away       string                    `json:"away"`
	Starts     string                    `json:"starts"`
	Periods    map[string]pinnaclePeriod `json:"periods"`
}

type pinnaclePeriod struct {
	MoneyLine *pinnacleMoneyLine `json:"money_line"`
}

type pinnacleMoneyLine struct {
	Home decimal.NullDecimal `json:"home"`
	Away decimal.NullDecimal `json:"away"`
}

// NewPinnacleSource creates a Pinnacle odds client
func NewPinnacleSource(httpClient *RateLimitedHTTPClient, cfg PinnacleConfig, log *logrus.Logger) *PinnacleSource {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPinnacleBaseURL
	}
	if cfg.Host == "" {
		cfg.Host = DefaultPinnacleHost
	}
	if cfg.SportID == 0 {
		cfg.SportID = TennisSportID
	}
	return &PinnacleSource{
		httpClient:  httpClient,
		cfg:         cfg,
		sampleLimit: models.DefaultSampleLimit,
		logger:      log,
		now:         time.Now,
	}
}

// Name returns the source name
func (p *PinnacleSource) Name() string {
	return pinnacleSourceName
}

// FetchMatches retrieves and parses the current markets
func (p *PinnacleSource) FetchMatches(ctx context.Context) ([]models.LiveMatch, models.Diagnostics, error) {
	diag := models.NewDiagnostics(p.sampleLimit)
	if !p.cfg.Enabled {
		return nil, *diag, NewDataSourceError(pinnacleSourceName, ErrCodeUnknown, "odds source disabled", ErrSourceDisabled)
	}

	endpoint := fmt.Sprintf("%s/kit/v1/markets?%s", strings.TrimRight(p.cfg.BaseURL, "/"),
		url.Values{"sport_id": {strconv.Itoa(p.cfg.SportID)}}.Encode())

	resp, err := p.httpClient.Get(ctx, endpoint, map[string]string{
		"X-RapidAPI-Key":  p.cfg.APIKey,
		"X-RapidAPI-Host": p.cfg.Host,
		"Accept":          "application/json",
	})
	if err != nil {
		var dsErr DataSourceError
		if errors.As(err, &dsErr) {
			return nil, *diag, dsErr
		}
		return nil, *diag, NewDataSourceError(pinnacleSourceName, ErrCodeNetworkError, "failed to fetch markets", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, *diag, NewDataSourceError(pinnacleSourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, *diag, NewDataSourceError(pinnacleSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, *diag, NewDataSourceError(pinnacleSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	}

	var markets pinnacleMarkets
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, *diag, NewDataSourceError(pinnacleSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	matches := p.convertEvents(markets.Events, diag)
	p.logger.WithFields(logrus.Fields{
		"source":  pinnacleSourceName,
		"events":  len(markets.Events),
		"matches": len(matches),
		"skipped": diag.Skipped,
	}).Info("Fetched live matches")

	return matches, *diag, nil
}

func (p *PinnacleSource) convertEvents(events []pinnacleEvent, diag *models.Diagnostics) []models.LiveMatch {
	matches := make([]models.LiveMatch, 0, len(events))
	for i, ev := range events {
		if !IsATPSingles(ev.LeagueName) {
			continue
		}
		m, err := p.convertEvent(ev)
		if err != nil {
			diag.RecordSkip(i, fmt.Sprintf("%s vs %s (%s)", ev.Home, ev.Away, ev.LeagueName), err)
			continue
		}
		diag.RecordSuccess()
		matches = append(matches, m)
	}
	return matches
}

func (p *PinnacleSource) convertEvent(ev pinnacleEvent) (models.LiveMatch, error) {
	period, ok := ev.Periods["num_0"]
	if !ok || period.MoneyLine == nil || !period.MoneyLine.Home.Valid || !period.MoneyLine.Away.Valid {
		return models.LiveMatch{}, fmt.Errorf("%w: no money line", models.ErrInvalidOdds)
	}

	month := int(p.now().Month())
	if start, err := time.Parse("2006-01-02T15:04:05", ev.Starts); err == nil {
		month = int(start.Month())
	}

	// decimal odds carry at most a few places, so float conversion is exact enough
	odds1, _ := period.MoneyLine.Home.Decimal.Float64()
	odds2, _ := period.MoneyLine.Away.Decimal.Float64()
	return models.NewLiveMatch(ev.Home, ev.Away, surface.Detect(ev.LeagueName, month), odds1, odds2, ev.LeagueName, ev.Starts)
}

// IsATPSingles keeps main-tour men's singles: leagues naming ATP outside the
// challenger, 125, ITF and doubles tiers, plus the majors unless women's.
func IsATPSingles(league string) bool {
	l := strings.ToLower(league)
	if strings.Contains(l, "atp") {
		for _, exclude := range []string{"challenger", "125", "itf", "double"} {
			if strings.Contains(l, exclude) {
				return false
			}
		}
		return true
	}
	for _, major := range majors {
		if strings.Contains(l, major) {
			return !strings.Contains(l, "women") && !strings.Contains(l, "wta") && !strings.Contains(l, "double")
		}
	}
	return false
}
