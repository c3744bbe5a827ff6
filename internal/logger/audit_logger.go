package logger

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/models"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSnapshotPublished logs a rating snapshot swap.
func (al *AuditLogger) LogSnapshotPublished(snapshotID string, players, matchesApplied, matchesSkipped int, lastMatch, publishedAt time.Time) {
	al.WithFields(logrus.Fields{
		"snapshot_id":     snapshotID,
		"players":         players,
		"matches_applied": matchesApplied,
		"matches_skipped": matchesSkipped,
		"last_match":      lastMatch.Format("2006-01-02"),
		"published_at":    publishedAt.Unix(),
	}).Info("Rating snapshot published")
}

// LogRebuildRejected logs a rebuild that left the previous snapshot in place.
func (al *AuditLogger) LogRebuildRejected(reason string, err error) {
	al.WithFields(logrus.Fields{
		"reason": reason,
		"error":  err.Error(),
	}).Warn("Rating rebuild rejected, previous snapshot retained")
}

// LogValueBet logs a recommendation handed to the reporting layer.
func (al *AuditLogger) LogValueBet(bet models.ValueBet, strategy string) {
	al.WithFields(logrus.Fields{
		"bet_id":             bet.ID.String(),
		"snapshot_id":        bet.SnapshotID.String(),
		"strategy":           strategy,
		"player":             bet.Player,
		"opponent":           bet.Opponent,
		"tournament":         bet.Match.Tournament,
		"surface":            bet.Match.Surface.String(),
		"odds":               bet.Odds,
		"fair_probability":   bet.FairProbability,
		"market_probability": bet.MarketProbability,
		"edge":               bet.Edge,
		"kelly_fraction":     bet.KellyFraction,
		"stake":              bet.StakeDecimal().String(),
		"confidence":         bet.ConfidenceScore,
	}).Info("Value bet recommended")
}

// LogCircuitBreakerEvent logs circuit breaker transitions on outbound clients.
func (al *AuditLogger) LogCircuitBreakerEvent(name, from, to string) {
	al.WithFields(logrus.Fields{
		"breaker": name,
		"from":    from,
		"to":      to,
	}).Warn("Circuit breaker state changed")
}
