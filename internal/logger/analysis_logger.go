package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/models"
)

// AnalysisLogger provides dedicated logging for rebuild and analysis cycles.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogRebuild logs the outcome of a rating rebuild.
func (l *AnalysisLogger) LogRebuild(source string, diag models.Diagnostics, durationMs float64) {
	l.WithFields(logrus.Fields{
		"source":          source,
		"processed":       diag.Processed,
		"succeeded":       diag.Succeeded,
		"skipped":         diag.Skipped,
		"skips_by_reason": diag.SkipsByReason,
		"duration_ms":     durationMs,
	}).Info("Rating rebuild completed")
}

// LogAnalysisCycle logs the outcome of one analysis cycle.
func (l *AnalysisLogger) LogAnalysisCycle(snapshotID, strategy string, fetched, priced, skipped, selected int, durationMs float64) {
	l.WithFields(logrus.Fields{
		"snapshot_id":   snapshotID,
		"strategy":      strategy,
		"matches":       fetched,
		"priced":        priced,
		"skipped":       skipped,
		"bets_selected": selected,
		"duration_ms":   durationMs,
	}).Info("Analysis cycle completed")
}

// LogSkipSamples logs the retained sample of skipped records at debug level.
func (l *AnalysisLogger) LogSkipSamples(stage string, diag models.Diagnostics) {
	for _, s := range diag.Samples {
		l.WithFields(logrus.Fields{
			"stage":  stage,
			"index":  s.Index,
			"record": s.Record,
			"reason": s.Reason,
			"error":  s.Error,
		}).Debug("Record skipped")
	}
}
