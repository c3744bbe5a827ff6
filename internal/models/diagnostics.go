package models

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultSampleLimit bounds the number of skipped records kept for inspection
const DefaultSampleLimit = 20

// SkippedRecord describes one input record that was not applied
type SkippedRecord struct {
	Index  int    `json:"index"`
	Record string `json:"record"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// Diagnostics accumulates per-record outcomes of a batch
type Diagnostics struct {
	Processed     int             `json:"processed"`
	Succeeded     int             `json:"succeeded"`
	Skipped       int             `json:"skipped"`
	SkipsByReason map[string]int  `json:"skips_by_reason"`
	Samples       []SkippedRecord `json:"samples"`
	sampleLimit   int
}

// NewDiagnostics creates an empty summary keeping at most sampleLimit samples
func NewDiagnostics(sampleLimit int) *Diagnostics {
	if sampleLimit < 0 {
		sampleLimit = 0
	}
	return &Diagnostics{
		SkipsByReason: make(map[string]int),
		sampleLimit:   sampleLimit,
	}
}

// RecordSuccess counts one applied record
func (d *Diagnostics) RecordSuccess() {
	d.Processed++
	d.Succeeded++
}

// RecordSkip counts one skipped record under the reason derived from err
func (d *Diagnostics) RecordSkip(index int, record string, err error) {
	d.Processed++
	d.Skipped++
	reason := SkipReason(err)
	d.SkipsByReason[reason]++
	if len(d.Samples) < d.sampleLimit {
		d.Samples = append(d.Samples, SkippedRecord{
			Index:  index,
			Record: record,
			Reason: reason,
			Error:  err.Error(),
		})
	}
}

// String renders a stable one-line summary
func (d Diagnostics) String() string {
	reasons := make([]string, 0, len(d.SkipsByReason))
	for reason := range d.SkipsByReason {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, d.SkipsByReason[reason]))
	}
	return fmt.Sprintf("processed=%d succeeded=%d skipped=%d [%s]",
		d.Processed, d.Succeeded, d.Skipped, strings.Join(parts, " "))
}
