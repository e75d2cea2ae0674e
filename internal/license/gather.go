package license

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gatherer polls a set of features through a Runner and assembles one
// UsageRecord per feature.
type Gatherer struct {
	runner *Runner
}

// NewGatherer creates a gatherer that polls through runner.
func NewGatherer(runner *Runner) *Gatherer {
	return &Gatherer{runner: runner}
}

// Gather polls every feature sequentially and returns one record per input
// name, preserving input order. The timestamp and batch ID are taken once
// and shared by the whole round. Duplicate names are polled independently.
func (g *Gatherer) Gather(ctx context.Context, features []string) []UsageRecord {
	now := time.Now()
	batchID := uuid.New().String()

	records := make([]UsageRecord, 0, len(features))
	for _, feature := range features {
		exitCode, stdout, stderr := g.runner.Run(ctx, feature)
		total, used := ParseUsage(stdout)

		rec := UsageRecord{
			Feature:   feature,
			Total:     total,
			Used:      used,
			Timestamp: now,
			BatchID:   batchID,
			ExitCode:  exitCode,
			Stderr:    strings.TrimSpace(stderr),
			RawOutput: strings.TrimSpace(stdout),
		}
		if total != nil && used != nil {
			unused := *total - *used
			rec.Unused = &unused
		}
		records = append(records, rec)
	}
	return records
}
