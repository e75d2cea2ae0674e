// Package monitor drives the poll → report → log cycle, once or on a fixed
// interval.
//
// Architecture:
//
//	┌──────────┐  gather   ┌─────────┐  render  ┌──────────────┐
//	│ Monitor  │ ────────▶ │ records │ ───────▶ │ HTML report  │ (overwritten)
//	│ (loop)   │           └─────────┘ ───────▶ │ CSV log      │ (appended)
//	└──────────┘                       ───────▶ │ SQLite (opt) │ (inserted)
//	                                            └──────────────┘
package monitor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/licwatch/licwatch-cli/internal/history"
	"github.com/licwatch/licwatch-cli/internal/license"
	"github.com/licwatch/licwatch-cli/internal/report"
)

// MinInterval is the floor applied to the polling interval so a
// misconfigured value cannot produce a tight loop.
const MinInterval = 5 * time.Second

// DefaultInterval is the polling interval when none is configured.
const DefaultInterval = 300 * time.Second

// Monitor runs snapshot cycles for a fixed feature list and writes the
// report and history artifacts.
type Monitor struct {
	gatherer   *license.Gatherer
	features   []string
	reportPath string
	csvPath    string
	title      string
	interval   time.Duration
	store      *history.Store
	logFn      func(level, msg string)
}

// Config holds configuration for a Monitor.
type Config struct {
	// Features is the list of feature names to poll each cycle.
	Features []string

	// ReportPath is the HTML report file, fully overwritten each cycle.
	ReportPath string

	// CSVPath is the append-only CSV log.
	CSVPath string

	// Title is the report document title.
	Title string

	// Interval is the sleep between cycles (default: 300s, floor: 5s).
	Interval time.Duration

	// Store is an optional SQLite history mirror.
	Store *history.Store

	// LogFn is an optional callback for logging (if nil, prints to stdout)
	LogFn func(level, msg string)
}

// New creates a monitor. The interval floor is applied here so Start never
// spins faster than MinInterval.
func New(gatherer *license.Gatherer, cfg Config) *Monitor {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Interval < MinInterval {
		cfg.Interval = MinInterval
	}
	return &Monitor{
		gatherer:   gatherer,
		features:   cfg.Features,
		reportPath: cfg.ReportPath,
		csvPath:    cfg.CSVPath,
		title:      cfg.Title,
		interval:   cfg.Interval,
		store:      cfg.Store,
		logFn:      cfg.LogFn,
	}
}

// Interval returns the effective sleep between cycles.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

func (m *Monitor) log(level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if m.logFn != nil {
		m.logFn(level, msg)
	} else {
		fmt.Printf("%s\n", msg)
	}
}

// RunOnce performs one full cycle: gather, overwrite the report, append the
// CSV log, and mirror into the history store when one is configured. It
// returns the gathered records; per-feature failures are embedded in the
// records, so an error here means an artifact could not be written.
func (m *Monitor) RunOnce(ctx context.Context) ([]license.UsageRecord, error) {
	records := m.gatherer.Gather(ctx, m.features)

	doc := report.RenderHTML(records, m.title)
	if err := os.WriteFile(m.reportPath, []byte(doc), 0644); err != nil {
		return records, fmt.Errorf("write report %s: %w", m.reportPath, err)
	}

	if err := history.AppendCSV(m.csvPath, records); err != nil {
		return records, fmt.Errorf("append log %s: %w", m.csvPath, err)
	}

	if m.store != nil {
		if err := m.store.InsertBatch(records); err != nil {
			return records, fmt.Errorf("insert history batch: %w", err)
		}
	}

	return records, nil
}

// Start runs one cycle immediately, then repeats after sleeping the full
// interval following each cycle's work (actual period = interval + work
// duration; no drift correction, no catch-up). It blocks until the context
// is cancelled. Cycle errors are logged and do not stop the loop.
func (m *Monitor) Start(ctx context.Context) error {
	for {
		records, err := m.RunOnce(ctx)
		if err != nil {
			m.log("warning", "⚠️ Cycle failed: %v", err)
		} else if len(records) > 0 {
			m.log("info", "Wrote %s and updated %s @ %s",
				m.reportPath, m.csvPath, records[0].Timestamp.Format(license.TimeFormat))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.interval):
		}
	}
}
