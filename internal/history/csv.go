// Package history persists snapshot batches: an append-only CSV log (the
// canonical record) and an optional SQLite mirror for ad-hoc querying.
package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/licwatch/licwatch-cli/internal/license"
)

// csvHeader is the fixed column set of the log. Created once when the file
// first appears; appends never touch it again.
var csvHeader = []string{"timestamp", "feature", "used", "unused", "total"}

// AppendCSV appends one row per record to the log at path, creating the file
// with a header row if it does not exist. Unknown values are written as empty
// cells so the log stays machine-readable.
func AppendCSV(path string, records []license.UsageRecord) error {
	writeHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open csv log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format(license.TimeFormat),
			r.Feature,
			csvCount(r.Used),
			csvCount(r.Unused),
			csvCount(r.Total),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv log: %w", err)
	}
	return nil
}

// csvCount formats an optional count for the log; unknown becomes an empty
// cell, not the report's "?" placeholder.
func csvCount(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
