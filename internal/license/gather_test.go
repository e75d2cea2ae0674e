package license

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGatherOrderAndDerivation(t *testing.T) {
	runner := NewRunner(RunnerConfig{Command: "echo Total licenses: 25 In use: 5 --"})
	g := NewGatherer(runner)

	records := g.Gather(context.Background(), []string{"A", "B"})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Feature != "A" || records[1].Feature != "B" {
		t.Errorf("record order = [%s, %s], want [A, B]", records[0].Feature, records[1].Feature)
	}

	for _, r := range records {
		if r.Total == nil || *r.Total != 25 {
			t.Errorf("%s: total = %v, want 25", r.Feature, r.Total)
		}
		if r.Used == nil || *r.Used != 5 {
			t.Errorf("%s: used = %v, want 5", r.Feature, r.Used)
		}
		if r.Unused == nil || *r.Unused != 20 {
			t.Errorf("%s: unused = %v, want 20", r.Feature, r.Unused)
		}
		if r.Status() != StatusOK {
			t.Errorf("%s: status = %q, want %q", r.Feature, r.Status(), StatusOK)
		}
	}
}

func TestGatherSharedTimestampAndBatch(t *testing.T) {
	runner := NewRunner(RunnerConfig{Command: "echo Issued=2 Used=1"})
	g := NewGatherer(runner)

	records := g.Gather(context.Background(), []string{"A", "B", "C"})
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for _, r := range records[1:] {
		if !r.Timestamp.Equal(records[0].Timestamp) {
			t.Errorf("timestamp %v differs from batch timestamp %v", r.Timestamp, records[0].Timestamp)
		}
		if r.BatchID != records[0].BatchID {
			t.Errorf("batch ID %q differs from %q", r.BatchID, records[0].BatchID)
		}
	}
	if records[0].BatchID == "" {
		t.Error("batch ID is empty")
	}
}

func TestGatherDuplicatesPolledIndependently(t *testing.T) {
	runner := NewRunner(RunnerConfig{Command: "echo Issued=5 Used=5"})
	g := NewGatherer(runner)

	records := g.Gather(context.Background(), []string{"Same", "Same"})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (duplicates must not be deduplicated)", len(records))
	}
}

func TestGatherFailedFeatureStillProducesRecord(t *testing.T) {
	// First feature times out, but the record still comes back in order
	// with unknown counts and a stderr description.
	slow := NewGatherer(NewRunner(RunnerConfig{Command: "sleep 10", Timeout: 100 * time.Millisecond}))
	records := slow.Gather(context.Background(), []string{"A"})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Total != nil || r.Used != nil || r.Unused != nil {
		t.Errorf("counts = (%v, %v, %v), want all nil", r.Total, r.Used, r.Unused)
	}
	if r.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", r.ExitCode)
	}
	if r.Stderr == "" {
		t.Error("stderr is empty, want failure description")
	}
	if r.Status() != StatusUnknown {
		t.Errorf("status = %q, want %q", r.Status(), StatusUnknown)
	}
}

func TestGatherMixedSuccessAndTimeout(t *testing.T) {
	// A checker that hangs for one feature and answers for the rest.
	script := filepath.Join(t.TempDir(), "checker.sh")
	body := "#!/bin/sh\nif [ \"$1\" = \"SLOW\" ]; then sleep 10; fi\necho \"Issued=10 Used=3\"\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("write checker script: %v", err)
	}

	g := NewGatherer(NewRunner(RunnerConfig{Command: script, Timeout: 300 * time.Millisecond}))
	records := g.Gather(context.Background(), []string{"SLOW", "FAST"})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Feature != "SLOW" || records[1].Feature != "FAST" {
		t.Fatalf("order = [%s, %s], want [SLOW, FAST]", records[0].Feature, records[1].Feature)
	}

	slow := records[0]
	if slow.Total != nil || slow.Used != nil {
		t.Errorf("SLOW counts = (%v, %v), want unknown", slow.Total, slow.Used)
	}
	if slow.Stderr == "" {
		t.Error("SLOW stderr is empty, want timeout description")
	}

	fast := records[1]
	if fast.Total == nil || *fast.Total != 10 || fast.Used == nil || *fast.Used != 3 {
		t.Errorf("FAST counts = (%v, %v), want (10, 3)", fast.Total, fast.Used)
	}
	if fast.Unused == nil || *fast.Unused != 7 {
		t.Errorf("FAST unused = %v, want 7", fast.Unused)
	}
}

func TestGatherTrimsDiagnostics(t *testing.T) {
	runner := NewRunner(RunnerConfig{Command: "echo   Issued=1 Used=1  "})
	g := NewGatherer(runner)
	records := g.Gather(context.Background(), []string{"A"})
	if got := records[0].RawOutput; got != "Issued=1 Used=1 A" {
		t.Errorf("raw output = %q, want trimmed echo output", got)
	}
}
