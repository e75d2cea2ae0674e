package license

import "testing"

func intPtr(v int) *int { return &v }

func TestParseUsagePatterns(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantTotal *int
		wantUsed  *int
	}{
		{
			name:      "flexlm phrasing",
			output:    "Users of Innovus: Total of 25 licenses issued; Total of 5 licenses in use",
			wantTotal: intPtr(25),
			wantUsed:  intPtr(5),
		},
		{
			name:      "flexlm phrasing without semicolon",
			output:    "Total of 12 licenses issued\nTotal of 3 licenses in use",
			wantTotal: intPtr(12),
			wantUsed:  intPtr(3),
		},
		{
			name:      "colon phrasing with intervening text",
			output:    "Server up.\nTotal licenses: 100\nsome other line\nIn use: 42\n",
			wantTotal: intPtr(100),
			wantUsed:  intPtr(42),
		},
		{
			name:      "key value phrasing",
			output:    "Issued=10 ... Used=10",
			wantTotal: intPtr(10),
			wantUsed:  intPtr(10),
		},
		{
			name:      "key value phrasing across newlines",
			output:    "issued = 8\nblah\nused = 2",
			wantTotal: intPtr(8),
			wantUsed:  intPtr(2),
		},
		{
			name:      "case insensitive",
			output:    "TOTAL OF 7 LICENSES ISSUED; TOTAL OF 1 LICENSES IN USE",
			wantTotal: intPtr(7),
			wantUsed:  intPtr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, used := ParseUsage(tt.output)
			assertCount(t, "total", total, tt.wantTotal)
			assertCount(t, "used", used, tt.wantUsed)
		})
	}
}

func TestParseUsageFallback(t *testing.T) {
	output := "alice@host1 innovus (v21.1) started, in use\nbob@host2 innovus (v21.1) started, in use\nidle line\n"
	total, used := ParseUsage(output)
	if total != nil {
		t.Errorf("total = %d, want nil", *total)
	}
	if used == nil || *used != 2 {
		t.Errorf("used = %v, want 2", used)
	}
}

func TestParseUsageFallbackWordBoundary(t *testing.T) {
	// "reuse" must not count as a checkout line.
	total, used := ParseUsage("please reuse this handle\ncabin user\n")
	if total != nil || used != nil {
		t.Errorf("ParseUsage = (%v, %v), want (nil, nil)", total, used)
	}
}

func TestParseUsageNothing(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "empty", output: ""},
		{name: "unrelated text", output: "error: cannot connect to license server\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, used := ParseUsage(tt.output)
			if total != nil || used != nil {
				t.Errorf("ParseUsage(%q) = (%v, %v), want (nil, nil)", tt.output, total, used)
			}
		})
	}
}

func assertCount(t *testing.T, label string, got, want *int) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %d, want nil", label, *got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %d", label, *want)
	case want != nil && got != nil && *got != *want:
		t.Errorf("%s = %d, want %d", label, *got, *want)
	}
}
