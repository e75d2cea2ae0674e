package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Command != "" || len(cfg.Features) != 0 {
		t.Errorf("missing file should yield zero config, got %+v", cfg)
	}
}

func TestLoadParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "licwatch.yaml")
	content := `command: "lmutil lmstat -f {feature} -c 27000@server"
features:
  - Innovus_Impl_System
  - Genus_Synthesis
interval: 120
out: /tmp/usage.html
csv: /tmp/usage.csv
db: /tmp/usage.db
title: EDA Licenses
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Command != "lmutil lmstat -f {feature} -c 27000@server" {
		t.Errorf("command = %q", cfg.Command)
	}
	if len(cfg.Features) != 2 || cfg.Features[0] != "Innovus_Impl_System" {
		t.Errorf("features = %v", cfg.Features)
	}
	if cfg.Interval != 120 {
		t.Errorf("interval = %d, want 120", cfg.Interval)
	}
	if cfg.Title != "EDA Licenses" {
		t.Errorf("title = %q", cfg.Title)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("features: [unclosed"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail on malformed yaml")
	}
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		cfgCmd string
		want   string
	}{
		{
			name: "LICENSE_CHECK_CMD wins",
			env:  map[string]string{"LICENSE_CHECK_CMD": "a {feature}", "LICENSE_CMD": "b"},
			want: "a {feature}",
		},
		{
			name: "LICENSE_CMD is the fallback name",
			env:  map[string]string{"LICENSE_CMD": "b {feature}"},
			want: "b {feature}",
		},
		{
			name:   "config file when no env",
			env:    map[string]string{},
			cfgCmd: "from-config",
			want:   "from-config",
		},
		{
			name: "empty means built-in default",
			env:  map[string]string{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Command: tt.cfgCmd}
			getenv := func(key string) string { return tt.env[key] }
			if got := cfg.ResolveCommand(getenv); got != tt.want {
				t.Errorf("ResolveCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitFeatures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "simple", input: "A,B", want: []string{"A", "B"}},
		{name: "whitespace trimmed", input: " A , B ", want: []string{"A", "B"}},
		{name: "empty entries dropped", input: "A,,B,", want: []string{"A", "B"}},
		{name: "all empty", input: " , ,", want: nil},
		{name: "empty string", input: "", want: nil},
		{name: "duplicates kept", input: "A,A", want: []string{"A", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFeatures(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitFeatures(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitFeatures(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
