package license

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunnerArgv(t *testing.T) {
	tests := []struct {
		name    string
		command string
		feature string
		want    []string
	}{
		{
			name:    "default template",
			command: "",
			feature: "Innovus_Impl_System",
			want:    []string{"ckout_test", "-f", "Innovus_Impl_System"},
		},
		{
			name:    "placeholder substitution",
			command: "lmutil lmstat -f {feature} -c 27000@server",
			feature: "Genus_Synthesis",
			want:    []string{"lmutil", "lmstat", "-f", "Genus_Synthesis", "-c", "27000@server"},
		},
		{
			name:    "no placeholder appends feature",
			command: "/path/to/wrapper.sh --verbose",
			feature: "MyFeature",
			want:    []string{"/path/to/wrapper.sh", "--verbose", "MyFeature"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(RunnerConfig{Command: tt.command})
			got := r.Argv(tt.feature)
			if len(got) != len(tt.want) {
				t.Fatalf("Argv() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Argv()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRunnerDefaults(t *testing.T) {
	r := NewRunner(RunnerConfig{})
	if r.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", r.Timeout(), DefaultTimeout)
	}
}

func TestRunnerRunCapturesOutput(t *testing.T) {
	r := NewRunner(RunnerConfig{Command: "echo Issued=10 Used=4 --feature"})
	exitCode, stdout, stderr := r.Run(context.Background(), "SomeFeature")
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %q)", exitCode, stderr)
	}
	if !strings.Contains(stdout, "Issued=10 Used=4") {
		t.Errorf("stdout = %q, missing echoed text", stdout)
	}
	if !strings.Contains(stdout, "SomeFeature") {
		t.Errorf("stdout = %q, feature not appended to argv", stdout)
	}
}

func TestRunnerMissingExecutable(t *testing.T) {
	r := NewRunner(RunnerConfig{Command: "definitely-not-a-real-binary-12345"})
	exitCode, stdout, stderr := r.Run(context.Background(), "F")
	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1", exitCode)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if stderr == "" {
		t.Error("stderr is empty, want failure description")
	}
}

func TestRunnerTimeout(t *testing.T) {
	r := NewRunner(RunnerConfig{Command: "sleep 10", Timeout: 100 * time.Millisecond})
	start := time.Now()
	exitCode, stdout, stderr := r.Run(context.Background(), "F")
	elapsed := time.Since(start)

	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1", exitCode)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "timeout") {
		t.Errorf("stderr = %q, want timeout description", stderr)
	}
	if elapsed > 5*time.Second {
		t.Errorf("Run took %v, timeout not enforced", elapsed)
	}
}

func TestRunnerNonzeroExit(t *testing.T) {
	// false ignores its arguments, so the appended feature is harmless.
	r := NewRunner(RunnerConfig{Command: "false"})
	exitCode, _, _ := r.Run(context.Background(), "F")
	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1", exitCode)
	}
}
