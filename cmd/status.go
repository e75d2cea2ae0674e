// cmd/status.go
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/licwatch/licwatch-cli/internal/history"
	"github.com/licwatch/licwatch-cli/internal/license"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	badColor    = color.New(color.FgRed)
	labelColor  = color.New(color.Bold)
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Shows the health of the license monitor",
	Long: `Provides a health check for the monitor setup: whether the checker
executable resolves, how fresh the report and CSV log are, the size of the
history, and system vitals of the host running the loop.`,
	Example: `  # View monitor status with colors
  licwatch status

  # View status without colors (for scripts/logging)
  licwatch status --no-color`,
	Run: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}

		opts, err := resolvePollOptions(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		headerColor.Fprintf(w, "--- 📊 License Monitor Status (%s) ---\n", Version)

		headerColor.Fprintln(w, "\n🔎 CHECKER")
		printCheckerInfo(w, opts)

		headerColor.Fprintln(w, "\n📁 ARTIFACTS")
		printArtifactInfo(w, "Report", opts.Out)
		printArtifactInfo(w, "CSV log", opts.CSV)
		printHistoryInfo(w, opts)

		headerColor.Fprintln(w, "\n💻 SYSTEM VITALS")
		printMemInfo(w)
		printCPUInfo(w)
		printDiskInfo(w)
	},
}

func printCheckerInfo(w *tabwriter.Writer, opts *pollOptions) {
	template := opts.Command
	if template == "" {
		template = "ckout_test -f <feature> (built-in default)"
	}
	fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint("Command"), template)
	fmt.Fprintf(w, "  %s:\t%v\n", labelColor.Sprint("Timeout"), opts.Timeout)
	fmt.Fprintf(w, "  %s:\t%d configured\n", labelColor.Sprint("Features"), len(opts.Features))

	// Resolve the executable through the same template expansion the
	// poll itself uses.
	runner := license.NewRunner(license.RunnerConfig{Command: opts.Command, Timeout: opts.Timeout})
	argv := runner.Argv("probe")
	if len(argv) == 0 {
		fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint("Executable"), badColor.Sprint("invalid command template"))
		return
	}
	if path, err := exec.LookPath(argv[0]); err == nil {
		fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint("Executable"), goodColor.Sprintf("✅ %s", path))
	} else {
		fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint("Executable"), badColor.Sprintf("not found in PATH (%s)", argv[0]))
	}
}

func printArtifactInfo(w *tabwriter.Writer, label, path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint(label), warnColor.Sprintf("%s (not written yet)", path))
		return
	}
	age := time.Since(info.ModTime()).Round(time.Second)
	fmt.Fprintf(w, "  %s:\t%s (%s, updated %s ago)\n",
		labelColor.Sprint(label), path, formatBytes(uint64(info.Size())), age)
}

func printHistoryInfo(w *tabwriter.Writer, opts *pollOptions) {
	if opts.DB == "" {
		fmt.Fprintf(w, "  %s:\t(disabled)\n", labelColor.Sprint("History DB"))
		return
	}
	store, err := history.OpenStore(opts.DB)
	if err != nil {
		fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint("History DB"), badColor.Sprintf("%v", err))
		return
	}
	defer store.Close()
	n, err := store.RowCount()
	if err != nil {
		fmt.Fprintf(w, "  %s:\t%s\n", labelColor.Sprint("History DB"), badColor.Sprintf("%v", err))
		return
	}
	fmt.Fprintf(w, "  %s:\t%s (%d snapshots)\n", labelColor.Sprint("History DB"), opts.DB, n)
}

func printMemInfo(w *tabwriter.Writer) {
	v, err := mem.VirtualMemory()
	if err != nil {
		fmt.Fprintf(w, "  🧠 Memory:\t%s\n", badColor.Sprintf("Error getting memory info: %v", err))
		return
	}
	percentStr := colorizePercent(v.UsedPercent)
	fmt.Fprintf(w, "  🧠 %s:\t%s (%s / %s)\n", labelColor.Sprint("Memory"), percentStr, formatBytes(v.Used), formatBytes(v.Total))
}

func printCPUInfo(w *tabwriter.Writer) {
	percentages, err := cpu.Percent(time.Second, false)
	if err != nil || len(percentages) == 0 {
		fmt.Fprintf(w, "  ⚡️ CPU Usage:\t%s\n", badColor.Sprintf("Error getting CPU info: %v", err))
		return
	}
	percentStr := colorizePercent(percentages[0])
	fmt.Fprintf(w, "  ⚡️ %s:\t%s\n", labelColor.Sprint("CPU Usage"), percentStr)
}

func printDiskInfo(w *tabwriter.Writer) {
	d, err := disk.Usage("/")
	if err != nil {
		fmt.Fprintf(w, "  💾 Disk (/):\t%s\n", badColor.Sprintf("Error getting disk info: %v", err))
		return
	}
	percentStr := colorizePercent(d.UsedPercent)
	fmt.Fprintf(w, "  💾 %s:\t%s (%s / %s)\n", labelColor.Sprint("Disk (/)"), percentStr, formatBytes(d.Used), formatBytes(d.Total))
}

func colorizePercent(p float64) string {
	s := fmt.Sprintf("%.1f%%", p)
	if p > 90.0 {
		return badColor.Sprint(s)
	}
	if p > 75.0 {
		return warnColor.Sprint(s)
	}
	return goodColor.Sprint(s)
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.AddCommand(statusCmd)
	addPollFlags(statusCmd)
	statusCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colorized output")
}
