// cmd/helpers.go
package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/licwatch/licwatch-cli/internal/config"
	"github.com/licwatch/licwatch-cli/internal/history"
	"github.com/licwatch/licwatch-cli/internal/license"
	"github.com/licwatch/licwatch-cli/internal/monitor"
)

// Flag storage shared by the polling commands. Only one command runs per
// process, so sharing the vars is safe.
var (
	featuresFlag string
	outFlag      string
	csvFlag      string
	dbFlag       string
	titleFlag    string
	timeoutFlag  int
)

// addPollFlags registers the flags common to monitor, fetch, and watch.
func addPollFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&featuresFlag, "features", "Innovus_Impl_System,Genus_Synthesis",
		"Comma-separated list of features (e.g., Innovus_Impl_System,Genus_Synthesis)")
	cmd.Flags().StringVar(&outFlag, "out", "license_usage.html", "Output HTML report file")
	cmd.Flags().StringVar(&csvFlag, "csv", "license_usage.csv", "CSV log file")
	cmd.Flags().StringVar(&dbFlag, "db", "", "Optional SQLite history database (disabled when empty)")
	cmd.Flags().StringVar(&titleFlag, "title", "License Usage Monitor", "Report page title")
	cmd.Flags().IntVar(&timeoutFlag, "timeout", 30, "Checker timeout per feature in seconds")
}

// pollOptions is the fully resolved configuration for one polling command:
// flags override the config file, and for the checker command the
// environment (LICENSE_CHECK_CMD / LICENSE_CMD) overrides both.
type pollOptions struct {
	Command  string
	Features []string
	Out      string
	CSV      string
	DB       string
	Title    string
	Interval time.Duration
	Timeout  time.Duration
}

// resolvePollOptions merges flags, environment, and config file.
func resolvePollOptions(cmd *cobra.Command) (*pollOptions, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts := &pollOptions{
		Command:  cfg.ResolveCommand(os.Getenv),
		Features: config.SplitFeatures(featuresFlag),
		Out:      outFlag,
		CSV:      csvFlag,
		DB:       dbFlag,
		Title:    titleFlag,
		Timeout:  time.Duration(timeoutFlag) * time.Second,
	}

	flags := cmd.Flags()
	// --interval is registered per command (monitor and watch use different
	// defaults), so it is read through the command's own flag set.
	if flags.Lookup("interval") != nil {
		seconds, _ := flags.GetInt("interval")
		opts.Interval = time.Duration(seconds) * time.Second
	}
	if !flags.Changed("features") && len(cfg.Features) > 0 {
		opts.Features = cfg.Features
	}
	if !flags.Changed("out") && cfg.Out != "" {
		opts.Out = cfg.Out
	}
	if !flags.Changed("csv") && cfg.CSV != "" {
		opts.CSV = cfg.CSV
	}
	if !flags.Changed("db") && cfg.DB != "" {
		opts.DB = cfg.DB
	}
	if !flags.Changed("title") && cfg.Title != "" {
		opts.Title = cfg.Title
	}
	if flags.Lookup("interval") != nil && !flags.Changed("interval") && cfg.Interval > 0 {
		opts.Interval = time.Duration(cfg.Interval) * time.Second
	}

	Debug("resolved options: command=%q features=%v out=%s csv=%s db=%s",
		opts.Command, opts.Features, opts.Out, opts.CSV, opts.DB)
	return opts, nil
}

// errNoFeatures is reported when the feature list is empty after trimming.
// Commands map it to exit code 2 before any artifact is written.
var errNoFeatures = errors.New("No features provided.")

func requireFeatures(opts *pollOptions) error {
	if len(opts.Features) == 0 {
		return errNoFeatures
	}
	return nil
}

// newGatherer builds the checker pipeline from resolved options.
func newGatherer(opts *pollOptions) *license.Gatherer {
	runner := license.NewRunner(license.RunnerConfig{
		Command: opts.Command,
		Timeout: opts.Timeout,
	})
	return license.NewGatherer(runner)
}

// openStore opens the optional history database. Returns (nil, nil) when no
// database is configured.
func openStore(opts *pollOptions) (*history.Store, error) {
	if opts.DB == "" {
		return nil, nil
	}
	return history.OpenStore(opts.DB)
}

// newMonitor wires the full cycle from resolved options.
func newMonitor(opts *pollOptions, store *history.Store) *monitor.Monitor {
	return monitor.New(newGatherer(opts), monitor.Config{
		Features:   opts.Features,
		ReportPath: opts.Out,
		CSVPath:    opts.CSV,
		Title:      opts.Title,
		Interval:   opts.Interval,
		Store:      store,
	})
}
