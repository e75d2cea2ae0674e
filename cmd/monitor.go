// cmd/monitor.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/licwatch/licwatch-cli/internal/license"
)

var onceFlag bool

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:     "monitor",
	Aliases: []string{"mon"},
	Short:   "Poll license usage on an interval and keep the report up to date",
	Long: `Runs the license checker for every configured feature, rewrites the
HTML report, and appends to the CSV log. By default this repeats on a fixed
interval until the process is terminated; --once runs a single cycle.

The checker command can be overridden via the LICENSE_CHECK_CMD or
LICENSE_CMD environment variable, or the config file. A "{feature}"
placeholder in the template is substituted; without one the feature name is
appended as the final argument.`,
	Example: `  # Poll the default features every 5 minutes
  licwatch monitor

  # One cycle for two features, custom artifacts
  licwatch monitor --features Innovus_Impl_System,Genus_Synthesis \
    --out usage.html --csv usage.csv --once

  # Custom checker via environment
  LICENSE_CHECK_CMD="lmutil lmstat -f {feature} -c 27000@server" licwatch monitor`,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := resolvePollOptions(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		if err := requireFeatures(opts); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(2)
		}

		store, err := openStore(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		if store != nil {
			defer store.Close()
		}

		m := newMonitor(opts, store)

		if onceFlag {
			records, err := m.RunOnce(cmd.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ %v\n", err)
				os.Exit(1)
			}
			if len(records) > 0 {
				fmt.Printf("Wrote %s and updated %s @ %s\n",
					opts.Out, opts.CSV, records[0].Timestamp.Format(license.TimeFormat))
			}
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = m.Start(ctx)
		if errors.Is(err, context.Canceled) {
			fmt.Println("Stopped.")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	addPollFlags(monitorCmd)
	monitorCmd.Flags().Int("interval", 300, "Interval in seconds between cycles (default 300 = 5 minutes)")
	monitorCmd.Flags().BoolVar(&onceFlag, "once", false, "Run once and exit (no loop)")
}
