// cmd/watch.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/licwatch/licwatch-cli/internal/license"
	"github.com/licwatch/licwatch-cli/internal/tui/dashboard"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live terminal view of license usage",
	Long: `Opens an interactive dashboard that re-polls the checker on the
configured interval. Unlike monitor, watch writes no files.

Keys: q quit, r refresh now, a toggle auto-refresh.`,
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

		// The dashboard has its own floor: re-polling a slow checker
		// faster than every 5s just queues up subprocesses.
		interval := opts.Interval
		if interval < 5*time.Second {
			interval = 5 * time.Second
		}

		gatherer := newGatherer(opts)
		d := dashboard.New(opts.Title, interval, func() []license.UsageRecord {
			return gatherer.Gather(context.Background(), opts.Features)
		})

		if err := d.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Dashboard error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addPollFlags(watchCmd)
	watchCmd.Flags().Int("interval", 30, "Seconds between dashboard refreshes")
}
