// cmd/fetch.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/licwatch/licwatch-cli/internal/license"
)

var (
	formatFlag string
	noColor    bool

	fetchOKColor   = color.New(color.FgGreen)
	fetchWarnColor = color.New(color.FgYellow)
	fetchErrColor  = color.New(color.FgRed)
)

// slimRecord is the JSON shape of one snapshot for --format json. Unknown
// counts serialize as null.
type slimRecord struct {
	Feature   string `json:"feature"`
	Used      *int   `json:"used"`
	Unused    *int   `json:"unused"`
	Total     *int   `json:"total"`
	Timestamp string `json:"timestamp"`
	ExitCode  int    `json:"exit_code"`
	Stderr    string `json:"stderr,omitempty"`
}

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:     "fetch",
	Aliases: []string{"get"},
	Short:   "Fetch license usage once and print it",
	Long: `Polls every configured feature once and prints the result as a
table, JSON, or a prose summary. Like a one-shot monitor run, the HTML
report and CSV log are also updated as a side effect.`,
	Example: `  # Prose summary (the default)
  licwatch fetch --features Innovus_Impl_System

  # JSON for scripts
  licwatch fetch --features Innovus_Impl_System,Another --format json

  # Aligned table
  licwatch fetch --format table`,
	Run: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}

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

		records, err := newMonitor(opts, store).RunOnce(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		switch formatFlag {
		case "json":
			if err := printJSON(records); err != nil {
				fmt.Fprintf(os.Stderr, "❌ %v\n", err)
				os.Exit(1)
			}
		case "summary":
			printSummary(records)
		default:
			printTable(records)
		}

		for _, r := range records {
			if r.HasUnknown() {
				fmt.Fprintln(os.Stderr, "Hint: some values could not be parsed. Share a sample of the checker output so the patterns can be extended.")
				break
			}
		}
	},
}

func printTable(records []license.UsageRecord) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tUSED\tUNUSED\tTOTAL\tSTATUS\tUPDATED")

	for _, r := range records {
		var status string
		switch r.Status() {
		case license.StatusOK:
			status = fetchOKColor.Sprint("OK")
		case license.StatusFullyUsed:
			status = fetchErrColor.Sprint("Fully used")
		case license.StatusOverReported:
			status = fetchWarnColor.Sprint("Over-reported")
		default:
			status = fetchWarnColor.Sprint("Unknown parse")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Feature,
			tableCount(r.Used), tableCount(r.Unused), tableCount(r.Total),
			status,
			r.Timestamp.Format(license.TimeFormat))
	}
	w.Flush()
}

func tableCount(v *int) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *v)
}

func printJSON(records []license.UsageRecord) error {
	slim := make([]slimRecord, 0, len(records))
	for _, r := range records {
		slim = append(slim, slimRecord{
			Feature:   r.Feature,
			Used:      r.Used,
			Unused:    r.Unused,
			Total:     r.Total,
			Timestamp: r.Timestamp.Format(license.TimeFormat),
			ExitCode:  r.ExitCode,
			Stderr:    r.Stderr,
		})
	}
	out, err := json.MarshalIndent(slim, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printSummary(records []license.UsageRecord) {
	fmt.Println(summaryHeadline(records))
	for _, r := range records {
		fmt.Printf("  - %s: %s used / %s total (%s)\n",
			r.Feature, tableCount(r.Used), tableCount(r.Total), r.Status())
	}
}

// summaryHeadline sums only the counts that parsed. A batch with no known
// used count reads "?", and the total clause is dropped when no total is
// known, so an unparseable batch never collapses to zero.
func summaryHeadline(records []license.UsageRecord) string {
	var usedSum, totalSum *int
	for _, r := range records {
		if r.Used != nil {
			if usedSum == nil {
				usedSum = new(int)
			}
			*usedSum += *r.Used
		}
		if r.Total != nil {
			if totalSum == nil {
				totalSum = new(int)
			}
			*totalSum += *r.Total
		}
	}

	switch {
	case usedSum != nil && totalSum != nil:
		return fmt.Sprintf("You have %d license(s) in use out of %d total.", *usedSum, *totalSum)
	case usedSum != nil:
		return fmt.Sprintf("You have %d license(s) in use.", *usedSum)
	default:
		return "You have ? license(s) in use."
	}
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addPollFlags(fetchCmd)
	fetchCmd.Flags().StringVar(&formatFlag, "format", "summary", "Output format: table, json, or summary")
	fetchCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}
