// cmd/version.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/licwatch/licwatch-cli/internal/update"
)

// Version will be set at build time
var Version = "dev"

var checkUpdateFlag bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of licwatch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("licwatch version %s\n", Version)

		if !checkUpdateFlag {
			return
		}

		release, err := update.NewClient(Version).CheckForUpdate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Update check failed: %v\n", err)
			os.Exit(1)
		}
		if release == nil {
			fmt.Println("You are on the latest version.")
			return
		}
		fmt.Printf("A newer version is available: %s\n  %s\n", release.TagName, release.HTMLURL)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&checkUpdateFlag, "check", false, "Check GitHub for a newer release")
}
