package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, overridable at build time via
// -ldflags "-X codeatlas/internal/cli.Version=...".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codeatlas version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("codeatlas", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
