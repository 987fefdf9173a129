package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags "-X github.com/jobhuntd/leads/cmd.version=..." at build time.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the leads version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s %s\n", app, version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
