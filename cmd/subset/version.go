package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/subset"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of subset",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "subset version %s\n", strings.TrimSpace(subset.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
