package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Dronify v" + version)
	},
}
