package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and quit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pruner version %s\n", version)
	},
}
