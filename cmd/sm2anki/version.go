package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of sm2anki",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sm2anki %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
