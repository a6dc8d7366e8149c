package main

import (
	"fmt"

	"github.com/namecardai/namecard"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of namecard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("namecard version %s\n", namecard.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
