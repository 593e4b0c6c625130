package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the daytrader CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("daytrader version %s\n", version)
		fmt.Println("A risk-managed paper-trading bot with an AI-backed decision pipeline")
		fmt.Println("https://github.com/rustyeddy/daytrader")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
