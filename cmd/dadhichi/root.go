package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dadhichi",
	Short: "Dadhichi fitness toolbox",
	Long:  `Offline tools around the dadhichi backend: workout plans, rep counting over recorded angles and wearable model checks.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
