package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndreyBuyanov/ExpertSystem"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of expertsystem",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "expertsystem version %s\n", expertsystem.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
