package main

import (
	"github.com/spf13/cobra"

	"github.com/AndreyBuyanov/ExpertSystem/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [pattern]...",
	Short: "Check configurations for structural problems",
	Long: `Loads every configuration matching the glob patterns (** matches any depth) and
reports duplicate ids, dangling connections, overlapping predicates, cycles and
unreachable nodes. Defaults to ` + cli.DefaultValidatePattern + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns := args
		if len(patterns) == 0 {
			patterns = []string{cli.DefaultValidatePattern}
		}
		failOnWarning, _ := cmd.Flags().GetBool("warnings")
		return cli.ValidateFiles(cmd.Context(), patterns, failOnWarning, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolP("warnings", "w", false, "treat warnings as failures")
}
