package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/AndreyBuyanov/ExpertSystem/internal/cli"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `List, inspect and remove sessions kept in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cli.NewPersistence(cfg)
		if err != nil {
			return err
		}
		defer p.Close()
		return cli.ListSessions(cmd.Context(), p.Store, cmd.OutOrStdout())
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cli.NewPersistence(cfg)
		if err != nil {
			return err
		}
		defer p.Close()
		return cli.ShowSession(cmd.Context(), p.Store, args[0], cmd.OutOrStdout())
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cli.NewPersistence(cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("Remove %d session(s)", len(args)),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				if errors.Is(err, promptui.ErrAbort) {
					return nil
				}
				return err
			}
		}

		var errs []error
		for _, id := range args {
			if err := cli.RemoveSession(cmd.Context(), p.Store, id, cmd.OutOrStdout()); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionShowCmd, sessionRmCmd)
	sessionRmCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
