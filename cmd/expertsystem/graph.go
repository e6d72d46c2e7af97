package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndreyBuyanov/ExpertSystem/internal/cli"
	"github.com/AndreyBuyanov/ExpertSystem/internal/presentation/graph"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

var graphCmd = &cobra.Command{
	Use:   "graph [system]",
	Short: "Export the decision tree as a Mermaid diagram",
	Long:  `Prints a Mermaid flowchart (graph TD) of the configuration. --session highlights a stored session's path.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		systemArg(args)
		ctx := cmd.Context()

		eng, err := cli.NewEngine(ctx, cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		t, err := eng.Inspect()
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			p, err := cli.NewPersistence(cfg)
			if err != nil {
				return err
			}
			defer p.Close()
			state, err := p.Store.Load(ctx, id)
			if err != nil {
				return fmt.Errorf("session %s: %w", id, err)
			}
			overlay = graph.OverlayFromState(state)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(t, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "highlight the path of this session")
}
