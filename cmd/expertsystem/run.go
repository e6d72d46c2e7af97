package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AndreyBuyanov/ExpertSystem/internal/cli"
	"github.com/AndreyBuyanov/ExpertSystem/internal/presentation/tui"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/observability"
)

var runCmd = &cobra.Command{
	Use:   "run [system]",
	Short: "Run a consultation in the terminal",
	Long: `Loads the configuration and asks its questions on stdin/stdout.
Answers are integers; after a result, y quits and anything else starts over.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		systemArg(args)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		eng, err := cli.NewEngine(ctx, cfg, logger, observability.LogHooks(logger))
		if err != nil {
			return err
		}

		interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		opts := cli.ConsoleOptions{
			Hint:   cfg.Hint,
			Banner: interactive,
			Logger: logger,
		}
		if plain, _ := cmd.Flags().GetBool("plain"); interactive && cfg.Markdown && !plain {
			width := 0
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = w
			}
			render, err := tui.NewRenderer(width)
			if err != nil {
				logger.Warn("markdown disabled", "err", err)
			} else {
				opts.Render = render
			}
		}

		return cli.RunConsole(ctx, eng, os.Stdin, os.Stdout, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("plain", false, "print node text without markdown rendering")

	// 'run' is the default command.
	rootCmd.Args = runCmd.Args
	rootCmd.RunE = runCmd.RunE
}
