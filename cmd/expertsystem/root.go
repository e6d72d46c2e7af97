package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndreyBuyanov/ExpertSystem/internal/cli"
	"github.com/AndreyBuyanov/ExpertSystem/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "expertsystem",
	Short: "Rule-based expert system shell",
	Long: `expertsystem walks a tree of yes/no style questions loaded from an XML or YAML
configuration until it reaches an answer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, c); err != nil {
			return err
		}
		l, err := cli.NewLogger(c)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "YAML settings file")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.Bool("strict", false, "reject configurations with structural errors")
	pf.String("finish-policy", "", "when a session finishes: observe or transition")
	pf.String("store", "", "session store: memory, file, sqlite or redis")
}

// applyFlags overlays explicitly set flags on the loaded configuration.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("strict") {
		c.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("finish-policy") {
		c.FinishPolicy, _ = flags.GetString("finish-policy")
	}
	if flags.Changed("store") {
		c.Store.Kind, _ = flags.GetString("store")
	}
	return c.Validate()
}

// systemArg lets the first positional argument name the configuration.
func systemArg(args []string) {
	if len(args) > 0 {
		cfg.System = args[0]
	}
}
