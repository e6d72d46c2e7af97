package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AndreyBuyanov/ExpertSystem/internal/cli"
	httpadapter "github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/http"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve [system]",
	Short: "Serve consultations over HTTP",
	Long: `Starts an HTTP server that runs one consultation per session. Sessions live in the
configured store; /metrics exposes Prometheus counters when enabled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		systemArg(args)
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hooks := observability.LogHooks(logger)
		reg := prometheus.NewRegistry()
		if cfg.Server.Metrics {
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks = hooks.Merge(observability.NewMetrics(reg).Hooks())
		}

		svc, err := cli.NewService(ctx, cfg, logger, hooks)
		if err != nil {
			return err
		}
		defer closeService(svc)

		allowAll, _ := cmd.Flags().GetBool("cors-allow-all")
		api := httpadapter.NewHandler(svc.Manager,
			httpadapter.WithLogger(logger),
			httpadapter.WithTree(svc.Tree),
			httpadapter.WithAllowAllOrigins(allowAll),
		)
		mux := http.NewServeMux()
		if cfg.Server.Metrics {
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		}
		mux.Handle("/", api)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "addr", srv.Addr, "system", cfg.System, "store", cfg.Store.Kind)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().Bool("cors-allow-all", false, "accept cross-origin requests from any origin")
}

func closeService(svc *cli.Service) {
	if err := svc.Close(); err != nil {
		logger.Warn("closing session store", "err", err)
	}
}
