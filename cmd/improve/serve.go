package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"aiupstart.com/go-improve/internal/agent"
	"aiupstart.com/go-improve/internal/config"
	"aiupstart.com/go-improve/internal/llm"
	"aiupstart.com/go-improve/internal/metrics"
	"aiupstart.com/go-improve/internal/server"
	"aiupstart.com/go-improve/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service that relays improvement requests to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := utils.Init(cfg.Log.Level, cfg.Log.File); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			llmClient, err := llm.New(cfg.LLM)
			if err != nil {
				return err
			}
			utils.Logger.Info().
				Str("provider", cfg.LLM.Provider).
				Str("model", cfg.LLM.Model).
				Msg("Starting improve service")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, server.New(agent.NewImprover(llmClient), cfg))
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

// serve runs the API and, when configured, a separate metrics listener until ctx
// ends or one of them fails.
func serve(ctx context.Context, cfg *config.Config, api *server.Server) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.ServeContext(ctx)
	})
	if cfg.Server.MetricsAddr != "" {
		ms := metrics.NewMetricsServer(cfg.Server.MetricsAddr)
		g.Go(func() error {
			utils.Logger.Info().Str("addr", cfg.Server.MetricsAddr).Msg("Metrics listening")
			if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return ms.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}
