package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/workhub-ai/workhub-agent/internal/agent"
	"github.com/workhub-ai/workhub-agent/internal/config"
	"github.com/workhub-ai/workhub-agent/internal/model"
	"github.com/workhub-ai/workhub-agent/internal/notify"
	"github.com/workhub-ai/workhub-agent/internal/server"
	"github.com/workhub-ai/workhub-agent/internal/stats"
	"github.com/workhub-ai/workhub-agent/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the message intake HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var m model.Model
	if cfg.ModelConfigured() {
		m = model.NewGroqClient(&model.GroqConfig{
			APIKey:  cfg.Model.APIKey,
			BaseURL: cfg.Model.BaseURL,
			Model:   cfg.Model.Model,
			Timeout: time.Duration(cfg.Model.TimeoutSeconds) * time.Second,
		})
		logger.Info("model collaborator configured", zap.String("model", m.Name()))
	} else {
		logger.Info("model collaborator disabled, rule-based paths only")
	}

	st, err := store.Open(cfg.Paths.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	collector := stats.NewCollector()
	a := agent.New(agent.Config{
		Model:  m,
		Policy: cfg.Policy,
		Stats:  collector,
		Logger: logger,
	})

	srv := server.New(a, st, notify.NewLogNotifier(logger), collector, logger)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
