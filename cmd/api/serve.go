package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"streetpaws/internal/adapters/storage"
	"streetpaws/internal/platform/metrics"
	"streetpaws/internal/router"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the StreetPaws API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v, *cfgFile)
		},
	}
	cmd.Flags().Int("port", 0, "listen port")
	cmd.Flags().String("db-driver", "", "memory|postgres|sqlite|mysql")
	cmd.Flags().String("db-dsn", "", "database DSN")
	cmd.Flags().String("upload-dir", "", "directory for uploaded photos")
	cmd.Flags().String("public-base-url", "", "base URL encoded in QR codes")
	bindFlags(v, cmd, map[string]string{
		"port":            "port",
		"db-driver":       "db.driver",
		"db-dsn":          "db.dsn",
		"upload-dir":      "uploads.dir",
		"public-base-url": "public.base_url",
	})
	return cmd
}

func runServe(parent context.Context, v *viper.Viper, cfgFile string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfig(v, cfgFile)
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("storage close failed", map[string]any{"err": err})
		}
	}()

	h, err := router.NewRouter(ctx, router.Options{
		Config:   cfg,
		Store:    store,
		Logger:   log,
		Registry: metrics.NewRegistry(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "driver": cfg.DBDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"err": err})
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
