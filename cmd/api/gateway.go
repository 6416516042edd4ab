package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"streetpaws/internal/gateway"
	"streetpaws/internal/platform/config"
	"streetpaws/internal/platform/metrics"
)

const originTimeout = 15 * time.Second

func gatewayCommand(v *viper.Viper, cfgFile *string) *cobra.Command {
	var evict bool

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Run the caching gateway in front of the API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGateway(cmd.Context(), v, *cfgFile, evict)
		},
	}
	cmd.Flags().String("listen", "", "gateway listen address")
	cmd.Flags().String("origin", "", "API base URL")
	cmd.Flags().String("cache-version", "", "cache namespace; older ones are deleted on activate")
	cmd.Flags().String("redis-addr", "", "share the cache through redis instead of process memory")
	cmd.Flags().BoolVar(&evict, "evict-on-close", false, "delete the current cache namespace on shutdown")
	bindFlags(v, cmd, map[string]string{
		"listen":        "gateway.listen",
		"origin":        "gateway.origin",
		"cache-version": "gateway.cache_version",
		"redis-addr":    "gateway.redis_addr",
	})
	return cmd
}

func runGateway(parent context.Context, v *viper.Viper, cfgFile string, evict bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	gcfg := cfg.Gateway

	var store gateway.Storage = gateway.NewMemoryStorage()
	if gcfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: gcfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		store = gateway.NewRedisStorage(rdb, "")
	}

	origin, err := gateway.NewOrigin(gcfg.Origin, originTimeout)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	g, err := gateway.New(gatewayConfig(gcfg, evict), store, origin, gateway.Options{
		Logger:  log,
		Metrics: gateway.NewMetrics(reg),
	})
	if err != nil {
		return err
	}

	// Install no bloquea el arranque: hasta que el origen responda se sirve en passthrough.
	started := make(chan struct{})
	go func() {
		defer close(started)
		if err := g.Start(ctx, gateway.NewStartBackOff()); err != nil && ctx.Err() == nil {
			log.Error("gateway start gave up, serving passthrough", map[string]any{"err": err})
		}
	}()

	srv := &http.Server{
		Addr:        gcfg.Listen,
		Handler:     gateway.NewHandler(g, reg, log),
		ReadTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting gateway", map[string]any{"addr": srv.Addr, "origin": gcfg.Origin, "phase": g.Phase()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		<-started
		if err != nil {
			log.Error("gateway server error", map[string]any{"err": err})
		}
		return err
	case <-ctx.Done():
	}
	<-started

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return g.Close(shutdownCtx)
}

func gatewayConfig(gcfg config.GatewayConfig, evict bool) gateway.Config {
	conf := gateway.DefaultConfig()
	conf.Version = gcfg.CacheVersion
	conf.EvictOnClose = evict
	if len(gcfg.Precache) > 0 {
		conf.Precache = append([]string(nil), gcfg.Precache...)
	}
	return conf
}
