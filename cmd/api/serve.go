package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/api/handlers/books"
	"github.com/5w1tchy/books-store/internal/api/handlers/relations"
	"github.com/5w1tchy/books-store/internal/api/router"
	"github.com/5w1tchy/books-store/internal/cache/listcache"
	storebooks "github.com/5w1tchy/books-store/internal/store/books"
	storerelations "github.com/5w1tchy/books-store/internal/store/relations"
	"github.com/5w1tchy/books-store/internal/validate"
)

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *envFile)
		},
	}
}

func runServe(parent context.Context, envFile string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	for _, w := range a.cfg.HardeningWarnings() {
		log.Warn("config", zap.String("warning", w))
	}

	rdb, err := openRedis(ctx, a.cfg.RedisURL)
	if err != nil {
		// Cache and rate limiting are optional; the API keeps serving without them.
		log.Warn("redis unavailable", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(a.db, "books_store"),
	)

	v := validate.New()
	bookStore := storebooks.New(a.db)
	cache := listcache.New(rdb, a.cfg.ListCacheTTL, a.cfg.CacheOpTimeout, log)

	handler := router.New(router.Deps{
		Books:           books.New(bookStore, cache, v, log),
		Relations:       relations.New(storerelations.New(a.db), bookStore, v, log),
		Auth:            a.authService(),
		DB:              a.db,
		Redis:           rdb,
		Log:             log,
		Registry:        reg,
		AllowedOrigins:  a.cfg.AllowedOrigins,
		MaxBodySize:     a.cfg.MaxBodySize,
		RateLimitPerSec: a.cfg.RateLimitPerSec,
		RateLimitBurst:  a.cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", a.cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// openRedis returns nil, nil when url is empty.
func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if opt.TLSConfig == nil && strings.HasPrefix(url, "rediss://") {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 500 * time.Millisecond
	opt.WriteTimeout = 500 * time.Millisecond

	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
