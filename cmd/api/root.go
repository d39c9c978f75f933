package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/auth"
	"github.com/5w1tchy/books-store/internal/config"
	"github.com/5w1tchy/books-store/internal/logger"
	"github.com/5w1tchy/books-store/internal/repository/sqlconnect"
	jwtutil "github.com/5w1tchy/books-store/internal/security/jwt"
	"github.com/5w1tchy/books-store/internal/security/password"
	"github.com/5w1tchy/books-store/internal/store/users"
)

// app holds what every subcommand needs once config is loaded.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "books-store",
		Short:         "Book catalog API with per-user relations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before the environment")

	root.AddCommand(
		newServeCmd(&envFile),
		newCreateUserCmd(&envFile),
		newTokenCmd(&envFile),
	)
	return root
}

// bootstrap loads config, builds the logger and opens the database with the
// schema applied. Callers own closing db and syncing log.
func bootstrap(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		File:        cfg.LogFile,
	})

	db, err := sqlconnect.ConnectDB(ctx, cfg.DatabaseURL, sqlconnect.Pool{
		MaxOpen: cfg.DBMaxOpenConns,
		MaxIdle: cfg.DBMaxIdleConns,
	})
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	if err := sqlconnect.EnsureSchema(ctx, db); err != nil {
		db.Close()
		_ = log.Sync()
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	a.db.Close()
	_ = a.log.Sync()
}

func (a *app) authService() *auth.Service {
	return &auth.Service{
		Users:  users.New(a.db),
		Hasher: password.NewHasher(password.LoadParamsFromEnv()),
		Tokens: jwtutil.NewSigner(a.cfg.JWTSecret, a.cfg.ClockSkew, a.cfg.AccessTTL),
		Log:    a.log,
	}
}
