package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/d0ughnat/Fruad-detection/internal/config"
	"github.com/d0ughnat/Fruad-detection/internal/identity"
	"github.com/d0ughnat/Fruad-detection/internal/infra"
	"github.com/d0ughnat/Fruad-detection/internal/logging"
	"github.com/d0ughnat/Fruad-detection/internal/session"
)

// Runtime holds the stores a command operates on.
type Runtime struct {
	Users    *identity.Service
	Sessions session.Store
	Logger   *slog.Logger
	Migrate  func(ctx context.Context) error
	Close    func()
}

// Opener builds a Runtime for one command invocation.
type Opener func(ctx context.Context) (*Runtime, error)

// OpenRuntime connects to the database named by DATABASE_URL.
func OpenRuntime(ctx context.Context) (*Runtime, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL must be set")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{
		Users:    identity.NewService(identity.NewPostgresRepository(db)),
		Sessions: session.NewPostgresStore(db),
		Logger:   logger,
		Migrate:  func(ctx context.Context) error { return infra.Migrate(ctx, db, logger) },
		Close:    db.Close,
	}

	if cfg.SessionStore == config.BackendRedis {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			db.Close()
			return nil, err
		}
		rt.Sessions = session.NewRedisStore(cache)
		rt.Close = func() {
			_ = cache.Close()
			db.Close()
		}
	}
	return rt, nil
}

// NewRootCmd creates the root command.
func NewRootCmd(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fraudctl",
		Short:         "Operator tooling for the fraud detection backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(open),
		newUserCommand(open),
		newSessionsCommand(open),
	)

	return rootCmd
}

// withRuntime opens a runtime, runs fn, and closes it.
func withRuntime(cmd *cobra.Command, open Opener, fn func(ctx context.Context, rt *Runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := open(ctx)
	if err != nil {
		return err
	}
	if rt.Close != nil {
		defer rt.Close()
	}
	return fn(ctx, rt)
}
