package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/platform/postgres"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/spf13/cobra"
)

// ErrMigrationsNeedPostgres is returned by migrate when the memory driver is configured.
var ErrMigrationsNeedPostgres = errors.New("migrations require the postgres database driver")

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "scry-study",
		Short:        "Study summary and question generation service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"config file (default is ./config.yaml if present)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newTokenCommand(opts),
	)
	return root
}

// loadAppConfig loads configuration and sets up the process logger writing
// JSON lines to w.
func loadAppConfig(opts *rootOptions, w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(opts.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.SetupWithWriter(cfg.Server, w)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("model", cfg.LLM.ModelName))
	return cfg, log, nil
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadAppConfig(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate {up|down|status|version}",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadAppConfig(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg, args[0], log)
		},
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, command string, log *slog.Logger) error {
	if cfg.Database.Driver != driverPostgres {
		return ErrMigrationsNeedPostgres
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	return postgres.Migrate(ctx, db, command, log)
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			// Logs go to stderr so stdout carries only the token.
			cfg, _, err := loadAppConfig(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}

			token, err := jwtService.GenerateToken(cmd.Context(), userID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user ID (UUID) the token is issued for")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
