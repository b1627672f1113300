package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"playpartner-backend-go/internal/config"
	"playpartner-backend-go/internal/db"
	httpapi "playpartner-backend-go/internal/http"
	"playpartner-backend-go/internal/logging"
	"playpartner-backend-go/internal/migrations"
	"playpartner-backend-go/internal/observability"
	"playpartner-backend-go/internal/services"
)

const shutdownTimeout = 5 * time.Second

func rootCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd := &cobra.Command{
		Use:           "playpartner",
		Short:         "PlayPartner CRM backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	rootCmd.AddCommand(
		serveCmd,
		migrateCommand(),
		seedCommand(),
		resetAdminCommand(),
		validateEnvCommand(),
	)
	return rootCmd
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, app *app) error {
				applied, err := migrations.Apply(ctx, app.db, os.DirFS(app.cfg.MigrationsDir), app.logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", len(applied))
				return nil
			})
		},
	}
}

func seedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert users and catalog tags from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := services.LoadSeedFile(file)
			if err != nil {
				return err
			}
			return withDatabase(cmd.Context(), func(ctx context.Context, app *app) error {
				result, err := app.store.ApplySeed(ctx, seed, app.tokens())
				if err != nil {
					return err
				}
				app.logger.Info("seed applied", zap.Int("users", result.Users), zap.Int("tags", result.Tags))
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d user(s), %d tag(s)\n", result.Users, result.Tags)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "seed.yaml", "path to the seed YAML file")
	return cmd
}

func resetAdminCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "reset-admin",
		Short: "Create or reset an admin account; the password must be changed on next login",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, app *app) error {
				userID, err := app.store.ResetAdmin(ctx, app.tokens(), email, password)
				if err != nil {
					return err
				}
				app.logger.Info("admin password reset", zap.String("user_id", userID))
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready\n", services.NormalizeEmail(email))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin e-mail")
	cmd.Flags().StringVar(&password, "password", "", "temporary password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func validateEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-env",
		Short: "Check configuration and exit non-zero when it is invalid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, warnings, err := config.Load()
			for _, warning := range warnings {
				fmt.Fprintln(cmd.OutOrStdout(), "warning:", warning)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok (env=%s, port=%d)\n", cfg.Env, cfg.Port)
			return nil
		},
	}
}

type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *sqlx.DB
	store  *services.Store
}

func (a *app) tokens() services.TokenService {
	return services.TokenService{
		Secret:     []byte(a.cfg.JWTSecret),
		Issuer:     a.cfg.JWTIssuer,
		AccessTTL:  time.Duration(a.cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(a.cfg.RefreshTTLSeconds) * time.Second,
	}
}

// withDatabase loads configuration, builds the logger and opens the
// database for the duration of fn.
func withDatabase(ctx context.Context, fn func(ctx context.Context, app *app) error) error {
	cfg, warnings, err := config.Load()
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.New(logging.Options{
		Level:         cfg.LogLevel,
		Format:        cfg.LogFormat,
		Dir:           cfg.LogDir,
		RetentionDays: cfg.LogRetentionDays,
	})
	if err != nil {
		return err
	}
	defer cleanup()
	for _, warning := range warnings {
		logger.Warn("configuration warning", zap.String("warning", warning))
	}

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer database.Close()

	return fn(ctx, &app{cfg: cfg, logger: logger, db: database, store: services.NewStore(database)})
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withDatabase(ctx, func(ctx context.Context, app *app) error {
		if _, err := migrations.Apply(ctx, app.db, os.DirFS(app.cfg.MigrationsDir), app.logger); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		if _, err := services.EnsureStoragePath(app.cfg.MediaDir, services.BucketPartners); err != nil {
			return fmt.Errorf("media storage: %w", err)
		}
		metrics, err := observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}

		hub := services.NewEventHub(app.logger)
		server := httpapi.NewServer(app.store, app.cfg, hub, metrics, app.logger)
		addr := fmt.Sprintf(":%d", app.cfg.Port)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           server.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
		g.Go(func() error {
			app.logger.Info("listening", zap.String("addr", addr), zap.String("env", app.cfg.Env))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})

		err = g.Wait()
		app.logger.Info("shutdown complete")
		return err
	})
}
