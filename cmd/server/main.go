package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/iudanet/blogapi/internal/config"
	"github.com/iudanet/blogapi/internal/logging"
	"github.com/iudanet/blogapi/internal/server/app"
	"github.com/iudanet/blogapi/internal/server/storage/sqldb"
	"github.com/iudanet/blogapi/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// .env загружается до разбора флагов, чтобы EnvVars его видели
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.Default()

	cli.VersionPrinter = func(*cli.Context) { printVersion() }

	cliApp := &cli.App{
		Name:    "blog-server",
		Usage:   "Blog API server",
		Version: Version,
		Flags:   cfg.Flags(),
		Commands: []*cli.Command{
			serveCmd(&cfg),
			migrateCmd(&cfg),
		},
		DefaultCommand: "serve",
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		slog.Error("Application failed", slog.Any("error", err))
		cancel()
		os.Exit(1)
	}
}

func serveCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(c *cli.Context) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			// goose пишет через slog.Default
			slog.SetDefault(logger)

			issuer, err := token.NewIssuer(cfg.TokenConfig())
			if err != nil {
				return err
			}

			store, err := sqldb.New(c.Context, cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer store.Close()

			handler := app.NewRouter(app.Deps{
				Logger:  logger,
				Users:   store,
				Posts:   store,
				Pinger:  store,
				Issuer:  issuer,
				Version: Version,
				Origins: cfg.Origins(),
			})

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           handler,
				ReadTimeout:       cfg.Server.ReadTimeout,
				WriteTimeout:      cfg.Server.WriteTimeout,
				ReadHeaderTimeout: cfg.Server.ReadTimeout,
				IdleTimeout:       time.Minute,
			}

			logger.Info("Blog server starting",
				slog.String("version", Version),
				slog.String("db_driver", cfg.Database.Driver),
			)
			return app.Serve(c.Context, logger, srv, cfg.Server.ShutdownTimeout)
		},
	}
}

func migrateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and exit",
		Action: func(c *cli.Context) error {
			logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			// миграции применяются при открытии хранилища
			store, err := sqldb.New(c.Context, cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			logger.Info("Migrations applied", slog.String("db_driver", cfg.Database.Driver))
			return store.Close()
		},
	}
}

func printVersion() {
	fmt.Printf("Blog Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
