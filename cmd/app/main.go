package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Skym0sh0/in-the-mealtime/cmd"
	"github.com/Skym0sh0/in-the-mealtime/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	logger := newLogger(configs.LogLevel)

	db, err := postgres.Open(configs.DB.DSN(), logger, configs.DB.SlowThreshold)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, db, logger)
	if err != nil {
		log.Fatalf("Error wiring application: %v", err)
	}
	defer func() { _ = app.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.SeedRestaurants(ctx); err != nil {
		log.Fatalf("Error seeding restaurants: %v", err)
	}

	if err = run(ctx, app, configs.HTTPPort, logger); err != nil {
		log.Fatalf("Error running application: %v", err)
	}
}

func getConfigs() cmd.Config {
	flags := pflag.NewFlagSet("mealtime", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to the YAML configuration file")
	envFile := flags.String("env-file", ".env", "optional dotenv file with connection secrets")
	_ = flags.Parse(os.Args[1:])

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading %s file: %v", *envFile, err)
	}

	config, err := cmd.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// run serves HTTP and drives the background jobs until ctx is cancelled or
// one of them fails.
func run(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) error {
	router, err := app.CreateRouter()
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.InfoContext(gctx, "HTTP server listening", "port", port)
		if err := router.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
