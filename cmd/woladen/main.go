package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/getsentry/sentry-go"
	"woladen.de/internal/app"
	"woladen.de/internal/config"
	"woladen.de/internal/favorites"
	"woladen.de/internal/report"
	"woladen.de/internal/utils"
)

const version = "1.0.0"

const shutdownTimeout = 15 * time.Second

func main() {
	var (
		port       = flag.Int("port", 4000, "API server port")
		env        = flag.String("env", "development", "Environment (development|staging|production)")
		configFile = flag.String("config-file", "", "Path to a local JSON configuration file")
		configURL  = flag.String("config-url", "", "URL to a remote JSON configuration file")
	)
	flag.Parse()

	configAuthUser := os.Getenv("CONFIG_AUTH_USER")
	configAuthPass := os.Getenv("CONFIG_AUTH_PASS")

	if err := config.ValidateConfigFlags(configFile, configURL); err != nil {
		fmt.Println("Error:", err)
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := report.SetupSentry(*env, version); err != nil {
		logger.Warn("Sentry disabled", "error", err)
	}
	defer report.FlushSentry()
	report.ConfigureScope(*env, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := app.NewPooledClient()

	var (
		settings config.Settings
		err      error
	)
	switch {
	case *configFile != "":
		settings, err = config.LoadConfigFromFile(*configFile)
	case *configURL != "":
		settings, err = config.LoadConfigFromURL(ctx, client, *configURL, configAuthUser, configAuthPass)
	default:
		fmt.Println("Error: No configuration provided. Use --config-file or --config-url.")
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	cfg := config.NewConfig(*port, *env, settings)

	if err := utils.CreateCacheDirectory(settings.DatasetCacheDir, logger); err != nil {
		logger.Error("Failed to create cache directory", "error", err)
		os.Exit(1)
	}

	favs, err := newFavoritesStore(ctx, settings)
	if err != nil {
		logger.Error("Failed to set up favorites store", "error", err)
		os.Exit(1)
	}

	application := app.New(cfg, favs, logger, client, version)

	// A failed first load is not fatal: the service reports not ready until a
	// refresh succeeds.
	if _, err := application.DatasetService.Load(ctx, settings.DatasetSource()); err != nil {
		logger.Warn("Initial dataset load failed", "error", err)
	}

	go application.DatasetService.RefreshDataset(ctx, cfg, settings.DatasetRefreshInterval())
	application.StartMetricsCollection(ctx)

	if *configURL != "" {
		go application.ConfigService.RefreshConfig(ctx, *configURL, configAuthUser, configAuthPass, settings.ConfigRefreshInterval())
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      application.Routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", *env, "favorites_backend", settings.FavoritesBackend)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			report.ReportError(err, sentry.LevelFatal)
			report.FlushSentry()
			logger.Error(err.Error())
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}
}

func newFavoritesStore(ctx context.Context, settings config.Settings) (favorites.Store, error) {
	if settings.FavoritesBackend != config.FavoritesBackendDynamoDB {
		return favorites.NewMemoryStore(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return favorites.NewDynamoDBStore(dynamodb.NewFromConfig(awsCfg), settings.FavoritesTable), nil
}
