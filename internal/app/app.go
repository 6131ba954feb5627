package app

import (
	"log/slog"
	"net/http"

	"woladen.de/internal/config"
	"woladen.de/internal/dataset"
	"woladen.de/internal/favorites"
	"woladen.de/internal/metrics"
	"woladen.de/internal/session"
)

// Application wires the services behind the HTTP API together.
type Application struct {
	ConfigService  *config.ConfigService
	DatasetService *dataset.DatasetService
	MetricsService *metrics.MetricsService
	Sessions       *session.Manager
	Favorites      favorites.Store
	Logger         *slog.Logger
	Version        string
}

// New creates and wires all dependencies for the Application.
func New(cfg *config.Config, favs favorites.Store, logger *slog.Logger, client *http.Client, version string) *Application {
	settings := cfg.GetSettings()

	store := dataset.NewStore()
	metricsService := metrics.NewMetricsService(logger)
	loader := dataset.NewLoader(client, settings.DatasetCacheDir, settings.DatasetFetchMaxRetries, logger)

	configService := config.NewConfigService(logger, client, cfg)
	datasetService := dataset.NewDatasetService(store, loader, config.NewBackoffStore(), metricsService, logger)
	sessions := session.NewManager(store, cfg, metricsService, logger)

	return &Application{
		ConfigService:  configService,
		DatasetService: datasetService,
		MetricsService: metricsService,
		Sessions:       sessions,
		Favorites:      favs,
		Logger:         logger,
		Version:        version,
	}
}
