package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"woladen.de/internal/middleware"
)

// Routes registers every endpoint and wraps the router in the middleware
// chain. ctx bounds the lifetime of the cached /metrics handler.
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(app.routeNotFound)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second, app.Logger))

	router.HandlerFunc(http.MethodGet, "/v1/operators", app.listOperatorsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/stations/:id", app.showStationHandler)

	router.HandlerFunc(http.MethodPost, "/v1/sessions", app.createSessionHandler)
	router.HandlerFunc(http.MethodGet, "/v1/sessions/:id", app.showSessionHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/sessions/:id", app.deleteSessionHandler)
	router.HandlerFunc(http.MethodPut, "/v1/sessions/:id/filter", app.updateFilterHandler)
	router.HandlerFunc(http.MethodPut, "/v1/sessions/:id/reference", app.updateReferenceHandler)
	router.HandlerFunc(http.MethodGet, "/v1/sessions/:id/discovered", app.listDiscoveredHandler)
	router.HandlerFunc(http.MethodGet, "/v1/sessions/:id/map", app.showMapHandler)

	router.HandlerFunc(http.MethodGet, "/v1/favorites/:owner", app.listFavoritesHandler)
	router.HandlerFunc(http.MethodPut, "/v1/favorites/:owner/:station", app.addFavoriteHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/favorites/:owner/:station", app.removeFavoriteHandler)

	origins := app.ConfigService.Config.GetSettings().AllowedOrigins

	handler := middleware.SentryMiddleware(router)
	handler = middleware.CORS(origins)(handler)
	handler = middleware.SecurityHeaders(handler)
	return middleware.RecoverPanic(app.Logger, handler)
}
