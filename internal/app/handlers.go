package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"woladen.de/internal/favorites"
	"woladen.de/internal/filter"
	"woladen.de/internal/geo"
	"woladen.de/internal/models"
	"woladen.de/internal/session"
)

// HealthStatus is the body of /v1/healthcheck.
//
// Ready is true once a dataset with at least one station has been published.
// Until then the handler answers with HTTP 500 so load balancers hold back
// traffic.
type HealthStatus struct {
	Status         string `json:"status"`
	Environment    string `json:"environment"`
	Version        string `json:"version"`
	DatasetVersion uint64 `json:"dataset_version"`
	Stations       int    `json:"stations"`
	Sessions       int    `json:"sessions"`
	Ready          bool   `json:"ready"`
}

func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	current := app.DatasetService.Store.Current()

	status := HealthStatus{
		Status:         "available",
		Environment:    app.ConfigService.Config.Env,
		Version:        app.Version,
		DatasetVersion: current.Version,
		Stations:       current.Len(),
		Sessions:       app.Sessions.Count(),
		Ready:          current.Len() > 0,
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusInternalServerError
	}
	app.writeJSON(w, code, envelope{"health": status}, nil)
}

func (app *Application) listOperatorsHandler(w http.ResponseWriter, r *http.Request) {
	settings := app.ConfigService.Config.GetSettings()

	minStations := settings.MinOperatorStations
	if raw := r.URL.Query().Get("min_stations"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			app.badRequestResponse(w, errors.New("min_stations must be a non-negative integer"))
			return
		}
		minStations = n
	}

	orderName := settings.OperatorOrder
	if raw := r.URL.Query().Get("order"); raw != "" {
		orderName = raw
	}
	order, err := parseOperatorOrder(orderName)
	if err != nil {
		app.badRequestResponse(w, err)
		return
	}

	operators := filter.ListOperators(app.DatasetService.Store.Current().Operators, minStations, order)
	app.writeJSON(w, http.StatusOK, envelope{"operators": operators}, nil)
}

func parseOperatorOrder(name string) (filter.OperatorOrder, error) {
	switch name {
	case "name":
		return filter.ByName, nil
	case "count":
		return filter.ByStationCount, nil
	default:
		return 0, fmt.Errorf("unknown operator order %q", name)
	}
}

func (app *Application) showStationHandler(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	ref, err := parseReferenceParams(r)
	if err != nil {
		app.badRequestResponse(w, err)
		return
	}

	station, ok := app.DatasetService.Store.Current().Station(id)
	if !ok {
		app.notFoundResponse(w, "station")
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"station": newStationView(station, ref)}, nil)
}

func (app *Application) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	s := app.Sessions.Create()

	headers := make(http.Header)
	headers.Set("Location", "/v1/sessions/"+s.ID)
	app.writeJSON(w, http.StatusCreated, envelope{"session": s.State()}, headers)
}

// lookupSession writes a 404 and returns false when the session is unknown.
func (app *Application) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	s, ok := app.Sessions.Get(id)
	if !ok {
		app.notFoundResponse(w, "session")
		return nil, false
	}
	return s, true
}

func (app *Application) showSessionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.lookupSession(w, r)
	if !ok {
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"session": s.State()}, nil)
}

func (app *Application) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.lookupSession(w, r)
	if !ok {
		return
	}
	app.Sessions.Delete(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// filterRequest edits the committed filter. Omitted fields keep their
// committed value; required_amenities replaces the whole set while
// toggle_amenities flips individual keys.
type filterRequest struct {
	Reset             bool     `json:"reset"`
	Operator          *string  `json:"operator"`
	MinPowerKW        *float64 `json:"min_power_kw"`
	RequiredAmenities []string `json:"required_amenities"`
	ToggleAmenities   []string `json:"toggle_amenities"`
}

func (req filterRequest) apply(committed models.FilterConfiguration) (models.FilterConfiguration, error) {
	if req.RequiredAmenities != nil {
		committed = committed.Clone()
		committed.RequiredAmenities = make(map[string]struct{})
	}
	draft := filter.NewDraft(committed)
	if req.Reset {
		draft.Reset()
	}
	if req.Operator != nil {
		draft.SetOperator(strings.TrimSpace(*req.Operator))
	}
	if req.MinPowerKW != nil {
		if *req.MinPowerKW < 0 {
			return models.FilterConfiguration{}, errors.New("min_power_kw must not be negative")
		}
		draft.SetMinPowerKW(*req.MinPowerKW)
	}
	for _, raw := range req.RequiredAmenities {
		key, err := normalizeAmenityKey(raw)
		if err != nil {
			return models.FilterConfiguration{}, err
		}
		draft.RequireAmenities(key)
	}
	for _, raw := range req.ToggleAmenities {
		key, err := normalizeAmenityKey(raw)
		if err != nil {
			return models.FilterConfiguration{}, err
		}
		draft.ToggleAmenity(key)
	}
	return draft.Commit(), nil
}

func (app *Application) updateFilterHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.lookupSession(w, r)
	if !ok {
		return
	}

	var req filterRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, err)
		return
	}

	cfg, err := req.apply(s.State().Filter)
	if err != nil {
		app.badRequestResponse(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, envelope{"session": s.ApplyFilter(cfg)}, nil)
}

// referenceRequest carries either a point or a viewport whose centre becomes
// the reference point.
type referenceRequest struct {
	Lat      *float64         `json:"lat"`
	Lon      *float64         `json:"lon"`
	Viewport *geo.BoundingBox `json:"viewport"`
	Seq      uint64           `json:"seq"`
}

func (req referenceRequest) point() (models.Coordinate, error) {
	switch {
	case req.Viewport != nil && (req.Lat != nil || req.Lon != nil):
		return models.Coordinate{}, errors.New("give either lat/lon or viewport, not both")
	case req.Viewport != nil:
		v := req.Viewport
		if err := validateBounds(v.MinLat, v.MinLon, v.MaxLat, v.MaxLon); err != nil {
			return models.Coordinate{}, err
		}
		return geo.NewBoundingBox(v.MinLat, v.MinLon, v.MaxLat, v.MaxLon).Center(), nil
	case req.Lat == nil || req.Lon == nil:
		return models.Coordinate{}, errors.New("lat and lon are required")
	case !geo.IsValidLatLon(*req.Lat, *req.Lon):
		return models.Coordinate{}, errInvalidCoordinate
	default:
		return models.Coordinate{Latitude: *req.Lat, Longitude: *req.Lon}, nil
	}
}

type updateView struct {
	Stale      bool `json:"stale"`
	Reselected bool `json:"reselected"`
	Added      int  `json:"added"`
}

func (app *Application) updateReferenceHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.lookupSession(w, r)
	if !ok {
		return
	}

	var req referenceRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, err)
		return
	}

	point, err := req.point()
	if err != nil {
		app.badRequestResponse(w, err)
		return
	}

	update, state := s.UpdateReference(point, req.Seq)
	app.writeJSON(w, http.StatusOK, envelope{
		"update":  updateView{Stale: update.Stale, Reselected: update.Reselected, Added: update.Added},
		"session": state,
	}, nil)
}

func (app *Application) listDiscoveredHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.lookupSession(w, r)
	if !ok {
		return
	}

	stations, ref := s.Discovered()
	app.writeJSON(w, http.StatusOK, envelope{
		"reference": ref,
		"stations":  newStationViews(stations, ref),
	}, nil)
}

func (app *Application) showMapHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.lookupSession(w, r)
	if !ok {
		return
	}

	bounds, err := parseBoundsParams(r)
	if err != nil {
		app.badRequestResponse(w, err)
		return
	}

	level := app.ConfigService.Config.GetSettings().ClusterLevel
	if raw := r.URL.Query().Get("level"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 30 {
			app.badRequestResponse(w, errors.New("level must be an integer between 0 and 30"))
			return
		}
		level = n
	}

	view := s.Map(bounds, level)
	app.writeJSON(w, http.StatusOK, envelope{"map": envelope{
		"bounds":     view.Bounds,
		"reference":  view.Reference,
		"discovered": newStationViews(view.Discovered, view.Reference),
		"clusters":   view.Clusters,
	}}, nil)
}

func (app *Application) listFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	owner := httprouter.ParamsFromContext(r.Context()).ByName("owner")

	ref, err := parseReferenceParams(r)
	if err != nil {
		app.badRequestResponse(w, err)
		return
	}

	favs, err := app.Favorites.Get(r.Context(), owner)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	current := app.DatasetService.Store.Current()
	ranked := favorites.Rank(current.Stations, favs, ref)

	missing := []string{}
	for _, id := range favs.IDs() {
		if _, ok := current.Station(id); !ok {
			missing = append(missing, id)
		}
	}

	app.writeJSON(w, http.StatusOK, envelope{
		"stations": newStationViews(ranked, ref),
		"missing":  missing,
	}, nil)
}

func (app *Application) addFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	owner, stationID := params.ByName("owner"), params.ByName("station")

	if _, ok := app.DatasetService.Store.Current().Station(stationID); !ok {
		app.notFoundResponse(w, "station")
		return
	}

	if err := app.Favorites.Add(r.Context(), owner, stationID); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// removeFavoriteHandler does not check the dataset, so favorites of stations
// that disappeared from it can still be removed.
func (app *Application) removeFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	owner, stationID := params.ByName("owner"), params.ByName("station")

	if err := app.Favorites.Remove(r.Context(), owner, stationID); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
