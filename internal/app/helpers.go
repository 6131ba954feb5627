package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"woladen.de/internal/report"
)

// envelope wraps every JSON response body in a named top-level key.
type envelope map[string]interface{}

const maxRequestBytes = 64 << 10

func (app *Application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) {
	js, err := json.Marshal(data)
	if err != nil {
		app.serverErrorResponse(w, nil, fmt.Errorf("failed to encode response: %w", err))
		return
	}

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(js, '\n'))
}

// readJSON decodes a single JSON object from the request body into dst,
// rejecting unknown fields and oversized bodies.
func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &typeError):
			if typeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", typeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func (app *Application) errorResponse(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, envelope{"error": message}, nil)
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	opts := report.SentryReportOptions{Level: sentry.LevelError}
	if r != nil {
		opts.Tags = map[string]string{"method": r.Method, "path": r.URL.Path}
		app.Logger.Error("Request failed", "error", err, "method", r.Method, "uri", r.URL.RequestURI())
	} else {
		app.Logger.Error("Request failed", "error", err)
	}
	report.ReportErrorWithSentryOptions(err, opts)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"the server encountered a problem and could not process your request"}` + "\n"))
}

func (app *Application) badRequestResponse(w http.ResponseWriter, err error) {
	app.errorResponse(w, http.StatusBadRequest, err.Error())
}

func (app *Application) notFoundResponse(w http.ResponseWriter, what string) {
	app.errorResponse(w, http.StatusNotFound, what+" not found")
}

func (app *Application) routeNotFound(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

func (app *Application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, http.StatusMethodNotAllowed, fmt.Sprintf("the %s method is not supported for this resource", r.Method))
}
