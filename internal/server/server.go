// Package server exposes the project and task services over a JSON HTTP API
// built with huma on a chi router.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexanderramin/arbor/internal/service"
	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config for the HTTP API handler.
type Config struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Reports  service.ReportService
	Imports  service.ImportService

	BasePath  string
	JWTSecret string
	Logger    *slog.Logger
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"project 7: record not found"`
	Details map[string]any `json:"details,omitempty"`
}

// apiError is the envelope every failed request returns.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the arbor API.
func New(cfg Config) http.Handler {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, errorDetails(errs))
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		return newAPIError(status, "", msg, errorDetails(errs))
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))
	if cfg.JWTSecret != "" {
		router.Use(newAuthMiddleware(basePath, cfg.JWTSecret))
	}
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics)
	}

	hcfg := huma.DefaultConfig("Arbor API", "1.0.0")
	hcfg.OpenAPIPath = basePath + "/openapi"
	hcfg.DocsPath = ""
	hcfg.SchemasPath = basePath + "/schemas"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerProjects(group, cfg.Projects)
	registerTasks(group, cfg.Tasks)
	registerReports(group, cfg.Reports)
	if cfg.Imports != nil {
		registerImport(group, cfg.Imports)
	}

	return router
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func errorDetails(errs []error) map[string]any {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return map[string]any{"errors": msgs}
}

// handleError maps the service error taxonomy onto HTTP statuses.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
	}
	var ce *service.CreationError
	if errors.As(err, &ce) {
		return newAPIError(http.StatusConflict, "creation_failed", err.Error(), map[string]any{"entity": ce.Entity})
	}
	var ue *service.UpdateError
	if errors.As(err, &ue) {
		details := map[string]any{"entity": ue.Entity, "id": ue.ID}
		switch {
		case errors.Is(err, service.ErrProjectMismatch):
			return newAPIError(http.StatusConflict, "project_mismatch", err.Error(), details)
		case errors.Is(err, service.ErrHierarchyCycle):
			return newAPIError(http.StatusConflict, "hierarchy_cycle", err.Error(), details)
		}
		return newAPIError(http.StatusConflict, "update_failed", err.Error(), details)
	}
	if service.IsNotFound(err) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}
