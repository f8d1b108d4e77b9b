package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/subset"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/notation"
	"github.com/aretw0/subset/pkg/ports"
	"github.com/aretw0/subset/pkg/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Converter is the part of subset.Converter the API needs.
type Converter interface {
	Convert(ctx context.Context, def domain.Definition) (*domain.Result, error)
	ConvertForm(ctx context.Context, form notation.Form) (*domain.Result, error)
	ConvertByID(ctx context.Context, id string) (*domain.Result, error)
	Definitions(ctx context.Context) ([]string, error)
	Save(ctx context.Context, res *domain.Result) error
	Store() ports.ResultStore
}

// Server implements ServerInterface.
type Server struct {
	Converter Converter
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the handler.
type Option func(*handlerConfig)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

type handlerConfig struct {
	metrics    http.Handler
	requests   *prometheus.CounterVec
	validation bool
	maxBody    int64
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(c *handlerConfig) {
		c.metrics = h
	}
}

// WithRequestCounter counts requests by method and status code.
func WithRequestCounter(counter *prometheus.CounterVec) Option {
	return func(c *handlerConfig) {
		c.requests = counter
	}
}

// WithRequestValidation toggles OpenAPI request validation (on by default).
func WithRequestValidation(enabled bool) Option {
	return func(c *handlerConfig) {
		c.validation = enabled
	}
}

// WithMaxBodyBytes sets the request body limit; larger bodies get 413.
func WithMaxBodyBytes(n int64) Option {
	return func(c *handlerConfig) {
		c.maxBody = n
	}
}

// NewHandler creates the HTTP handler for the converter.
func NewHandler(conv Converter, opts ...Option) (http.Handler, error) {
	cfg := handlerConfig{validation: true, maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&cfg)
	}

	server := &Server{Converter: conv}
	r := chi.NewRouter()
	if cfg.maxBody > 0 {
		r.Use(rejectOversize(cfg.maxBody), middleware.RequestSize(cfg.maxBody))
	}

	if cfg.validation {
		doc, err := GetSwagger()
		if err != nil {
			return nil, err
		}
		validator, err := requestValidator(doc)
		if err != nil {
			return nil, err
		}
		r.Use(validator)
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			slog.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics)
	}

	var handler http.Handler = HandlerFromMux(server, r)
	if cfg.requests != nil {
		handler = promhttp.InstrumentHandlerCounter(cfg.requests, handler)
	}
	return enableCORS(handler), nil
}

// rejectOversize answers 413 for bodies whose declared length is over limit.
// Streamed bodies are capped by middleware.RequestSize and fail on read.
func rejectOversize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Subset API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ConvertRequest is the POST /convert body: either a Definition or a text form.
type ConvertRequest struct {
	domain.Definition
	Form *notation.Form `json:"form,omitempty"`
}

// ConvertResponse carries a result and its text renderings.
type ConvertResponse struct {
	*domain.Result
	Renderings map[string]string `json:"renderings"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// PostConvert handles the POST /convert request.
func (s *Server) PostConvert(w http.ResponseWriter, r *http.Request, params PostConvertParams) {
	format, ok := parseFormat(w, params.Format)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	var req ConvertRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", []string{err.Error()})
		slog.Warn("PostConvert: Invalid request body", "error", err)
		return
	}

	var res *domain.Result
	if req.Form != nil {
		res, err = s.Converter.ConvertForm(r.Context(), *req.Form)
	} else {
		res, err = s.Converter.Convert(r.Context(), req.Definition)
	}
	if err != nil {
		writeConversionError(w, err)
		return
	}

	if err := s.Converter.Save(r.Context(), res); err != nil {
		slog.Error("PostConvert: failed to store result", "id", res.ID, "error", err)
	}
	writeResult(w, res, format)
}

// ListDefinitions handles the GET /definitions request.
func (s *Server) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Converter.Definitions(r.Context())
	if err != nil {
		writeConversionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// ConvertDefinition handles the GET /definitions/{id}/dfa request.
func (s *Server) ConvertDefinition(w http.ResponseWriter, r *http.Request, id string, params ConvertDefinitionParams) {
	format, ok := parseFormat(w, params.Format)
	if !ok {
		return
	}

	res, err := s.Converter.ConvertByID(r.Context(), id)
	if err != nil {
		writeConversionError(w, err)
		return
	}
	writeResult(w, res, format)
}

// GetResult handles the GET /results/{id} request.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request, id string) {
	if err := domain.ValidateResultID(id); err != nil {
		writeConversionError(w, err)
		return
	}
	store := s.Converter.Store()
	if store == nil {
		writeError(w, http.StatusNotFound, domain.ErrResultNotFound.Error(), nil)
		return
	}
	res, err := store.Load(r.Context(), id)
	if err != nil {
		writeConversionError(w, err)
		return
	}
	writeResult(w, res, render.FormatJSON)
}

// DeleteResult handles the DELETE /results/{id} request.
func (s *Server) DeleteResult(w http.ResponseWriter, r *http.Request, id string) {
	if err := domain.ValidateResultID(id); err != nil {
		writeConversionError(w, err)
		return
	}
	if store := s.Converter.Store(); store != nil {
		if err := store.Delete(r.Context(), id); err != nil {
			writeConversionError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "subset-http",
		"version":     strings.TrimSpace(subset.Version),
		"api_version": apiVersion,
	})
}

func parseFormat(w http.ResponseWriter, raw *string) (render.Format, bool) {
	if raw == nil || *raw == "" {
		return render.FormatJSON, true
	}
	format, err := render.ParseFormat(*raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return "", false
	}
	return format, true
}

func writeResult(w http.ResponseWriter, res *domain.Result, format render.Format) {
	if err := res.Check(); err != nil {
		writeConversionError(w, err)
		return
	}
	if format != render.FormatJSON {
		out, err := render.Render(res.DFA, format)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, out)
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{
		Result: res,
		Renderings: map[string]string{
			"table":  render.Table(res.DFA),
			"edges":  render.Edges(res.DFA),
			"formal": render.Formal(res.DFA),
		},
	})
}

// writeConversionError maps domain errors to status codes.
func writeConversionError(w http.ResponseWriter, err error) {
	var details []string
	for _, e := range domain.ValidationErrors(err) {
		details = append(details, e.Error())
	}

	switch {
	case errors.Is(err, notation.ErrSyntax),
		errors.Is(err, notation.ErrInputTooLarge),
		errors.Is(err, notation.ErrInvalidUTF8),
		errors.Is(err, domain.ErrInvalidResultID):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidAutomaton):
		writeError(w, http.StatusUnprocessableEntity, domain.ErrInvalidAutomaton.Error(), details)
	case errors.Is(err, domain.ErrStateLimitExceeded):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, domain.ErrDefinitionNotFound), errors.Is(err, domain.ErrResultNotFound):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, subset.ErrNoLoader):
		writeError(w, http.StatusNotImplemented, err.Error(), nil)
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, details []string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
