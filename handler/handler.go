// Package handler provides the HTTP API for the media catalog.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stevemurr/media-library/media"
	"github.com/stevemurr/media-library/schema"
)

// maxBodyBytes bounds POST bodies; records are a handful of short strings.
const maxBodyBytes = 1 << 20

// createSchema is the shape a POST /media body must have before field rules
// are applied. Value types are left to media.Validate so its rule order
// decides which reason is reported.
var createSchema = &schema.Schema{
	Type:     "object",
	Required: []string{"name", "publication_date", "author", "category"},
}

// Handler holds the server dependencies and registers routes.
type Handler struct {
	store  *media.Store
	logger *slog.Logger
	router chi.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger for request and error logs.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithAllowedOrigins enables CORS for the given origins; "*" allows any.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) {
		if len(origins) > 0 {
			h.router.Use(corsMiddleware(origins))
		}
	}
}

// New creates a Handler and wires up all routes.
func New(s *media.Store, opts ...Option) *Handler {
	h := &Handler{store: s, logger: slog.Default(), router: chi.NewRouter()}
	h.router.Use(middleware.RequestID)
	for _, opt := range opts {
		opt(h)
	}
	h.router.Use(requestLogger(h.logger), metricsMiddleware, middleware.Recoverer)
	h.routes()
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Get("/", h.root)
	h.router.Get("/health", h.health)
	h.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.router.Route("/media", func(r chi.Router) {
		r.Get("/", h.listMedia)
		r.Post("/", h.createMedia)
		r.Get("/search", h.searchMedia)
		r.Get("/{id}", h.getMedia)
		r.Delete("/{id}", h.deleteMedia)
	})
}

// ---------- helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail reports err to the client: validation failures with their reason,
// anything else as a generic 500 with the detail kept in the log.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *media.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Reason)
		return
	}
	h.logger.LogAttrs(r.Context(), slog.LevelError, "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("error", err),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// ---------- status endpoints ----------

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Media Library",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ---------- media endpoints ----------

func (h *Handler) listMedia(w http.ResponseWriter, r *http.Request) {
	var (
		items []media.Record
		err   error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		items, err = h.store.FilterByCategory(r.Context(), category)
	} else {
		items, err = h.store.All(r.Context())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) searchMedia(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name query param required")
		return
	}
	items, err := h.store.FindByName(r.Context(), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getMedia(w http.ResponseWriter, r *http.Request) {
	rec, ok, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) createMedia(w http.ResponseWriter, r *http.Request) {
	n, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.store.Create(r.Context(), n)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) deleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// readBody decodes a create request and checks its shape. A field holding
// anything but a string is passed on as empty and fails its required rule.
func readBody(w http.ResponseWriter, r *http.Request) (media.NewRecord, error) {
	defer r.Body.Close()
	var body any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return media.NewRecord{}, errors.New("request body required")
		}
		return media.NewRecord{}, errors.New("invalid JSON: " + err.Error())
	}
	// Accept the camelCase spelling used by some clients.
	if obj, ok := body.(map[string]any); ok {
		if _, has := obj["publication_date"]; !has {
			if v, alias := obj["publicationDate"]; alias {
				obj["publication_date"] = v
			}
		}
	}
	if err := schema.Validate(createSchema, body); err != nil {
		var se *schema.Error
		if errors.As(err, &se) {
			return media.NewRecord{}, errors.New(se.Msg)
		}
		return media.NewRecord{}, err
	}
	obj := body.(map[string]any)
	return media.NewRecord{
		Name:            stringField(obj, "name"),
		PublicationDate: stringField(obj, "publication_date"),
		Author:          stringField(obj, "author"),
		Category:        stringField(obj, "category"),
	}, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
