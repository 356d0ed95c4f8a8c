package blog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vantrung/equipment-site/pkg/logging"
)

// Handler serves the public blog endpoints.
type Handler struct {
	store    Store
	renderer *Renderer
	logger   *logging.Logger
}

// NewHandler creates a blog HTTP handler.
func NewHandler(store Store, renderer *Renderer, logger *logging.Logger) *Handler {
	if renderer == nil {
		renderer = NewRenderer()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, renderer: renderer, logger: logger}
}

// Routes returns the blog routes, meant to be mounted at /api/blog.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPosts)
	r.Get("/{slug}", h.GetPost)
	return r
}

// ListPosts returns published posts without their bodies.
// GET /api/blog?limit=
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	posts, err := h.store.ListPublished(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	for i := range posts {
		posts[i].Content = nil
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": posts})
}

// GetPost returns one published post with rendered HTML.
// GET /api/blog/{slug}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))

	post, err := h.store.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
			return
		}
		h.logger.Error("failed to get post", "slug", slug, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if post.Content != nil {
		rendered, err := h.renderer.Render(*post.Content)
		if err != nil {
			h.logger.Error("failed to render post", "slug", slug, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		post.ContentHTML = rendered
	}
	writeJSON(w, http.StatusOK, post)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
