package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vantrung/equipment-site/internal/observability/metrics"
	"github.com/vantrung/equipment-site/pkg/logging"
)

// Handler serves the public catalog endpoints.
type Handler struct {
	store   Store
	metrics *metrics.SiteMetrics
	logger  *logging.Logger
}

// NewHandler creates a catalog HTTP handler.
func NewHandler(store Store, m *metrics.SiteMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, metrics: m, logger: logger}
}

// Routes returns the product routes, meant to be mounted at /api/products.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListProducts)
	r.Get("/featured", h.ListFeatured)
	r.Get("/{slug}", h.GetProduct)
	return r
}

// PageResponse is a page of products plus the query that produced it.
type PageResponse struct {
	Page
	Query Query `json:"query"`
}

// ListProducts returns one filtered page of the catalog.
// GET /api/products?search=&category=&status=&price=&page=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := ParseQuery(r.URL.Query())

	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	page := Apply(products, q)
	h.metrics.ObserveCatalogQuery(q.HasFilters(), page.Total == 0)
	q.Page = page.Page
	writeJSON(w, http.StatusOK, PageResponse{Page: page, Query: q})
}

// ListFeatured returns featured products.
// GET /api/products/featured?limit=
func (h *Handler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 50 {
		limit = FeaturedLimit
	}

	products, err := h.store.ListFeatured(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list featured products", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": products})
}

// GetProduct returns a product and related products from its category.
// GET /api/products/{slug}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "slug required")
		return
	}

	product, err := h.store.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to get product", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	related, err := h.store.ListRelated(r.Context(), product, RelatedLimit)
	if err != nil {
		// The detail page still renders without related products.
		h.logger.Warn("failed to list related products", "slug", slug, "error", err)
		related = []Product{}
	}
	writeJSON(w, http.StatusOK, Detail{Product: *product, Related: related})
}

// ListCategories returns all categories ordered by name.
// GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": categories})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
