// Package api exposes the acquisition engine as a small RPC-style HTTP
// surface for the block editor and front end. Request authentication
// (nonce/session) is handled by the CMS in front of this service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/maltedev/amazon-product-cards/internal/models"
)

// Acquirer is the product service surface the handlers need.
type Acquirer interface {
	Acquire(ctx context.Context, url string) (*models.Product, error)
	Invalidate(ctx context.Context, asin string) error
}

type Handlers struct {
	products Acquirer
	logger   *slog.Logger
}

func NewHandlers(products Acquirer, logger *slog.Logger) *Handlers {
	return &Handlers{
		products: products,
		logger:   logger.With("component", "api"),
	}
}

// Routes mounts all endpoints on a fresh router.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/v1/product", h.AcquireProduct)
	r.Delete("/api/v1/cache/{asin}", h.InvalidateCache)
	r.Get("/healthz", h.Health)
	return r
}

// AcquireRequest is the body of an acquisition call.
type AcquireRequest struct {
	ProductURL string `json:"productUrl"`
}

// AcquireProduct resolves a product URL to a normalized record. Fetch-level
// failures are reported inside the envelope with HTTP 200, mirroring the
// editor's AJAX contract; only malformed requests get a 4xx.
func (h *Handlers) AcquireProduct(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req AcquireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ProductURL == "" {
		h.respondError(w, http.StatusBadRequest, "productUrl is required")
		return
	}

	product, err := h.products.Acquire(r.Context(), req.ProductURL)
	if err != nil {
		h.logger.Warn("acquisition failed",
			"request_id", requestID,
			"url", req.ProductURL,
			"error", err)
		h.respondJSON(w, http.StatusOK, models.AcquireResult{
			Success: false,
			Error:   reasonFor(err),
		})
		return
	}

	h.logger.Info("product acquired",
		"request_id", requestID,
		"asin", product.ASIN)
	h.respondJSON(w, http.StatusOK, models.AcquireResult{
		Success: true,
		Data:    product,
	})
}

// InvalidateCache force-evicts one ASIN from the cache.
func (h *Handlers) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "asin")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "asin is required")
		return
	}

	if err := h.products.Invalidate(r.Context(), id); err != nil {
		h.logger.Error("cache invalidation failed", "asin", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to invalidate cache")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// reasonFor maps typed acquisition errors to the human-readable strings the
// editor displays.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidURL):
		return "Could not extract ASIN from URL. Please check the URL format."
	case errors.Is(err, models.ErrParseFailure):
		return "Product page could not be parsed. Please try again later."
	default:
		return "Failed to fetch product data. Please check the URL and try again."
	}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.AcquireResult{
		Success: false,
		Error:   message,
	})
}
