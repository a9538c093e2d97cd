package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linkpocket/linkpocket/internal/handler/dto"
	"github.com/linkpocket/linkpocket/internal/service"
)

// LinkHandler serves the link management API.
type LinkHandler struct {
	svc    *service.Shortener
	logger *slog.Logger
}

// NewLinkHandler creates a LinkHandler.
func NewLinkHandler(svc *service.Shortener, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		svc:    svc,
		logger: logger.With("component", "handler.link"),
	}
}

// Create handles POST /api/v1/links.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}

	link, err := h.svc.CreateLink(r.Context(), service.CreateLinkInput{
		OriginalURL: req.OriginalURL,
		Validity:    req.ValidityPeriod,
		CustomCode:  req.CustomCode,
	})
	if err != nil {
		status, code := createErrorStatus(err)
		writeError(w, status, code, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromLink(link, time.Now()))
}

// List handles GET /api/v1/links.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links := h.svc.Links()
	now := time.Now()

	out := dto.LinkListResponse{
		Links: make([]dto.LinkResponse, len(links)),
		Total: len(links),
	}
	for i, link := range links {
		out.Links[i] = dto.FromLink(link, now)
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/v1/links/{id}. Deleting an unknown id is
// a no-op, so the verb is idempotent.
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearExpired handles DELETE /api/v1/links/expired.
func (h *LinkHandler) ClearExpired(w http.ResponseWriter, r *http.Request) {
	removed := h.svc.ClearExpired(r.Context())
	writeJSON(w, http.StatusOK, dto.ClearExpiredResponse{Removed: removed})
}

// Stats handles GET /api/v1/stats.
func (h *LinkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromStatistics(h.svc.Statistics(), time.Now()))
}

func createErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		return http.StatusBadRequest, "invalid_url"
	case errors.Is(err, service.ErrInvalidValidityPeriod):
		return http.StatusBadRequest, "invalid_validity_period"
	case errors.Is(err, service.ErrInvalidShortCode):
		return http.StatusBadRequest, "invalid_short_code"
	case errors.Is(err, service.ErrCodeTaken):
		return http.StatusConflict, "code_taken"
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusConflict, "quota_exceeded"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
