package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linkpocket/linkpocket/internal/service"
)

// RedirectHandler serves short link redirects.
type RedirectHandler struct {
	svc    *service.Shortener
	logger *slog.Logger
}

// NewRedirectHandler creates a RedirectHandler.
func NewRedirectHandler(svc *service.Shortener, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		svc:    svc,
		logger: logger.With("component", "handler.redirect"),
	}
}

// Redirect handles GET /{shortCode}. The redirect is issued first; the
// click is recorded in the background and never delays the response.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shortCode")

	link, err := h.svc.ResolveRedirect(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkExpired):
			writeError(w, http.StatusGone, "expired", "link has expired")
		case errors.Is(err, service.ErrLinkNotFound):
			writeError(w, http.StatusNotFound, "not_found", "short link not found")
		default:
			h.logger.Error("redirect resolution failed", "short_code", code, "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	h.svc.TrackClickAsync(link.ID, service.Visit{
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
		RemoteIP:  clientIP(r),
	})

	w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}

// clientIP extracts the originating IP, honoring X-Forwarded-For when a
// proxy sits in front.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
