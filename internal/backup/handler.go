package backup

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gevapp/gevapp/internal/platform/httpx"
	"github.com/gevapp/gevapp/internal/shared"
)

// Handler serves the on-demand backup endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers POST /backup onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.export)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	dump, err := h.service.Export(r.Context())
	if err != nil {
		h.logger.Error("backup export failed", "error", err, "user_id", userID)
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("backup exported", "user_id", userID)
	httpx.OK(w, dump)
}
