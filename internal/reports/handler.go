package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gevapp/gevapp/internal/platform/httpx"
)

// Handler serves the dashboard and reports endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountDashboard registers GET /dashboard onto the router.
func (h *Handler) MountDashboard(r chi.Router) {
	r.Get("/", h.dashboard)
}

// MountReports registers GET /relatorios/dashboard onto the router.
func (h *Handler) MountReports(r chi.Router) {
	r.Get("/dashboard", h.report)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, cards)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context(), r.URL.Query().Get("periodo"))
	if err != nil {
		h.logger.Error("report failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, report)
}
