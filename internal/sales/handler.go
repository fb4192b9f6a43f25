package sales

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gevapp/gevapp/internal/platform/httpx"
)

// Handler wires HTTP endpoints for vendas.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the sales handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers venda routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "corpo JSON inválido")
		return
	}

	result, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create venda", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, result, "Venda realizada com sucesso!")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.List(r.Context(), r.URL.Query().Get("periodo"))
	if err != nil {
		h.logger.Error("list vendas", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if sales == nil {
		sales = []Sale{}
	}
	httpx.OKList(w, sales, len(sales))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id inválido")
		return
	}
	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, sale)
}
