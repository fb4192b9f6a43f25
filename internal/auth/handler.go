package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gevapp/gevapp/internal/platform/httpx"
)

// Handler serves the authentication endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers the public auth endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, user, "Usuário criado com sucesso!")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, result)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := h.service.ForgotPassword(r.Context(), req); err != nil {
		h.logger.Error("forgot password failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, "Se o email estiver cadastrado, um link de recuperação será enviado.")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, "Senha alterada com sucesso!")
}
