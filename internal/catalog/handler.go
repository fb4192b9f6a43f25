package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gevapp/gevapp/internal/platform/httpx"
)

const maxUploadBytes = 10 << 20

// Handler wires HTTP endpoints for the catalog.
type Handler struct {
	logger  *slog.Logger
	service *Service
	images  *ImageStore
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *Service, images *ImageStore) *Handler {
	return &Handler{logger: logger, service: service, images: images}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("list produtos", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	httpx.OKList(w, products, len(products))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id inválido")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}

	product, err := h.service.Create(r.Context(), CreateProductRequest(*req))
	if err != nil {
		h.logger.Error("create produto", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, product, "Produto criado com sucesso!")
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id inválido")
		return
	}

	req, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}

	product, err := h.service.Update(r.Context(), id, *req)
	if err != nil {
		h.logger.Error("update produto", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, product)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id inválido")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKMessage(w, "Produto excluído com sucesso!")
}

// parseProductForm reads the multipart payload shared by create and update.
// The imagem part is optional; when present it is persisted before the
// database write so the stored path is final.
func (h *Handler) parseProductForm(w http.ResponseWriter, r *http.Request) (*UpdateProductRequest, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "corpo multipart inválido")
		return nil, false
	}

	custo, err := strconv.ParseFloat(r.PostFormValue("preco_custo"), 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "preco_custo inválido")
		return nil, false
	}
	venda, err := strconv.ParseFloat(r.PostFormValue("preco_venda"), 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "preco_venda inválido")
		return nil, false
	}
	estoque := 0
	if v := r.PostFormValue("estoque_atual"); v != "" {
		if estoque, err = strconv.Atoi(v); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "estoque_atual inválido")
			return nil, false
		}
	}

	req := UpdateProductRequest{
		Nome:         r.PostFormValue("nome"),
		PrecoCusto:   custo,
		PrecoVenda:   venda,
		Observacoes:  r.PostFormValue("observacoes"),
		EstoqueAtual: estoque,
	}

	if file, header, err := r.FormFile("imagem"); err == nil {
		defer file.Close()
		path, err := h.images.Save(file, header)
		if err != nil {
			h.logger.Error("save imagem", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "falha ao salvar imagem")
			return nil, false
		}
		req.Imagem = &path
	}

	return &req, true
}
