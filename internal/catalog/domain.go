package catalog

import "time"

// Product is a catalog record. MargemLucro is always derived from the two
// prices at write time and serialized with two decimals.
type Product struct {
	ID           int64     `json:"id"`
	Nome         string    `json:"nome"`
	PrecoCusto   float64   `json:"preco_custo"`
	PrecoVenda   float64   `json:"preco_venda"`
	MargemLucro  string    `json:"margem_lucro"`
	Imagem       *string   `json:"imagem"`
	Observacoes  string    `json:"observacoes"`
	EstoqueAtual int       `json:"estoque_atual"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateProductRequest carries validated input for product creation. Imagem
// is the stored path, filled by the handler after persisting the upload.
type CreateProductRequest struct {
	Nome         string  `json:"nome" validate:"required,max=200"`
	PrecoCusto   float64 `json:"preco_custo" validate:"required,gt=0"`
	PrecoVenda   float64 `json:"preco_venda" validate:"required,gt=0"`
	Observacoes  string  `json:"observacoes"`
	EstoqueAtual int     `json:"estoque_atual" validate:"gte=0"`
	Imagem       *string `json:"-"`
}

// UpdateProductRequest mirrors the create payload; Imagem nil keeps the
// existing image.
type UpdateProductRequest struct {
	Nome         string  `json:"nome" validate:"required,max=200"`
	PrecoCusto   float64 `json:"preco_custo" validate:"required,gt=0"`
	PrecoVenda   float64 `json:"preco_venda" validate:"required,gt=0"`
	Observacoes  string  `json:"observacoes"`
	EstoqueAtual int     `json:"estoque_atual" validate:"gte=0"`
	Imagem       *string `json:"-"`
}
