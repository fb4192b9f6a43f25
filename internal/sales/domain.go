package sales

import "time"

// Sale is a venda header. Invariants: Total equals the sum of line
// subtotals and Lucro equals Total minus CustoTotal; headers are immutable
// after creation.
type Sale struct {
	ID             int64      `json:"id"`
	ClienteID      *int64     `json:"cliente_id"`
	ClienteNome    string     `json:"cliente_nome"`
	Total          float64    `json:"total"`
	CustoTotal     float64    `json:"custo_total"`
	Lucro          float64    `json:"lucro"`
	FormaPagamento string     `json:"forma_pagamento"`
	Parcelas       int        `json:"parcelas"`
	Status         string     `json:"status"`
	Observacoes    string     `json:"observacoes"`
	DataVenda      time.Time  `json:"data_venda"`
	Itens          []SaleItem `json:"itens,omitempty"`
}

// SaleItem is one line of a venda, carrying a frozen snapshot of the
// product's name and prices at sale time. Later catalog edits never touch
// historical lines, and ProdutoID goes nil when the product is deleted.
type SaleItem struct {
	ID            int64   `json:"id"`
	VendaID       int64   `json:"venda_id"`
	ProdutoID     *int64  `json:"produto_id"`
	ProdutoNome   string  `json:"produto_nome"`
	Quantidade    int     `json:"quantidade"`
	PrecoUnitario float64 `json:"preco_unitario"`
	CustoUnitario float64 `json:"custo_unitario"`
	Subtotal      float64 `json:"subtotal"`
}

// ProductSnapshot is what the pipeline reads from the catalog inside the
// sale transaction. Prices are authoritative; client-supplied prices are
// never honoured.
type ProductSnapshot struct {
	ID         int64
	Nome       string
	PrecoVenda float64
	PrecoCusto float64
}

// CreateSaleRequest is the cart submitted by the client.
type CreateSaleRequest struct {
	Itens          []CreateSaleItemRequest `json:"itens" validate:"required,min=1,dive"`
	ClienteID      *int64                  `json:"cliente_id" validate:"omitempty,gt=0"`
	ClienteNome    string                  `json:"cliente_nome" validate:"max=200"`
	FormaPagamento string                  `json:"forma_pagamento" validate:"max=50"`
	Parcelas       int                     `json:"parcelas" validate:"gte=0,lte=48"`
	Observacoes    string                  `json:"observacoes"`
}

// CreateSaleItemRequest is one cart entry.
type CreateSaleItemRequest struct {
	ProdutoID  int64 `json:"produto_id" validate:"required,gt=0"`
	Quantidade int   `json:"quantidade" validate:"required,gt=0"`
}

// CreateSaleResult is the summary returned after a successful sale.
type CreateSaleResult struct {
	ID    int64   `json:"id"`
	Total float64 `json:"total"`
	Lucro float64 `json:"lucro"`
	Itens int     `json:"itens"`
}

// Defaults applied when the request leaves them blank.
const (
	DefaultClienteNome    = "Cliente Avulso"
	DefaultFormaPagamento = "dinheiro"
	StatusConcluida       = "concluida"
	StatusPendente        = "pendente"
)
