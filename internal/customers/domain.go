package customers

import "time"

// Customer is a cliente record. TotalComprado and UltimaCompra are rolled up
// by the sale pipeline when a sale references the customer.
type Customer struct {
	ID            int64      `json:"id"`
	Nome          string     `json:"nome"`
	Telefone      string     `json:"telefone"`
	Endereco      string     `json:"endereco"`
	Observacoes   string     `json:"observacoes"`
	TotalComprado float64    `json:"total_comprado"`
	UltimaCompra  *time.Time `json:"ultima_compra"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateCustomerRequest carries validated input for customer creation.
type CreateCustomerRequest struct {
	Nome        string `json:"nome" validate:"required,max=200"`
	Telefone    string `json:"telefone" validate:"max=50"`
	Endereco    string `json:"endereco" validate:"max=300"`
	Observacoes string `json:"observacoes"`
}

// UpdateCustomerRequest mirrors the create payload for full updates.
type UpdateCustomerRequest struct {
	Nome        string `json:"nome" validate:"required,max=200"`
	Telefone    string `json:"telefone" validate:"max=50"`
	Endereco    string `json:"endereco" validate:"max=300"`
	Observacoes string `json:"observacoes"`
}
