package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gevapp/gevapp/internal/money"
	"github.com/gevapp/gevapp/internal/shared"
)

// Service coordinates catalog operations.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns products, optionally filtered by a name substring.
func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	return s.repo.List(ctx, search)
}

// Create validates the request, derives the margin and persists the product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	p := Product{
		Nome:         req.Nome,
		PrecoCusto:   money.Round2(req.PrecoCusto),
		PrecoVenda:   money.Round2(req.PrecoVenda),
		MargemLucro:  money.MarginPercent(req.PrecoCusto, req.PrecoVenda),
		Imagem:       req.Imagem,
		Observacoes:  req.Observacoes,
		EstoqueAtual: req.EstoqueAtual,
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create produto: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update validates and persists a full product update, recomputing the
// margin from the submitted prices.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	p := Product{
		Nome:         req.Nome,
		PrecoCusto:   money.Round2(req.PrecoCusto),
		PrecoVenda:   money.Round2(req.PrecoVenda),
		MargemLucro:  money.MarginPercent(req.PrecoCusto, req.PrecoVenda),
		Imagem:       req.Imagem,
		Observacoes:  req.Observacoes,
		EstoqueAtual: req.EstoqueAtual,
	}

	if err := s.repo.Update(ctx, id, p, req.Imagem != nil); err != nil {
		return nil, fmt.Errorf("update produto: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product. Historical sale lines keep their snapshot.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Count returns total number of products, used by the dashboard cards.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ListBelowStock lists products under the given stock threshold.
func (s *Service) ListBelowStock(ctx context.Context, threshold int) ([]Product, error) {
	return s.repo.ListBelowStock(ctx, threshold)
}
