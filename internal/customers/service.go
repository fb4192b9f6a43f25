package customers

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gevapp/gevapp/internal/shared"
)

// Service coordinates cliente operations.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, search string) ([]Customer, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	id, err := s.repo.Create(ctx, Customer{
		Nome:        req.Nome,
		Telefone:    req.Telefone,
		Endereco:    req.Endereco,
		Observacoes: req.Observacoes,
	})
	if err != nil {
		return nil, fmt.Errorf("create cliente: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	err := s.repo.Update(ctx, id, Customer{
		Nome:        req.Nome,
		Telefone:    req.Telefone,
		Endereco:    req.Endereco,
		Observacoes: req.Observacoes,
	})
	if err != nil {
		return nil, fmt.Errorf("update cliente: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
