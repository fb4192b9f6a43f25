package sales

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gevapp/gevapp/internal/money"
	"github.com/gevapp/gevapp/internal/shared"
)

// CacheBumper invalidates derived report data after a sale lands.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service runs the sale pipeline.
type Service struct {
	repo     Repository
	cache    CacheBumper
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Create resolves the cart against the catalog, computes totals and persists
// header, lines, stock decrements and the cliente rollup as one transaction.
// Prices come exclusively from the catalog; an unknown product or a stock
// shortfall fails the whole sale with nothing written.
func (s *Service) Create(ctx context.Context, req CreateSaleRequest) (*CreateSaleResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	sale := Sale{
		ClienteID:      req.ClienteID,
		ClienteNome:    req.ClienteNome,
		FormaPagamento: req.FormaPagamento,
		Parcelas:       req.Parcelas,
		Status:         StatusConcluida,
		Observacoes:    req.Observacoes,
	}
	if sale.ClienteNome == "" {
		sale.ClienteNome = DefaultClienteNome
	}
	if sale.FormaPagamento == "" {
		sale.FormaPagamento = DefaultFormaPagamento
	}
	if sale.Parcelas == 0 {
		sale.Parcelas = 1
	}

	var result CreateSaleResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		items := make([]SaleItem, 0, len(req.Itens))
		subtotals := make([]float64, 0, len(req.Itens))
		costSubtotals := make([]float64, 0, len(req.Itens))

		for _, line := range req.Itens {
			product, err := tx.GetProductForSale(ctx, line.ProdutoID)
			if err != nil {
				return err
			}
			subtotal := money.MulQty(product.PrecoVenda, line.Quantidade)
			costSubtotal := money.MulQty(product.PrecoCusto, line.Quantidade)
			subtotals = append(subtotals, subtotal)
			costSubtotals = append(costSubtotals, costSubtotal)
			produtoID := product.ID
			items = append(items, SaleItem{
				ProdutoID:     &produtoID,
				ProdutoNome:   product.Nome,
				Quantidade:    line.Quantidade,
				PrecoUnitario: product.PrecoVenda,
				CustoUnitario: product.PrecoCusto,
				Subtotal:      subtotal,
			})
		}

		sale.Total = money.Sum(subtotals...)
		sale.CustoTotal = money.Sum(costSubtotals...)
		sale.Lucro = money.Sub(sale.Total, sale.CustoTotal)

		saleID, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return fmt.Errorf("insert venda: %w", err)
		}

		for i, item := range items {
			item.VendaID = saleID
			if err := tx.InsertItem(ctx, item); err != nil {
				return fmt.Errorf("insert item venda: %w", err)
			}
			if err := tx.DecrementStock(ctx, req.Itens[i].ProdutoID, item.Quantidade); err != nil {
				return err
			}
		}

		if sale.ClienteID != nil {
			if err := tx.TouchCustomer(ctx, *sale.ClienteID, sale.Total, s.now()); err != nil {
				return err
			}
		}

		result = CreateSaleResult{
			ID:    saleID,
			Total: sale.Total,
			Lucro: sale.Lucro,
			Itens: len(items),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("bump report cache", slog.Any("error", err))
		}
	}
	return &result, nil
}

// Get returns one sale with its line items.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	return s.repo.Get(ctx, id)
}

// List returns sales filtered by the optional periodo (hoje, semana, mes).
func (s *Service) List(ctx context.Context, periodo string) ([]Sale, error) {
	since, err := s.periodStart(periodo)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, since)
}

func (s *Service) periodStart(periodo string) (*time.Time, error) {
	now := s.now()
	switch periodo {
	case "":
		return nil, nil
	case "hoje":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return &start, nil
	case "semana":
		start := now.AddDate(0, 0, -7)
		return &start, nil
	case "mes":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &start, nil
	default:
		return nil, fmt.Errorf("%w: periodo desconhecido %q", shared.ErrValidation, periodo)
	}
}
