package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gevapp/gevapp/internal/money"
	"github.com/gevapp/gevapp/internal/shared"
)

const topProductsLimit = 5

// Service aggregates sales into the dashboard payloads.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the reporting service.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Dashboard resolves the four headline cards, loading them concurrently.
func (s *Service) Dashboard(ctx context.Context) (DashboardCards, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		var cards DashboardCards
		monthStart := startOfMonth(s.now().UTC())

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			total, lucro, err := s.repo.SalesTotals(gctx, monthStart)
			if err != nil {
				return fmt.Errorf("sales totals: %w", err)
			}
			cards.VendasMes = money.Round2(total)
			cards.LucroMes = money.Round2(lucro)
			return nil
		})
		g.Go(func() error {
			count, err := s.repo.ProductCount(gctx)
			if err != nil {
				return fmt.Errorf("product count: %w", err)
			}
			cards.TotalProdutos = count
			return nil
		})
		g.Go(func() error {
			count, err := s.repo.PendingCount(gctx)
			if err != nil {
				return fmt.Errorf("pending count: %w", err)
			}
			cards.VendasPendentes = count
			return nil
		})
		if err := g.Wait(); err != nil {
			return DashboardCards{}, err
		}
		return cards, nil
	}

	key, err := s.cache.BuildKey(ctx, keyDashboard(s.now().UTC().Format("2006-01-02")))
	if err != nil {
		return DashboardCards{}, err
	}
	var cards DashboardCards
	if err := s.cache.FetchJSON(ctx, key, &cards, loader); err != nil {
		return DashboardCards{}, err
	}
	return cards, nil
}

// Report builds the reports screen payload. The daily series always covers
// the last seven days and carries explicit zero entries for empty days.
// Day boundaries are UTC, matching the bucketing done in SQL, so the app
// and database session timezones cannot disagree on which day a sale hit.
func (s *Service) Report(ctx context.Context, periodo string) (ReportDashboard, error) {
	from, err := s.windowStart(periodo)
	if err != nil {
		return ReportDashboard{}, err
	}

	loader := func(ctx context.Context) (interface{}, error) {
		now := s.now().UTC()
		seriesFrom := startOfDay(now).AddDate(0, 0, -6)
		topFrom := startOfMonth(now)
		if from != nil {
			topFrom = *from
		}

		var report ReportDashboard
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			rows, err := s.repo.DailySales(gctx, seriesFrom)
			if err != nil {
				return fmt.Errorf("daily sales: %w", err)
			}
			report.VendasDiarias = fillDays(rows, seriesFrom, 7)
			return nil
		})
		g.Go(func() error {
			top, err := s.repo.TopProducts(gctx, topFrom, topProductsLimit)
			if err != nil {
				return fmt.Errorf("top products: %w", err)
			}
			for i := range top {
				top[i].TotalVendido = money.Round2(top[i].TotalVendido)
			}
			if top == nil {
				top = []TopProduct{}
			}
			report.TopProdutos = top
			return nil
		})
		g.Go(func() error {
			summary, err := s.repo.FinancialSummary(gctx, from)
			if err != nil {
				return fmt.Errorf("financial summary: %w", err)
			}
			summary.ReceitaTotal = money.Round2(summary.ReceitaTotal)
			summary.CustoTotal = money.Round2(summary.CustoTotal)
			summary.LucroTotal = money.Round2(summary.LucroTotal)
			if summary.TotalVendas > 0 {
				summary.TicketMedio = money.Round2(summary.ReceitaTotal / float64(summary.TotalVendas))
			}
			report.ResumoFinanceiro = summary
			return nil
		})
		if err := g.Wait(); err != nil {
			return ReportDashboard{}, err
		}
		return report, nil
	}

	key, err := s.cache.BuildKey(ctx, keyReport(windowToken(periodo), s.now().UTC().Format("2006-01-02")))
	if err != nil {
		return ReportDashboard{}, err
	}
	var report ReportDashboard
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return ReportDashboard{}, err
	}
	return report, nil
}

// Bump invalidates cached aggregates. Exposed so mutating services can call
// it without importing the cache type.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) windowStart(periodo string) (*time.Time, error) {
	now := s.now().UTC()
	switch periodo {
	case "", "mes":
		start := startOfMonth(now)
		return &start, nil
	case "hoje":
		start := startOfDay(now)
		return &start, nil
	case "semana":
		start := startOfDay(now).AddDate(0, 0, -7)
		return &start, nil
	case "tudo":
		return nil, nil
	default:
		return nil, fmt.Errorf("periodo %q: %w", periodo, shared.ErrValidation)
	}
}

func windowToken(periodo string) string {
	if periodo == "" {
		return "mes"
	}
	return periodo
}

// fillDays projects the sparse day buckets onto a dense n-day series.
func fillDays(rows []DailySale, from time.Time, n int) []DailySale {
	byDay := make(map[string]DailySale, len(rows))
	for _, row := range rows {
		byDay[row.Dia] = row
	}
	series := make([]DailySale, 0, n)
	for i := 0; i < n; i++ {
		dia := from.AddDate(0, 0, i).Format("2006-01-02")
		if row, ok := byDay[dia]; ok {
			row.TotalVendido = money.Round2(row.TotalVendido)
			row.Lucro = money.Round2(row.Lucro)
			series = append(series, row)
			continue
		}
		series = append(series, DailySale{Dia: dia})
	}
	return series
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
