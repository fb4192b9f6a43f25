package reports

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gevapp/gevapp/internal/shared"
)

type fakeRepo struct {
	daily   []DailySale
	top     []TopProduct
	summary FinancialSummary

	totalMes float64
	lucroMes float64
	produtos int
	pendente int
}

func (f *fakeRepo) SalesTotals(ctx context.Context, from time.Time) (float64, float64, error) {
	return f.totalMes, f.lucroMes, nil
}

func (f *fakeRepo) ProductCount(ctx context.Context) (int, error) { return f.produtos, nil }

func (f *fakeRepo) PendingCount(ctx context.Context) (int, error) { return f.pendente, nil }

func (f *fakeRepo) DailySales(ctx context.Context, from time.Time) ([]DailySale, error) {
	return f.daily, nil
}

func (f *fakeRepo) TopProducts(ctx context.Context, from time.Time, limit int) ([]TopProduct, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func (f *fakeRepo) FinancialSummary(ctx context.Context, from *time.Time) (FinancialSummary, error) {
	return f.summary, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
}

func newReportService(repo Repository) *Service {
	svc := NewService(repo, nil, slog.Default())
	svc.WithNow(fixedNow)
	return svc
}

func TestDashboardCards(t *testing.T) {
	svc := newReportService(&fakeRepo{
		totalMes: 1234.567,
		lucroMes: 321.004,
		produtos: 12,
		pendente: 3,
	})

	cards, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 1234.57, cards.VendasMes, 1e-9)
	require.InDelta(t, 321.00, cards.LucroMes, 1e-9)
	require.Equal(t, 12, cards.TotalProdutos)
	require.Equal(t, 3, cards.VendasPendentes)
}

func TestReportZeroFillsDailySeries(t *testing.T) {
	svc := newReportService(&fakeRepo{
		daily: []DailySale{
			{Dia: "2026-03-12", TotalVendido: 80, Lucro: 20, Quantidade: 2},
			{Dia: "2026-03-15", TotalVendido: 40, Lucro: 16, Quantidade: 1},
		},
	})

	report, err := svc.Report(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, report.VendasDiarias, 7)

	require.Equal(t, "2026-03-09", report.VendasDiarias[0].Dia)
	require.Equal(t, "2026-03-15", report.VendasDiarias[6].Dia)

	for _, day := range report.VendasDiarias {
		switch day.Dia {
		case "2026-03-12":
			require.InDelta(t, 80.0, day.TotalVendido, 1e-9)
			require.Equal(t, 2, day.Quantidade)
		case "2026-03-15":
			require.InDelta(t, 40.0, day.TotalVendido, 1e-9)
			require.Equal(t, 1, day.Quantidade)
		default:
			require.Zero(t, day.TotalVendido)
			require.Zero(t, day.Lucro)
			require.Zero(t, day.Quantidade)
		}
	}
}

func TestReportBucketsDaysInUTC(t *testing.T) {
	svc := newReportService(&fakeRepo{
		daily: []DailySale{
			{Dia: "2026-03-14", TotalVendido: 55, Lucro: 10, Quantidade: 1},
		},
	})
	// 01:30 on the 15th in UTC+10 is still the 14th in UTC; the revenue
	// must land in the 14th's bucket, not be zero-filled over.
	svc.WithNow(func() time.Time {
		return time.Date(2026, 3, 15, 1, 30, 0, 0, time.FixedZone("UTC+10", 10*3600))
	})

	report, err := svc.Report(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, report.VendasDiarias, 7)

	last := report.VendasDiarias[6]
	require.Equal(t, "2026-03-14", last.Dia)
	require.InDelta(t, 55.0, last.TotalVendido, 1e-9)
	require.Equal(t, 1, last.Quantidade)
}

func TestReportTicketMedio(t *testing.T) {
	svc := newReportService(&fakeRepo{
		summary: FinancialSummary{TotalVendas: 3, ReceitaTotal: 100, CustoTotal: 60, LucroTotal: 40},
	})

	report, err := svc.Report(context.Background(), "mes")
	require.NoError(t, err)
	require.InDelta(t, 33.33, report.ResumoFinanceiro.TicketMedio, 1e-9)
}

func TestReportEmptyWindow(t *testing.T) {
	svc := newReportService(&fakeRepo{})

	report, err := svc.Report(context.Background(), "tudo")
	require.NoError(t, err)
	require.Zero(t, report.ResumoFinanceiro.TicketMedio)
	require.NotNil(t, report.TopProdutos)
	require.Empty(t, report.TopProdutos)
}

func TestReportInvalidWindow(t *testing.T) {
	svc := newReportService(&fakeRepo{})

	_, err := svc.Report(context.Background(), "ano")
	require.ErrorIs(t, err, shared.ErrValidation)
}
