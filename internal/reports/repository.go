package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes the read-only aggregates behind the dashboards.
type Repository interface {
	SalesTotals(ctx context.Context, from time.Time) (total, lucro float64, err error)
	ProductCount(ctx context.Context) (int, error)
	PendingCount(ctx context.Context) (int, error)
	DailySales(ctx context.Context, from time.Time) ([]DailySale, error)
	TopProducts(ctx context.Context, from time.Time, limit int) ([]TopProduct, error)
	FinancialSummary(ctx context.Context, from *time.Time) (FinancialSummary, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) SalesTotals(ctx context.Context, from time.Time) (float64, float64, error) {
	var total, lucro pgtype.Numeric
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COALESCE(SUM(lucro), 0)
		FROM vendas
		WHERE status = 'concluida' AND data_venda >= $1
	`, from).Scan(&total, &lucro)
	if err != nil {
		return 0, 0, err
	}
	return numericFloat(total), numericFloat(lucro), nil
}

func (r *repository) ProductCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM produtos").Scan(&count)
	return count, err
}

func (r *repository) PendingCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM vendas WHERE status = 'pendente'").Scan(&count)
	return count, err
}

// DailySales buckets by UTC date so the day keys line up with the series
// the service zero-fills, whatever the session timezone is.
func (r *repository) DailySales(ctx context.Context, from time.Time) ([]DailySale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(data_venda AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS dia,
		       COALESCE(SUM(total), 0),
		       COALESCE(SUM(lucro), 0),
		       COUNT(*)
		FROM vendas
		WHERE status = 'concluida' AND data_venda >= $1
		GROUP BY dia
		ORDER BY dia ASC
	`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []DailySale
	for rows.Next() {
		var d DailySale
		var total, lucro pgtype.Numeric
		if err := rows.Scan(&d.Dia, &total, &lucro, &d.Quantidade); err != nil {
			return nil, err
		}
		d.TotalVendido = numericFloat(total)
		d.Lucro = numericFloat(lucro)
		series = append(series, d)
	}
	return series, rows.Err()
}

func (r *repository) TopProducts(ctx context.Context, from time.Time, limit int) ([]TopProduct, error) {
	rows, err := r.db.Query(ctx, `
		SELECT vi.produto_nome,
		       SUM(vi.quantidade)::int,
		       COALESCE(SUM(vi.subtotal), 0)
		FROM vendas_itens vi
		JOIN vendas v ON v.id = vi.venda_id
		WHERE v.status = 'concluida' AND v.data_venda >= $1
		GROUP BY vi.produto_nome
		ORDER BY SUM(vi.quantidade) DESC, vi.produto_nome ASC
		LIMIT $2
	`, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []TopProduct
	for rows.Next() {
		var t TopProduct
		var total pgtype.Numeric
		if err := rows.Scan(&t.Nome, &t.Quantidade, &total); err != nil {
			return nil, err
		}
		t.TotalVendido = numericFloat(total)
		top = append(top, t)
	}
	return top, rows.Err()
}

func (r *repository) FinancialSummary(ctx context.Context, from *time.Time) (FinancialSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total), 0),
		       COALESCE(SUM(custo_total), 0),
		       COALESCE(SUM(lucro), 0)
		FROM vendas
		WHERE status = 'concluida'
	`
	args := []interface{}{}
	if from != nil {
		query += " AND data_venda >= $1"
		args = append(args, *from)
	}

	var summary FinancialSummary
	var receita, custo, lucro pgtype.Numeric
	err := r.db.QueryRow(ctx, query, args...).Scan(&summary.TotalVendas, &receita, &custo, &lucro)
	if err != nil {
		return FinancialSummary{}, err
	}
	summary.ReceitaTotal = numericFloat(receita)
	summary.CustoTotal = numericFloat(custo)
	summary.LucroTotal = numericFloat(lucro)
	return summary, nil
}

func numericFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
