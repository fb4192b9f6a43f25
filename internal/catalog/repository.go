package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gevapp/gevapp/internal/money"
	"github.com/gevapp/gevapp/internal/shared"
)

// Repository defines persistence operations for the catalog.
type Repository interface {
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, search string) ([]Product, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, id int64, p Product, replaceImage bool) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	ListBelowStock(ctx context.Context, threshold int) ([]Product, error)
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

const productColumns = `id, nome, preco_custo, preco_venda, margem_lucro, imagem,
       observacoes, estoque_atual, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM produtos WHERE id = $1", productColumns), id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("produto %d: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, search string) ([]Product, error) {
	query := fmt.Sprintf("SELECT %s FROM produtos ORDER BY nome ASC", productColumns)
	args := []interface{}{}
	if search != "" {
		query = fmt.Sprintf("SELECT %s FROM produtos WHERE nome ILIKE $1 ORDER BY nome ASC", productColumns)
		args = append(args, "%"+search+"%")
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO produtos (nome, preco_custo, preco_venda, margem_lucro, imagem, observacoes, estoque_atual)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, p.Nome, p.PrecoCusto, p.PrecoVenda, p.MargemLucro, textOrNil(p.Imagem), p.Observacoes, p.EstoqueAtual).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, p Product, replaceImage bool) error {
	query := `
		UPDATE produtos
		SET nome = $1, preco_custo = $2, preco_venda = $3, margem_lucro = $4,
		    observacoes = $5, estoque_atual = $6, updated_at = NOW()
	`
	args := []interface{}{p.Nome, p.PrecoCusto, p.PrecoVenda, p.MargemLucro, p.Observacoes, p.EstoqueAtual}
	if replaceImage {
		query += fmt.Sprintf(", imagem = $%d", len(args)+1)
		args = append(args, textOrNil(p.Imagem))
	}
	query += fmt.Sprintf(" WHERE id = $%d", len(args)+1)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("produto %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM produtos WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("produto %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM produtos").Scan(&total)
	return total, err
}

func (r *repository) ListBelowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM produtos WHERE estoque_atual < $1 ORDER BY estoque_atual ASC", productColumns), threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var custo, venda, margem pgtype.Numeric
	var imagem pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&p.ID, &p.Nome, &custo, &venda, &margem, &imagem,
		&p.Observacoes, &p.EstoqueAtual, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if custo.Valid {
		f, _ := custo.Float64Value()
		p.PrecoCusto = f.Float64
	}
	if venda.Valid {
		f, _ := venda.Float64Value()
		p.PrecoVenda = f.Float64
	}
	if margem.Valid {
		f, _ := margem.Float64Value()
		p.MargemLucro = money.Fixed2(f.Float64)
	}
	if imagem.Valid {
		p.Imagem = &imagem.String
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}

func textOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
