package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gevapp/gevapp/internal/shared"
)

// Repository defines persistence operations for clientes.
type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, search string) ([]Customer, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, id int64, c Customer) error
	Delete(ctx context.Context, id int64) error
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

const customerColumns = `id, nome, telefone, endereco, observacoes, total_comprado, ultima_compra, created_at`

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM clientes WHERE id = $1", customerColumns), id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cliente %d: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, search string) ([]Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM clientes ORDER BY nome ASC", customerColumns)
	args := []interface{}{}
	if search != "" {
		query = fmt.Sprintf("SELECT %s FROM clientes WHERE nome ILIKE $1 ORDER BY nome ASC", customerColumns)
		args = append(args, "%"+search+"%")
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO clientes (nome, telefone, endereco, observacoes)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.Nome, c.Telefone, c.Endereco, c.Observacoes).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Customer) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE clientes
		SET nome = $1, telefone = $2, endereco = $3, observacoes = $4
		WHERE id = $5
	`, c.Nome, c.Telefone, c.Endereco, c.Observacoes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cliente %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM clientes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cliente %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var total pgtype.Numeric
	var ultimaCompra, createdAt pgtype.Timestamptz

	err := row.Scan(&c.ID, &c.Nome, &c.Telefone, &c.Endereco, &c.Observacoes,
		&total, &ultimaCompra, &createdAt)
	if err != nil {
		return nil, err
	}

	if total.Valid {
		f, _ := total.Float64Value()
		c.TotalComprado = f.Float64
	}
	if ultimaCompra.Valid {
		t := ultimaCompra.Time
		c.UltimaCompra = &t
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	return &c, nil
}
