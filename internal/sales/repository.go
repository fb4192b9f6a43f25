package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gevapp/gevapp/internal/platform/db"
	"github.com/gevapp/gevapp/internal/shared"
)

// Repository exposes reads plus the transactional unit the pipeline runs in.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (*Sale, error)
	List(ctx context.Context, since *time.Time) ([]Sale, error)
}

// TxRepository is the write surface available inside a sale transaction.
// Keeping the catalog lookup, stock decrement and cliente rollup on the same
// tx is what makes the pipeline all-or-nothing.
type TxRepository interface {
	GetProductForSale(ctx context.Context, produtoID int64) (ProductSnapshot, error)
	DecrementStock(ctx context.Context, produtoID int64, qty int) error
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	InsertItem(ctx context.Context, item SaleItem) error
	TouchCustomer(ctx context.Context, clienteID int64, amount float64, when time.Time) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) GetProductForSale(ctx context.Context, produtoID int64) (ProductSnapshot, error) {
	var snap ProductSnapshot
	var venda, custo pgtype.Numeric
	err := r.db.QueryRow(ctx,
		"SELECT id, nome, preco_venda, preco_custo FROM produtos WHERE id = $1",
		produtoID).Scan(&snap.ID, &snap.Nome, &venda, &custo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductSnapshot{}, fmt.Errorf("produto %d: %w", produtoID, shared.ErrNotFound)
		}
		return ProductSnapshot{}, err
	}
	if venda.Valid {
		f, _ := venda.Float64Value()
		snap.PrecoVenda = f.Float64
	}
	if custo.Valid {
		f, _ := custo.Float64Value()
		snap.PrecoCusto = f.Float64
	}
	return snap, nil
}

// DecrementStock is a single conditional update so a concurrent sale cannot
// drive the count negative. Existence was checked by GetProductForSale on
// this same tx, so zero rows means a shortfall.
func (r *repository) DecrementStock(ctx context.Context, produtoID int64, qty int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE produtos
		SET estoque_atual = estoque_atual - $1, updated_at = NOW()
		WHERE id = $2 AND estoque_atual >= $1
	`, qty, produtoID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("produto %d: %w", produtoID, shared.ErrInsufficientStock)
	}
	return nil
}

func (r *repository) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO vendas (cliente_id, cliente_nome, total, custo_total, lucro, forma_pagamento, parcelas, status, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, sale.ClienteID, sale.ClienteNome, sale.Total, sale.CustoTotal, sale.Lucro,
		sale.FormaPagamento, sale.Parcelas, sale.Status, sale.Observacoes).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertItem(ctx context.Context, item SaleItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO vendas_itens (venda_id, produto_id, produto_nome, quantidade, preco_unitario, custo_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, item.VendaID, item.ProdutoID, item.ProdutoNome, item.Quantidade,
		item.PrecoUnitario, item.CustoUnitario, item.Subtotal)
	return err
}

func (r *repository) TouchCustomer(ctx context.Context, clienteID int64, amount float64, when time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE clientes
		SET total_comprado = total_comprado + $1, ultima_compra = $2
		WHERE id = $3
	`, amount, when, clienteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cliente %d: %w", clienteID, shared.ErrNotFound)
	}
	return nil
}

const saleColumns = `id, cliente_id, cliente_nome, total, custo_total, lucro,
       forma_pagamento, parcelas, status, observacoes, data_venda`

func (r *repository) Get(ctx context.Context, id int64) (*Sale, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM vendas WHERE id = $1", saleColumns), id)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("venda %d: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, venda_id, produto_id, produto_nome, quantidade, preco_unitario, custo_unitario, subtotal
		FROM vendas_itens WHERE venda_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item SaleItem
		var produtoID pgtype.Int8
		var preco, custo, subtotal pgtype.Numeric
		if err := rows.Scan(&item.ID, &item.VendaID, &produtoID, &item.ProdutoNome,
			&item.Quantidade, &preco, &custo, &subtotal); err != nil {
			return nil, err
		}
		if produtoID.Valid {
			item.ProdutoID = &produtoID.Int64
		}
		if preco.Valid {
			f, _ := preco.Float64Value()
			item.PrecoUnitario = f.Float64
		}
		if custo.Valid {
			f, _ := custo.Float64Value()
			item.CustoUnitario = f.Float64
		}
		if subtotal.Valid {
			f, _ := subtotal.Float64Value()
			item.Subtotal = f.Float64
		}
		sale.Itens = append(sale.Itens, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *repository) List(ctx context.Context, since *time.Time) ([]Sale, error) {
	query := fmt.Sprintf("SELECT %s FROM vendas ORDER BY data_venda DESC", saleColumns)
	args := []interface{}{}
	if since != nil {
		query = fmt.Sprintf("SELECT %s FROM vendas WHERE data_venda >= $1 ORDER BY data_venda DESC", saleColumns)
		args = append(args, *since)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

func scanSale(row pgx.Row) (*Sale, error) {
	var s Sale
	var clienteID pgtype.Int8
	var total, custoTotal, lucro pgtype.Numeric
	var dataVenda pgtype.Timestamptz

	err := row.Scan(&s.ID, &clienteID, &s.ClienteNome, &total, &custoTotal, &lucro,
		&s.FormaPagamento, &s.Parcelas, &s.Status, &s.Observacoes, &dataVenda)
	if err != nil {
		return nil, err
	}

	if clienteID.Valid {
		s.ClienteID = &clienteID.Int64
	}
	if total.Valid {
		f, _ := total.Float64Value()
		s.Total = f.Float64
	}
	if custoTotal.Valid {
		f, _ := custoTotal.Float64Value()
		s.CustoTotal = f.Float64
	}
	if lucro.Valid {
		f, _ := lucro.Float64Value()
		s.Lucro = f.Float64
	}
	if dataVenda.Valid {
		s.DataVenda = dataVenda.Time
	}
	return &s, nil
}
