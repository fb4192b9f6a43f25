package auth

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

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, nome, email, senhaHash string) (int64, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	UpdatePassword(ctx context.Context, id int64, senhaHash string) error
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

const uniqueViolation = "23505"

func (r *repository) Create(ctx context.Context, nome, email, senhaHash string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO usuarios (nome, email, senha_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, nome, email, senhaHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("email %s: %w", email, shared.ErrDuplicateEmail)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, nome, email, senha_hash, created_at FROM usuarios WHERE email = $1", email)
	return scanUser(row)
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, nome, email, senha_hash, created_at FROM usuarios WHERE id = $1", id)
	return scanUser(row)
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, senhaHash string) error {
	tag, err := r.db.Exec(ctx, "UPDATE usuarios SET senha_hash = $1 WHERE id = $2", senhaHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("usuario %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var createdAt pgtype.Timestamptz
	if err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if createdAt.Valid {
		u.CreatedAt = createdAt.Time
	}
	return &u, nil
}
