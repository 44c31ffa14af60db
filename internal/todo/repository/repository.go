package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/todolite/todolite/internal/observability/metrics"
	"github.com/todolite/todolite/internal/todo/domain"
)

// ErrTodoNotFound covers both a genuinely missing row and a row owned
// by someone else; the two are indistinguishable on purpose, so a
// foreign id cannot be probed for existence.
var ErrTodoNotFound = errors.New("todo not found")

// ErrOwnerNotFound is returned when an insert references a user with no
// profiles row, which only happens if provisioning at login failed.
var ErrOwnerNotFound = errors.New("todo owner not found")

type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error)
	Insert(ctx context.Context, todo domain.Todo) error
	SetCompleted(ctx context.Context, id, ownerID string, completed bool) error
	Delete(ctx context.Context, id, ownerID string) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// ListByOwner returns the owner's todos newest-first. An empty list is
// ([]domain.Todo{}, nil); a query failure is (nil, err) — callers must
// not render the former for the latter.
func (r *PgRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, user_id, content, completed, created_at
		 FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("select", "todos").Inc()
		return nil, err
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Content, &t.Completed, &t.CreatedAt); err != nil {
			metrics.DBQueryErrors.WithLabelValues("select", "todos").Inc()
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		metrics.DBQueryErrors.WithLabelValues("select", "todos").Inc()
		return nil, err
	}

	return todos, nil
}

func (r *PgRepository) Insert(ctx context.Context, todo domain.Todo) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO todos (id, user_id, content, completed, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		todo.ID,
		todo.OwnerID,
		todo.Content,
		todo.Completed,
		todo.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrOwnerNotFound
		}
		metrics.DBQueryErrors.WithLabelValues("insert", "todos").Inc()
		return err
	}
	return nil
}

func (r *PgRepository) SetCompleted(ctx context.Context, id, ownerID string, completed bool) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE todos SET completed = $3 WHERE id = $1 AND user_id = $2`,
		id,
		ownerID,
		completed,
	)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("update", "todos").Inc()
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`,
		id,
		ownerID,
	)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("delete", "todos").Inc()
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}
