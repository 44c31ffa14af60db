package profile

import (
	"context"
	"errors"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/todolite/todolite/internal/observability/metrics"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	FindByUserID(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, p Profile) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) FindByUserID(ctx context.Context, userID string) (Profile, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, COALESCE(avatar_url, '') FROM profiles WHERE id = $1`,
		userID,
	)

	var p Profile
	if err := row.Scan(&p.UserID, &p.Username, &p.AvatarURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		metrics.DBQueryErrors.WithLabelValues("select", "profiles").Inc()
		return Profile{}, err
	}

	return p, nil
}

// Upsert creates the profile row on first login and leaves an existing
// row untouched, so a user-chosen username survives later logins.
func (r *PgRepository) Upsert(ctx context.Context, p Profile) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO profiles (id, username, avatar_url)
		 VALUES ($1, $2, NULLIF($3, ''))
		 ON CONFLICT (id) DO NOTHING`,
		p.UserID,
		p.Username,
		p.AvatarURL,
	)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("insert", "profiles").Inc()
		return err
	}
	return nil
}
