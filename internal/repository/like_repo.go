package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"roomie-match/internal/domain"
)

type LikeRepository interface {
	Create(ctx context.Context, like domain.Like) error
	Exists(ctx context.Context, fromUID, toUID string) (bool, error)
}

type PgLikeRepository struct {
	pool *pgxpool.Pool
}

func NewPgLikeRepository(pool *pgxpool.Pool) *PgLikeRepository {
	return &PgLikeRepository{pool: pool}
}

// Create registra el like; repetirlo no es un error.
func (r *PgLikeRepository) Create(ctx context.Context, like domain.Like) error {
	const query = `
		INSERT INTO likes (id, from_uid, to_uid, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		like.ID,
		like.FromUID,
		like.ToUID,
		like.CreatedAt,
	)
	return err
}

func (r *PgLikeRepository) Exists(ctx context.Context, fromUID, toUID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM likes WHERE from_uid = $1 AND to_uid = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, fromUID, toUID).Scan(&exists)
	return exists, err
}
