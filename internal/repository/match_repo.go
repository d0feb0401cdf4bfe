package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"roomie-match/internal/domain"
)

type MatchRepository interface {
	Upsert(ctx context.Context, match domain.Match) error
	ListByParticipant(ctx context.Context, uid string) ([]domain.Match, error)
}

type PgMatchRepository struct {
	pool *pgxpool.Pool
}

func NewPgMatchRepository(pool *pgxpool.Pool) *PgMatchRepository {
	return &PgMatchRepository{pool: pool}
}

func (r *PgMatchRepository) Upsert(ctx context.Context, match domain.Match) error {
	const query = `
		INSERT INTO matches (id, participant_a, participant_b, chat_unlocked, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET chat_unlocked = EXCLUDED.chat_unlocked
	`
	_, err := r.pool.Exec(ctx, query,
		match.ID,
		match.Participants[0],
		match.Participants[1],
		match.ChatUnlocked,
		match.CreatedAt,
	)
	return err
}

func (r *PgMatchRepository) ListByParticipant(ctx context.Context, uid string) ([]domain.Match, error) {
	const query = `
		SELECT id, participant_a, participant_b, chat_unlocked, created_at
		FROM matches
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(
			&m.ID,
			&m.Participants[0],
			&m.Participants[1],
			&m.ChatUnlocked,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
