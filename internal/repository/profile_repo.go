package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomie-match/internal/domain"
)

// ProfileRepository define el contrato de persistencia para perfiles de matching.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile domain.UserProfile) error
	GetByUID(ctx context.Context, uid string) (domain.UserProfile, error)
	ListCandidates(ctx context.Context, zone domain.Zone, limit int) ([]domain.UserProfile, error)
	TouchLastActive(ctx context.Context, uid string, at time.Time) error
}

// PgProfileRepository implementa ProfileRepository usando pgxpool.
type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

const profileColumns = `
	uid, display_name, photo_url, gender, age, school, course_year,
	min_budget, max_budget, zone, preferred_room_type,
	lifestyle, deal_breakers, status, last_active, created_at, bio
`

func (r *PgProfileRepository) Upsert(ctx context.Context, profile domain.UserProfile) error {
	lifestyle, err := json.Marshal(profile.Lifestyle)
	if err != nil {
		return fmt.Errorf("marshal lifestyle: %w", err)
	}
	dealBreakers, err := json.Marshal(profile.DealBreakers)
	if err != nil {
		return fmt.Errorf("marshal deal breakers: %w", err)
	}

	// created_at solo se fija en el primer insert.
	const query = `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (uid) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			gender = EXCLUDED.gender,
			age = EXCLUDED.age,
			school = EXCLUDED.school,
			course_year = EXCLUDED.course_year,
			min_budget = EXCLUDED.min_budget,
			max_budget = EXCLUDED.max_budget,
			zone = EXCLUDED.zone,
			preferred_room_type = EXCLUDED.preferred_room_type,
			lifestyle = EXCLUDED.lifestyle,
			deal_breakers = EXCLUDED.deal_breakers,
			status = EXCLUDED.status,
			last_active = EXCLUDED.last_active,
			bio = EXCLUDED.bio
	`
	_, err = r.pool.Exec(ctx, query,
		profile.UID,
		profile.DisplayName,
		profile.PhotoURL,
		string(profile.Gender),
		profile.Age,
		profile.School,
		profile.CourseYear,
		profile.MinBudget,
		profile.MaxBudget,
		string(profile.Zone),
		string(profile.PreferredRoomType),
		lifestyle,
		dealBreakers,
		string(profile.Status),
		profile.LastActive,
		profile.CreatedAt,
		profile.Bio,
	)
	return err
}

func (r *PgProfileRepository) GetByUID(ctx context.Context, uid string) (domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE uid = $1`
	profile, err := scanProfile(r.pool.QueryRow(ctx, query, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, err
	}
	return profile, err
}

// ListCandidates aplica los filtros duros del lado servidor: misma zona y status activo,
// los mas recientes primero.
func (r *PgProfileRepository) ListCandidates(ctx context.Context, zone domain.Zone, limit int) ([]domain.UserProfile, error) {
	if limit <= 0 {
		limit = 200
	}
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE zone = $1 AND status = $2
		ORDER BY last_active DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, string(zone), string(domain.StatusActive), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PgProfileRepository) TouchLastActive(ctx context.Context, uid string, at time.Time) error {
	const query = `UPDATE profiles SET last_active = $2 WHERE uid = $1`
	tag, err := r.pool.Exec(ctx, query, uid, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProfile(row pgx.Row) (domain.UserProfile, error) {
	var (
		p                       domain.UserProfile
		gender, zone, status    string
		roomType                string
		lifestyle, dealBreakers []byte
	)
	err := row.Scan(
		&p.UID,
		&p.DisplayName,
		&p.PhotoURL,
		&gender,
		&p.Age,
		&p.School,
		&p.CourseYear,
		&p.MinBudget,
		&p.MaxBudget,
		&zone,
		&roomType,
		&lifestyle,
		&dealBreakers,
		&status,
		&p.LastActive,
		&p.CreatedAt,
		&p.Bio,
	)
	if err != nil {
		return domain.UserProfile{}, err
	}
	p.Gender = domain.Gender(gender)
	p.Zone = domain.Zone(zone)
	p.PreferredRoomType = domain.RoomType(roomType)
	p.Status = domain.ProfileStatus(status)
	if len(lifestyle) > 0 {
		if err := json.Unmarshal(lifestyle, &p.Lifestyle); err != nil {
			return domain.UserProfile{}, fmt.Errorf("decode lifestyle: %w", err)
		}
	}
	if len(dealBreakers) > 0 {
		if err := json.Unmarshal(dealBreakers, &p.DealBreakers); err != nil {
			return domain.UserProfile{}, fmt.Errorf("decode deal breakers: %w", err)
		}
	}
	return p, nil
}
