package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"tedtalks-backend/internal/domains/speaker/model"
	"tedtalks-backend/internal/shared"
	"tedtalks-backend/pkg/cache"
)

// postgresRepository implements RepositoryInterface.
// Uses pgxpool for PostgreSQL and Redis for caching.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new speaker repository instance.
// Dependency injection pattern - receives pool and cache from container.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const speakerColumns = "id, name, bio, created_at, updated_at"

func scanSpeaker(row pgx.Row) (*model.Speaker, error) {
	var s model.Speaker
	err := row.Scan(&s.ID, &s.Name, &s.Bio, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *model.Speaker) (*model.Speaker, error) {
	query := `
        INSERT INTO speakers (name, bio)
        VALUES ($1, $2)
        RETURNING ` + speakerColumns

	created, err := scanSpeaker(r.pool.QueryRow(ctx, query, s.Name, s.Bio))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, model.ErrDuplicateSpeakerName
		}
		return nil, fmt.Errorf("failed to create speaker: %w", err)
	}

	r.invalidateCache(ctx)

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE id = $1`

	s, err := scanSpeaker(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("failed to get speaker by id: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) GetByName(ctx context.Context, name string) (*model.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE name = $1`

	s, err := scanSpeaker(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("failed to get speaker by name: %w", err)
	}
	return s, nil
}

// ListWithStats returns all speakers with their talk aggregates.
// Cache-aside on the speakers:all bucket.
func (r *postgresRepository) ListWithStats(ctx context.Context) ([]model.SpeakerWithStats, error) {
	var cached []model.SpeakerWithStats
	if found, err := r.cache.Get(ctx, shared.CacheKeySpeakersAll, &cached); err == nil && found {
		return cached, nil
	}

	query := `
        SELECT s.id, s.name, s.bio, s.created_at, s.updated_at,
               COUNT(t.id)                AS talk_count,
               COALESCE(SUM(t.views), 0)  AS total_views,
               COALESCE(SUM(t.likes), 0)  AS total_likes
        FROM speakers s
        LEFT JOIN talks t ON t.speaker_id = s.id
        GROUP BY s.id
        ORDER BY s.name
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list speakers: %w", err)
	}
	defer rows.Close()

	var speakers []model.SpeakerWithStats
	for rows.Next() {
		var s model.SpeakerWithStats
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Bio, &s.CreatedAt, &s.UpdatedAt,
			&s.TalkCount, &s.TotalViews, &s.TotalLikes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan speaker row: %w", err)
		}
		speakers = append(speakers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate speakers: %w", err)
	}

	if err := r.cache.Set(ctx, shared.CacheKeySpeakersAll, speakers, shared.CacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache speaker list")
	}

	return speakers, nil
}

func (r *postgresRepository) Search(ctx context.Context, q string) ([]model.Speaker, error) {
	query := `
        SELECT ` + speakerColumns + `
        FROM speakers
        WHERE name ILIKE '%' || $1 || '%'
        ORDER BY name
        LIMIT 50
    `

	rows, err := r.pool.Query(ctx, query, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search speakers: %w", err)
	}
	defer rows.Close()

	var speakers []model.Speaker
	for rows.Next() {
		var s model.Speaker
		if err := rows.Scan(&s.ID, &s.Name, &s.Bio, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan speaker row: %w", err)
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM speakers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count speakers: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) UpdateBio(ctx context.Context, id uuid.UUID, bio string) (*model.Speaker, error) {
	query := `
        UPDATE speakers
        SET bio = $2, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + speakerColumns

	s, err := scanSpeaker(r.pool.QueryRow(ctx, query, id, bio))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("failed to update speaker bio: %w", err)
	}

	r.invalidateCache(ctx)

	return s, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM speakers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete speaker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSpeakerNotFound
	}

	r.invalidateCache(ctx)

	return nil
}

func (r *postgresRepository) HasTalks(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM talks WHERE speaker_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check speaker talks: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) FindByNameTx(ctx context.Context, tx pgx.Tx, name string) (*model.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE name = $1`

	s, err := scanSpeaker(tx.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("failed to find speaker by name: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, name string) (*model.Speaker, error) {
	query := `
        INSERT INTO speakers (name)
        VALUES ($1)
        RETURNING ` + speakerColumns

	s, err := scanSpeaker(tx.QueryRow(ctx, query, name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, model.ErrDuplicateSpeakerName
		}
		return nil, fmt.Errorf("failed to create speaker in tx: %w", err)
	}
	return s, nil
}

// invalidateCache drops the list bucket and every analysis result.
// Coarse on purpose: any speaker mutation can shift the rankings.
func (r *postgresRepository) invalidateCache(ctx context.Context) {
	if err := r.cache.Delete(ctx, shared.CacheKeySpeakersAll, shared.CacheKeyTalksAll); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate list caches")
	}
	if err := r.cache.DeletePattern(ctx, shared.CachePatternAnalysis); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate analysis caches")
	}
}
