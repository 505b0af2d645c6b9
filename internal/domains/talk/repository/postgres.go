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

	"tedtalks-backend/internal/domains/talk/model"
	"tedtalks-backend/internal/shared"
	"tedtalks-backend/pkg/cache"
)

// postgresRepository implements RepositoryInterface.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new talk repository instance.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// talkSelect joins speakers so every talk carries its speaker name.
const talkSelect = `
    SELECT t.id, t.title, t.speaker_id, s.name, t.year, t.month,
           t.views, t.likes, t.link, t.created_at, t.updated_at
    FROM talks t
    JOIN speakers s ON s.id = t.speaker_id
`

func scanTalk(row pgx.Row) (*model.Talk, error) {
	var t model.Talk
	err := row.Scan(
		&t.ID, &t.Title, &t.SpeakerID, &t.SpeakerName, &t.Year, &t.Month,
		&t.Views, &t.Likes, &t.Link, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepository) collectTalks(rows pgx.Rows) ([]model.Talk, error) {
	defer rows.Close()

	var talks []model.Talk
	for rows.Next() {
		t, err := scanTalk(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan talk row: %w", err)
		}
		talks = append(talks, *t)
	}
	return talks, rows.Err()
}

// List returns every talk. Cache-aside on the talks:all bucket.
func (r *postgresRepository) List(ctx context.Context) ([]model.Talk, error) {
	var cached []model.Talk
	if found, err := r.cache.Get(ctx, shared.CacheKeyTalksAll, &cached); err == nil && found {
		return cached, nil
	}

	rows, err := r.pool.Query(ctx, talkSelect+` ORDER BY t.year, t.month, t.title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list talks: %w", err)
	}

	talks, err := r.collectTalks(rows)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, shared.CacheKeyTalksAll, talks, shared.CacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache talk list")
	}

	return talks, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Talk, error) {
	t, err := scanTalk(r.pool.QueryRow(ctx, talkSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTalkNotFound
		}
		return nil, fmt.Errorf("failed to get talk by id: %w", err)
	}
	return t, nil
}

func (r *postgresRepository) GetBySpeakerName(ctx context.Context, name string) ([]model.Talk, error) {
	rows, err := r.pool.Query(ctx,
		talkSelect+` WHERE s.name = $1 ORDER BY t.year, t.month`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get talks by speaker: %w", err)
	}
	return r.collectTalks(rows)
}

func (r *postgresRepository) GetByYear(ctx context.Context, year int) ([]model.Talk, error) {
	rows, err := r.pool.Query(ctx,
		talkSelect+` WHERE t.year = $1 ORDER BY t.month, t.title`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get talks by year: %w", err)
	}
	return r.collectTalks(rows)
}

func (r *postgresRepository) SearchByTitle(ctx context.Context, query string) ([]model.Talk, error) {
	rows, err := r.pool.Query(ctx,
		talkSelect+` WHERE t.title ILIKE '%' || $1 || '%' ORDER BY t.title LIMIT 50`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search talks: %w", err)
	}
	return r.collectTalks(rows)
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM talks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count talks: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) Create(ctx context.Context, t *model.Talk) (*model.Talk, error) {
	query := `
        INSERT INTO talks (title, speaker_id, year, month, views, likes, link)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `

	created := *t
	err := r.pool.QueryRow(ctx, query,
		t.Title, t.SpeakerID, t.Year, t.Month, t.Views, t.Likes, t.Link,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, model.ErrDuplicateTalk
		}
		return nil, fmt.Errorf("failed to create talk: %w", err)
	}

	r.InvalidateCache(ctx)

	return &created, nil
}

func (r *postgresRepository) Update(ctx context.Context, t *model.Talk) (*model.Talk, error) {
	query := `
        UPDATE talks
        SET title = $2, year = $3, month = $4, views = $5, likes = $6,
            link = $7, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at
    `

	updated := *t
	err := r.pool.QueryRow(ctx, query,
		t.ID, t.Title, t.Year, t.Month, t.Views, t.Likes, t.Link,
	).Scan(&updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTalkNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, model.ErrDuplicateTalk
		}
		return nil, fmt.Errorf("failed to update talk: %w", err)
	}

	r.InvalidateCache(ctx)

	return &updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM talks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete talk: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTalkNotFound
	}

	r.InvalidateCache(ctx)

	return nil
}

// StreamAll feeds every talk through fn one row at a time. Used by the
// analysis engine so the whole table never sits in memory at once.
func (r *postgresRepository) StreamAll(ctx context.Context, fn func(model.Talk) error) error {
	rows, err := r.pool.Query(ctx, talkSelect+` ORDER BY t.created_at, t.id`)
	if err != nil {
		return fmt.Errorf("failed to stream talks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTalk(rows)
		if err != nil {
			return fmt.Errorf("failed to scan talk row: %w", err)
		}
		if err := fn(*t); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *postgresRepository) ExistsByTitleAndSpeakerIDTx(ctx context.Context, tx pgx.Tx, title string, speakerID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM talks WHERE title = $1 AND speaker_id = $2)`,
		title, speakerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check talk existence: %w", err)
	}
	return exists, nil
}

// SaveBatchTx upserts a batch of talks inside the caller's transaction.
// On a (title, speaker_id) conflict the existing row's views and likes
// are refreshed from the incoming record.
func (r *postgresRepository) SaveBatchTx(ctx context.Context, tx pgx.Tx, talks []model.Talk) error {
	if len(talks) == 0 {
		return nil
	}

	query := `
        INSERT INTO talks (title, speaker_id, year, month, views, likes, link)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (title, speaker_id)
        DO UPDATE SET views = EXCLUDED.views, likes = EXCLUDED.likes, updated_at = NOW()
    `

	batch := &pgx.Batch{}
	for _, t := range talks {
		batch.Queue(query, t.Title, t.SpeakerID, t.Year, t.Month, t.Views, t.Likes, t.Link)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range talks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save talk batch: %w", err)
		}
	}
	return nil
}

// InvalidateCache drops the list buckets and every analysis result.
func (r *postgresRepository) InvalidateCache(ctx context.Context) {
	if err := r.cache.Delete(ctx, shared.CacheKeyTalksAll, shared.CacheKeySpeakersAll); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate list caches")
	}
	if err := r.cache.DeletePattern(ctx, shared.CachePatternAnalysis); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate analysis caches")
	}
}
