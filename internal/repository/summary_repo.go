package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tldw-backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

type SummaryRepo struct {
	pool *pgxpool.Pool
}

func NewSummaryRepo(pool *pgxpool.Pool) *SummaryRepo {
	return &SummaryRepo{pool: pool}
}

// Upsert stores the generated content. Every upsert counts as one more
// summarization and bumps popularity.
func (r *SummaryRepo) Upsert(ctx context.Context, s *models.Summary) error {
	faqs, err := json.Marshal(s.FAQs)
	if err != nil {
		return fmt.Errorf("encode faqs: %w", err)
	}
	keyPoints := s.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	query := `INSERT INTO summaries (video_id, title, description, key_points, faqs, popularity_score, times_summarized)
		VALUES ($1, $2, $3, $4, $5, 1, 1)
		ON CONFLICT (video_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			key_points = EXCLUDED.key_points,
			faqs = EXCLUDED.faqs,
			popularity_score = summaries.popularity_score + 1,
			times_summarized = summaries.times_summarized + 1,
			updated_at = NOW()
		RETURNING popularity_score, times_summarized, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		s.VideoID, s.Title, s.Description, keyPoints, faqs,
	).Scan(&s.PopularityScore, &s.TimesSummarized, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SummaryRepo) GetByVideoID(ctx context.Context, videoID string) (*models.Summary, error) {
	s := &models.Summary{}
	var faqs []byte

	query := `SELECT video_id, title, description, key_points, faqs, popularity_score, times_summarized, created_at, updated_at
		FROM summaries WHERE video_id = $1`

	err := r.pool.QueryRow(ctx, query, videoID).Scan(
		&s.VideoID, &s.Title, &s.Description, &s.KeyPoints, &faqs,
		&s.PopularityScore, &s.TimesSummarized, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(faqs, &s.FAQs); err != nil {
		return nil, fmt.Errorf("decode faqs for %s: %w", videoID, err)
	}
	return s, nil
}

func (r *SummaryRepo) IncrementTimesSummarized(ctx context.Context, videoID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE summaries SET times_summarized = times_summarized + 1, popularity_score = popularity_score + 1
		WHERE video_id = $1`, videoID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordView bumps popularity without counting a new summarization.
func (r *SummaryRepo) RecordView(ctx context.Context, videoID string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE summaries SET popularity_score = popularity_score + 1 WHERE video_id = $1", videoID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SummaryRepo) ListPopular(ctx context.Context, limit int) ([]models.PopularVideo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT video_id, title, popularity_score, times_summarized FROM summaries
		ORDER BY popularity_score DESC, times_summarized DESC, updated_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.PopularVideo{}
	for rows.Next() {
		var v models.PopularVideo
		if err := rows.Scan(&v.VideoID, &v.Title, &v.PopularityScore, &v.TimesSummarized); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
