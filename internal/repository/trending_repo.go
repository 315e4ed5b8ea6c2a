package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tldw-backend/internal/models"
)

type TrendingRepo struct {
	pool *pgxpool.Pool
}

func NewTrendingRepo(pool *pgxpool.Pool) *TrendingRepo {
	return &TrendingRepo{pool: pool}
}

// UpsertMany writes a snapshot in one transaction. Rows for videos already
// present are overwritten with the fresh statistics.
func (r *TrendingRepo) UpsertMany(ctx context.Context, videos []models.TrendingVideo) error {
	if len(videos) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin trending upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO trending_videos
			(video_id, title, channel_id, channel_name, duration_minutes, views, likes, comments, published_at, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (video_id) DO UPDATE SET
			title = EXCLUDED.title,
			channel_id = EXCLUDED.channel_id,
			channel_name = EXCLUDED.channel_name,
			duration_minutes = EXCLUDED.duration_minutes,
			views = EXCLUDED.views,
			likes = EXCLUDED.likes,
			comments = EXCLUDED.comments,
			published_at = EXCLUDED.published_at,
			fetched_at = EXCLUDED.fetched_at`

	for _, v := range videos {
		if _, err := tx.Exec(ctx, query,
			v.VideoID, v.Title, v.ChannelID, v.ChannelName, v.DurationMinutes,
			v.Views, v.Likes, v.Comments, v.PublishedAt, v.FetchedAt,
		); err != nil {
			return fmt.Errorf("upsert trending video %s: %w", v.VideoID, err)
		}
	}

	return tx.Commit(ctx)
}

// List returns stored trending videos, most viewed first. An empty
// channelID lists every channel.
func (r *TrendingRepo) List(ctx context.Context, channelID string, limit int) ([]models.TrendingVideo, error) {
	query := `SELECT video_id, title, channel_id, channel_name, duration_minutes, views, likes, comments,
			COALESCE(published_at, fetched_at), fetched_at
		FROM trending_videos
		WHERE ($1 = '' OR channel_id = $1)
		ORDER BY views DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.TrendingVideo{}
	for rows.Next() {
		var v models.TrendingVideo
		if err := rows.Scan(
			&v.VideoID, &v.Title, &v.ChannelID, &v.ChannelName, &v.DurationMinutes,
			&v.Views, &v.Likes, &v.Comments, &v.PublishedAt, &v.FetchedAt,
		); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
