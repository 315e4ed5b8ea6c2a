package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tldw-backend/internal/models"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Insert(ctx context.Context, e *models.EventLog) error {
	query := `INSERT INTO event_logs (video_id, event, detail)
		VALUES ($1, $2, $3) RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, e.VideoID, e.Event, e.Detail).Scan(&e.ID, &e.CreatedAt)
}
