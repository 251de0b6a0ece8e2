package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

type topicRepository struct {
	db *pgxpool.Pool
}

// NewTopicRepository creates a new PostgreSQL-backed topic repository
func NewTopicRepository(db *pgxpool.Pool) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Save(ctx context.Context, topic *domain.Topic) error {
	query := `
		INSERT INTO topics (key, chat_id, thread_id, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key)
		DO UPDATE SET chat_id = EXCLUDED.chat_id,
		              thread_id = EXCLUDED.thread_id,
		              updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, topic.Key, topic.ChatID, topic.ThreadID)
	if err != nil {
		return fmt.Errorf("failed to save topic: %w", err)
	}
	return nil
}

func (r *topicRepository) Get(ctx context.Context, key string) (*domain.Topic, error) {
	query := `SELECT key, chat_id, thread_id, updated_at FROM topics WHERE key = $1`

	var t domain.Topic
	err := r.db.QueryRow(ctx, query, key).Scan(&t.Key, &t.ChatID, &t.ThreadID, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &t, nil
}

func (r *topicRepository) List(ctx context.Context) ([]*domain.Topic, error) {
	query := `SELECT key, chat_id, thread_id, updated_at FROM topics ORDER BY key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []*domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.Key, &t.ChatID, &t.ThreadID, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate topics: %w", err)
	}
	return topics, nil
}
