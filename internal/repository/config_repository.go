package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

type configRepository struct {
	db *pgxpool.Pool
}

// NewConfigRepository creates a repository over the single bot_config row
func NewConfigRepository(db *pgxpool.Pool) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Get(ctx context.Context) (*domain.BotConfig, error) {
	query := `
		INSERT INTO bot_config (id) VALUES (1)
		ON CONFLICT (id) DO UPDATE SET id = 1
		RETURNING group_chat_id, last_monthly_top5, last_year_winner,
		          month_photo_id, month_empty_photo_id, year_photo_id`

	var c domain.BotConfig
	err := r.db.QueryRow(ctx, query).Scan(
		&c.GroupChatID, &c.LastMonthlyTop5, &c.LastYearWinner,
		&c.MonthPhotoID, &c.MonthEmptyPhotoID, &c.YearPhotoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot config: %w", err)
	}
	return &c, nil
}

func (r *configRepository) set(ctx context.Context, column string, value any) error {
	query := fmt.Sprintf(`
		INSERT INTO bot_config (id, %s) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET %s = EXCLUDED.%s`, column, column, column)

	if _, err := r.db.Exec(ctx, query, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", column, err)
	}
	return nil
}

func (r *configRepository) SetGroupChatID(ctx context.Context, chatID int64) error {
	return r.set(ctx, "group_chat_id", chatID)
}

func (r *configRepository) SetLastMonthlyTop5(ctx context.Context, key string) error {
	return r.set(ctx, "last_monthly_top5", key)
}

func (r *configRepository) SetLastYearWinner(ctx context.Context, key string) error {
	return r.set(ctx, "last_year_winner", key)
}

func (r *configRepository) SetMonthPhoto(ctx context.Context, fileID string) error {
	return r.set(ctx, "month_photo_id", fileID)
}

func (r *configRepository) SetMonthEmptyPhoto(ctx context.Context, fileID string) error {
	return r.set(ctx, "month_empty_photo_id", fileID)
}

func (r *configRepository) SetYearPhoto(ctx context.Context, fileID string) error {
	return r.set(ctx, "year_photo_id", fileID)
}
