package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL-backed user repository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, lang, display_name, first_name, last_name, username, main_message_id, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Lang, &u.DisplayName, &u.FirstName, &u.LastName,
		&u.Username, &u.MainMessageID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Ensure(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, lang, first_name, last_name, username, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id)
		DO UPDATE SET first_name = EXCLUDED.first_name,
		              last_name = EXCLUDED.last_name,
		              username = EXCLUDED.username
		RETURNING ` + userColumns

	stored, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, domain.NormalizeLang(user.Lang), user.FirstName, user.LastName, user.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return stored, nil
}

func (r *userRepository) Get(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) SetLang(ctx context.Context, userID int64, lang string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET lang = $2 WHERE id = $1`,
		userID, domain.NormalizeLang(lang))
	if err != nil {
		return fmt.Errorf("failed to set lang: %w", err)
	}
	return nil
}

func (r *userRepository) SetDisplayName(ctx context.Context, userID int64, name string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET display_name = $2 WHERE id = $1`, userID, name)
	if err != nil {
		return fmt.Errorf("failed to set display name: %w", err)
	}
	return nil
}

func (r *userRepository) SetMainMessageID(ctx context.Context, userID int64, messageID int) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET main_message_id = $2 WHERE id = $1`, userID, messageID)
	if err != nil {
		return fmt.Errorf("failed to set main message id: %w", err)
	}
	return nil
}

func (r *userRepository) NameOverrides(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	return nameOverridesIn(ctx, r.db, userIDs)
}

func nameOverridesIn(ctx context.Context, q dbtx, userIDs []int64) (map[int64]string, error) {
	overrides := make(map[int64]string)
	if len(userIDs) == 0 {
		return overrides, nil
	}

	query := `SELECT id, display_name FROM users WHERE id = ANY($1) AND display_name <> ''`

	rows, err := q.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load name overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan name override: %w", err)
		}
		overrides[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate name overrides: %w", err)
	}
	return overrides, nil
}
