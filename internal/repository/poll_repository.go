package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

type pollRepository struct {
	db *pgxpool.Pool
}

// NewPollRepository creates a new PostgreSQL-backed poll repository
func NewPollRepository(db *pgxpool.Pool) PollRepository {
	return &pollRepository{db: db}
}

const pollColumns = `id, topic_key, chat_id, thread_id, post_message_id, card_message_id,
       question_ru, question_de, date_label, member_count, yes_count, no_count,
       active, ui_locked, checkin_closed, checkin_by, checkin_at,
       checkin_yes, checkin_here, checkin_noshow, created_by, created_at`

func scanPoll(row pgx.Row) (*domain.Poll, error) {
	var p domain.Poll
	err := row.Scan(
		&p.ID, &p.TopicKey, &p.ChatID, &p.ThreadID, &p.PostMessageID, &p.CardMessageID,
		&p.QuestionRU, &p.QuestionDE, &p.DateLabel, &p.MemberCount, &p.YesCount, &p.NoCount,
		&p.Active, &p.UILocked, &p.CheckinClosed, &p.CheckinBy, &p.CheckinAt,
		&p.CheckinYes, &p.CheckinHere, &p.CheckinNoShow, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	query := `
		INSERT INTO polls (id, topic_key, chat_id, thread_id, post_message_id, card_message_id,
		                   question_ru, question_de, date_label, member_count,
		                   active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		poll.ID, poll.TopicKey, poll.ChatID, poll.ThreadID, poll.PostMessageID, poll.CardMessageID,
		poll.QuestionRU, poll.QuestionDE, poll.DateLabel, poll.MemberCount,
		poll.Active, poll.CreatedBy, poll.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}
	return nil
}

func (r *pollRepository) Get(ctx context.Context, pollID string) (*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`

	poll, err := scanPoll(r.db.QueryRow(ctx, query, pollID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return poll, nil
}

func (r *pollRepository) SetCardMessageID(ctx context.Context, pollID string, messageID int) error {
	query := `UPDATE polls SET card_message_id = $2 WHERE id = $1`

	_, err := r.db.Exec(ctx, query, pollID, messageID)
	if err != nil {
		return fmt.Errorf("failed to set card message id: %w", err)
	}
	return nil
}

func (r *pollRepository) ListActive(ctx context.Context, limit int) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls
		WHERE active = true
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active polls: %w", err)
	}
	defer rows.Close()

	return collectPolls(rows)
}

func (r *pollRepository) ListUnlockedActive(ctx context.Context) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls
		WHERE active = true AND ui_locked = false
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocked polls: %w", err)
	}
	defer rows.Close()

	return collectPolls(rows)
}

func collectPolls(rows pgx.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) SetUILocked(ctx context.Context, pollID string, locked bool) error {
	query := `UPDATE polls SET ui_locked = $2 WHERE id = $1`

	_, err := r.db.Exec(ctx, query, pollID, locked)
	if err != nil {
		return fmt.Errorf("failed to set ui lock: %w", err)
	}
	return nil
}

func (r *pollRepository) CastVote(ctx context.Context, pollID string, voterID int64, name string, choice domain.Choice) (*domain.Poll, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	poll, err := scanPoll(tx.QueryRow(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1 FOR UPDATE`, pollID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock poll: %w", err)
	}

	var old *domain.Choice
	var oldChoice domain.Choice
	err = tx.QueryRow(ctx, `SELECT choice FROM votes WHERE poll_id = $1 AND voter_id = $2`, pollID, voterID).Scan(&oldChoice)
	switch {
	case err == nil:
		old = &oldChoice
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to read previous vote: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO votes (poll_id, voter_id, choice, name, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (poll_id, voter_id)
		DO UPDATE SET choice = EXCLUDED.choice, name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`,
		pollID, voterID, choice, name, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vote: %w", err)
	}

	poll.YesCount, poll.NoCount = domain.AdjustCounts(poll.YesCount, poll.NoCount, old, choice)

	_, err = tx.Exec(ctx, `UPDATE polls SET yes_count = $2, no_count = $3 WHERE id = $1`,
		pollID, poll.YesCount, poll.NoCount)
	if err != nil {
		return nil, fmt.Errorf("failed to update vote counts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}
	return poll, nil
}

func (r *pollRepository) Votes(ctx context.Context, pollID string) ([]*domain.Vote, error) {
	return r.votes(ctx, r.db, pollID, "")
}

func (r *pollRepository) YesVoters(ctx context.Context, pollID string) ([]*domain.Vote, error) {
	return r.votes(ctx, r.db, pollID, domain.ChoiceYes)
}

func (r *pollRepository) votes(ctx context.Context, q dbtx, pollID string, choice domain.Choice) ([]*domain.Vote, error) {
	query := `SELECT poll_id, voter_id, choice, name, updated_at FROM votes WHERE poll_id = $1`
	args := []any{pollID}
	if choice != "" {
		query += ` AND choice = $2`
		args = append(args, choice)
	}
	query += ` ORDER BY updated_at`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.PollID, &v.UserID, &v.Choice, &v.Name, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return votes, nil
}

func (r *pollRepository) CloseCheckin(ctx context.Context, pollID string, closedBy int64, present map[int64]bool) (*domain.CheckinSummary, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	poll, err := scanPoll(tx.QueryRow(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1 FOR UPDATE`, pollID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock poll: %w", err)
	}

	award := domain.PointsForCategory(poll.TopicKey)

	if poll.CheckinClosed {
		// Settled before, by us or by a prior run. Report the stored result.
		return &domain.CheckinSummary{
			Already: true,
			Yes:     poll.CheckinYes,
			Arrived: poll.CheckinHere,
			NoShow:  poll.CheckinNoShow,
			Award:   award,
			Penalty: domain.NoShowPenalty,
		}, nil
	}

	yes, err := r.votes(ctx, tx, pollID, domain.ChoiceYes)
	if err != nil {
		return nil, err
	}

	overrides, err := nameOverridesIn(ctx, tx, voterIDs(yes))
	if err != nil {
		return nil, err
	}
	for _, v := range yes {
		if name, ok := overrides[v.UserID]; ok {
			v.Name = name
		}
	}

	arrived, noshow := domain.PartitionPresent(dereferenceVotes(yes), present)
	now := time.Now()

	for _, v := range arrived {
		if err := insertLedgerOnce(ctx, tx, &domain.LedgerEntry{
			ID:       domain.CheckinEntryID(pollID, v.UserID),
			UserID:   v.UserID,
			Name:     v.Name,
			Points:   award,
			TS:       now,
			Source:   domain.SourceCheckin,
			PollID:   pollID,
			TopicKey: poll.TopicKey,
			Kind:     domain.KindArrived,
		}); err != nil {
			return nil, err
		}
	}
	for _, v := range noshow {
		if err := insertLedgerOnce(ctx, tx, &domain.LedgerEntry{
			ID:       domain.PenaltyEntryID(pollID, v.UserID),
			UserID:   v.UserID,
			Name:     v.Name,
			Points:   domain.NoShowPenalty,
			TS:       now,
			Source:   domain.SourcePenalty,
			PollID:   pollID,
			TopicKey: poll.TopicKey,
			Kind:     domain.KindNoShow,
		}); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE polls
		SET checkin_closed = true, checkin_by = $2, checkin_at = $3,
		    checkin_yes = $4, checkin_here = $5, checkin_noshow = $6
		WHERE id = $1`,
		pollID, closedBy, now, len(yes), len(arrived), len(noshow))
	if err != nil {
		return nil, fmt.Errorf("failed to close check-in: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}

	return &domain.CheckinSummary{
		Yes:     len(yes),
		Arrived: len(arrived),
		NoShow:  len(noshow),
		Award:   award,
		Penalty: domain.NoShowPenalty,
	}, nil
}

func voterIDs(votes []*domain.Vote) []int64 {
	ids := make([]int64, 0, len(votes))
	for _, v := range votes {
		ids = append(ids, v.UserID)
	}
	return ids
}

func dereferenceVotes(votes []*domain.Vote) []domain.Vote {
	out := make([]domain.Vote, 0, len(votes))
	for _, v := range votes {
		out = append(out, *v)
	}
	return out
}
