package repository

import (
	"context"
	"time"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

// PollRepository persists RSVP polls, their votes and the check-in settlement.
type PollRepository interface {
	Create(ctx context.Context, poll *domain.Poll) error
	Get(ctx context.Context, pollID string) (*domain.Poll, error)
	SetCardMessageID(ctx context.Context, pollID string, messageID int) error
	ListActive(ctx context.Context, limit int) ([]*domain.Poll, error)
	ListUnlockedActive(ctx context.Context) ([]*domain.Poll, error)
	SetUILocked(ctx context.Context, pollID string, locked bool) error

	// CastVote upserts the voter's choice and adjusts the aggregate counts
	// in one transaction. It returns the poll as it looks after the vote.
	CastVote(ctx context.Context, pollID string, voterID int64, name string, choice domain.Choice) (*domain.Poll, error)

	Votes(ctx context.Context, pollID string) ([]*domain.Vote, error)
	YesVoters(ctx context.Context, pollID string) ([]*domain.Vote, error)

	// CloseCheckin settles a poll once: it awards points to everyone marked
	// present, fines the no-shows, and flags the poll closed, all in one
	// transaction. Calling it again returns the stored summary with
	// Already set.
	CloseCheckin(ctx context.Context, pollID string, closedBy int64, present map[int64]bool) (*domain.CheckinSummary, error)
}

// LedgerRepository is the append-only points ledger.
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	// AppendOnce inserts an entry under its caller-supplied ID and is a
	// no-op when that ID already exists.
	AppendOnce(ctx context.Context, entry *domain.LedgerEntry) error
	// SumByWindow aggregates points per user over [start, end), sorted by
	// total descending. Each row carries the user's latest non-empty name.
	SumByWindow(ctx context.Context, start, end time.Time) ([]*domain.UserTotal, error)
	CountByUserSince(ctx context.Context, userID int64, since time.Time) (int, error)
}

// UserRepository persists per-user settings and the private UI anchor.
type UserRepository interface {
	// Ensure lazily creates the user row and refreshes the Telegram
	// profile fields on every contact.
	Ensure(ctx context.Context, user *domain.User) (*domain.User, error)
	Get(ctx context.Context, userID int64) (*domain.User, error)
	SetLang(ctx context.Context, userID int64, lang string) error
	SetDisplayName(ctx context.Context, userID int64, name string) error
	SetMainMessageID(ctx context.Context, userID int64, messageID int) error
	// NameOverrides returns the admin-set display names for the given
	// users, keyed by user ID. Users without an override are absent.
	NameOverrides(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

// TopicRepository maps category keys to bound forum topics.
type TopicRepository interface {
	Save(ctx context.Context, topic *domain.Topic) error
	Get(ctx context.Context, key string) (*domain.Topic, error)
	List(ctx context.Context) ([]*domain.Topic, error)
}

// ConfigRepository holds the single-row bot configuration.
type ConfigRepository interface {
	Get(ctx context.Context) (*domain.BotConfig, error)
	SetGroupChatID(ctx context.Context, chatID int64) error
	SetLastMonthlyTop5(ctx context.Context, key string) error
	SetLastYearWinner(ctx context.Context, key string) error
	SetMonthPhoto(ctx context.Context, fileID string) error
	SetMonthEmptyPhoto(ctx context.Context, fileID string) error
	SetYearPhoto(ctx context.Context, fileID string) error
}
