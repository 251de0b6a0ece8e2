package service

import (
	"context"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

// PollService drives the RSVP poll lifecycle in the group.
type PollService interface {
	Publish(ctx context.Context, draft *domain.PollDraft, createdBy int64) (*domain.Poll, error)
	// CastVote records a vote and refreshes the group card. The bool is
	// false when voting for this poll is locked.
	CastVote(ctx context.Context, pollID string, voterID int64, name string, choice domain.Choice) (*domain.Poll, bool, error)
	// LockSweep walks active unlocked polls and freezes the ones whose
	// event day has arrived.
	LockSweep(ctx context.Context) (int, error)
	RefreshCard(ctx context.Context, poll *domain.Poll) error
}

// NameResolver maps user IDs to the display name everyone sees.
type NameResolver interface {
	Resolve(ctx context.Context, userID int64) string
	Invalidate(ctx context.Context, userID int64)
}
