package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/repository"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
	"github.com/seyborx-dotcom/impulse-bot/pkg/database"
	apperrors "github.com/seyborx-dotcom/impulse-bot/pkg/errors"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

type pollService struct {
	polls       repository.PollRepository
	topics      repository.TopicRepository
	msg         telegram.Messenger
	botUsername string
	loc         *time.Location
	log         *logger.Logger
}

// NewPollService creates the poll lifecycle service
func NewPollService(
	polls repository.PollRepository,
	topics repository.TopicRepository,
	msg telegram.Messenger,
	botUsername string,
	loc *time.Location,
	log *logger.Logger,
) PollService {
	return &pollService{
		polls:       polls,
		topics:      topics,
		msg:         msg,
		botUsername: botUsername,
		loc:         loc,
		log:         log,
	}
}

func (s *pollService) Publish(ctx context.Context, draft *domain.PollDraft, createdBy int64) (*domain.Poll, error) {
	topic, err := s.topics.Get(ctx, draft.TopicKey)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("topic %q is not bound to a chat", draft.TopicKey))
	}

	// Snapshot the audience size for percentage bars. Best effort, the
	// card falls back to the vote total.
	members, err := s.msg.ChatMemberCount(ctx, topic.ChatID)
	if err != nil {
		s.log.WithError(err).Warn("failed to snapshot chat member count")
		members = 0
	}

	postID, err := s.publishContent(ctx, topic, draft)
	if err != nil {
		return nil, err
	}

	poll := &domain.Poll{
		ID:            uuid.NewString(),
		TopicKey:      draft.TopicKey,
		ChatID:        topic.ChatID,
		ThreadID:      topic.ThreadID,
		PostMessageID: postID,
		QuestionRU:    draft.QuestionRU,
		QuestionDE:    draft.QuestionDE,
		DateLabel:     draft.DateLabel,
		MemberCount:   members,
		Active:        true,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
	}
	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, err
	}

	cardID, err := s.msg.SendMessage(ctx, topic.ChatID, topic.ThreadID,
		FormatCard(poll, false), CardKeyboard(poll, s.botUsername, false))
	if err != nil {
		return nil, err
	}
	poll.CardMessageID = cardID
	if err := s.polls.SetCardMessageID(ctx, poll.ID, cardID); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"poll_id": poll.ID,
		"topic":   poll.TopicKey,
		"date":    poll.DateLabel,
	}).Info("poll published")
	return poll, nil
}

func (s *pollService) publishContent(ctx context.Context, topic *domain.Topic, draft *domain.PollDraft) (int, error) {
	switch {
	case len(draft.Media) > 1:
		photos := make([]telegram.Album, 0, len(draft.Media))
		for i, fileID := range draft.Media {
			a := telegram.Album{FileID: fileID}
			if i == 0 {
				a.Caption = Truncate(draft.PostText, CaptionLimit)
			}
			photos = append(photos, a)
		}
		if err := s.msg.SendAlbum(ctx, topic.ChatID, topic.ThreadID, photos); err != nil {
			return 0, err
		}
		return 0, nil
	case len(draft.Media) == 1:
		return s.msg.SendPhoto(ctx, topic.ChatID, topic.ThreadID,
			draft.Media[0], Truncate(draft.PostText, CaptionLimit), nil)
	default:
		return s.msg.SendMessage(ctx, topic.ChatID, topic.ThreadID,
			Truncate(draft.PostText, MessageLimit), nil)
	}
}

func (s *pollService) CastVote(ctx context.Context, pollID string, voterID int64, name string, choice domain.Choice) (*domain.Poll, bool, error) {
	var poll *domain.Poll
	err := database.Retry(ctx, s.log.Logger, "poll_get", func(ctx context.Context) error {
		var err error
		poll, err = s.polls.Get(ctx, pollID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if poll == nil {
		return nil, false, apperrors.NewNotFoundError("poll")
	}

	if poll.UILocked || !poll.Active {
		// Bring the card back to results-only in case the lock-time edit
		// never landed.
		if err := s.RefreshCard(ctx, poll); err != nil {
			s.log.WithError(err).WithField("poll_id", pollID).Warn("failed to refresh poll card")
		}
		return poll, false, nil
	}
	if domain.VotingLocked(poll.DateLabel, time.Now(), s.loc) {
		// The sweep has not caught this poll yet. Freeze it now.
		if err := s.lock(ctx, poll); err != nil {
			s.log.WithError(err).Warn("failed to lock poll on touch")
		}
		return poll, false, nil
	}

	err = database.Retry(ctx, s.log.Logger, "cast_vote", func(ctx context.Context) error {
		poll, err = s.polls.CastVote(ctx, pollID, voterID, name, choice)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if poll == nil {
		return nil, false, apperrors.NewNotFoundError("poll")
	}

	if err := s.RefreshCard(ctx, poll); err != nil {
		s.log.WithError(err).WithField("poll_id", pollID).Warn("failed to refresh poll card")
	}
	return poll, true, nil
}

func (s *pollService) LockSweep(ctx context.Context) (int, error) {
	polls, err := s.polls.ListUnlockedActive(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	locked := 0
	for _, poll := range polls {
		if !domain.VotingLocked(poll.DateLabel, now, s.loc) {
			continue
		}
		if err := s.lock(ctx, poll); err != nil {
			s.log.WithError(err).WithField("poll_id", poll.ID).Error("failed to lock poll")
			continue
		}
		locked++
	}
	if locked > 0 {
		s.log.WithField("locked", locked).Info("lock sweep finished")
	}
	return locked, nil
}

func (s *pollService) lock(ctx context.Context, poll *domain.Poll) error {
	if err := s.polls.SetUILocked(ctx, poll.ID, true); err != nil {
		return err
	}
	poll.UILocked = true
	return s.RefreshCard(ctx, poll)
}

func (s *pollService) RefreshCard(ctx context.Context, poll *domain.Poll) error {
	if poll.CardMessageID == 0 {
		return nil
	}
	locked := poll.UILocked || domain.VotingLocked(poll.DateLabel, time.Now(), s.loc)
	return s.msg.EditMessage(ctx, poll.ChatID, poll.CardMessageID,
		FormatCard(poll, locked), CardKeyboard(poll, s.botUsername, locked))
}
