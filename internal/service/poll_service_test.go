package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

func newPollFixture(t *testing.T) (PollService, *fakePollRepo, *fakeTopicRepo, *fakeMessenger) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	polls := newFakePollRepo()
	topics := newFakeTopicRepo()
	msg := newFakeMessenger()
	svc := NewPollService(polls, topics, msg, "impulseTop5Bot", loc, testLogger(t))
	return svc, polls, topics, msg
}

func futureLabel() string {
	return time.Now().AddDate(0, 0, 14).Format("02.01.2006") + " 18:00"
}

func pastLabel() string {
	return time.Now().AddDate(0, 0, -1).Format("02.01.2006")
}

func draft(label string) *domain.PollDraft {
	return &domain.PollDraft{
		TopicKey:   "бег",
		PostText:   "Субботняя пробежка",
		QuestionRU: "Бежим?",
		QuestionDE: "Laufen wir?",
		DateLabel:  label,
	}
}

func TestPublishPostsContentAndCard(t *testing.T) {
	svc, polls, topics, msg := newPollFixture(t)
	topics.topics["бег"] = &domain.Topic{Key: "бег", ChatID: -100, ThreadID: 7}

	poll, err := svc.Publish(context.Background(), draft(futureLabel()), 1)
	require.NoError(t, err)

	assert.Len(t, msg.sent, 2, "announcement post plus vote card")
	assert.Contains(t, msg.sent[1], "Бежим?")
	assert.Equal(t, 50, poll.MemberCount, "member snapshot captured at publish")
	assert.NotZero(t, poll.CardMessageID)

	stored, err := polls.Get(context.Background(), poll.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, poll.CardMessageID, stored.CardMessageID)
	assert.True(t, stored.Active)
}

func TestPublishUnboundTopicFails(t *testing.T) {
	svc, _, _, msg := newPollFixture(t)

	_, err := svc.Publish(context.Background(), draft(futureLabel()), 1)
	assert.Error(t, err)
	assert.Empty(t, msg.sent)
}

func TestCastVoteUpdatesCountsAndCard(t *testing.T) {
	svc, _, topics, msg := newPollFixture(t)
	topics.topics["бег"] = &domain.Topic{Key: "бег", ChatID: -100}
	poll, err := svc.Publish(context.Background(), draft(futureLabel()), 1)
	require.NoError(t, err)

	voted, accepted, err := svc.CastVote(context.Background(), poll.ID, 10, "Анна", domain.ChoiceYes)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 1, voted.YesCount)
	require.NotEmpty(t, msg.edited, "card is rewritten after a vote")
	assert.Contains(t, msg.edited[len(msg.edited)-1], "✅ Да / Ja: 1")

	// switching sides moves the count, not the total
	voted, accepted, err = svc.CastVote(context.Background(), poll.ID, 10, "Анна", domain.ChoiceNo)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 0, voted.YesCount)
	assert.Equal(t, 1, voted.NoCount)
}

func TestCastVoteLockedByDate(t *testing.T) {
	svc, polls, topics, _ := newPollFixture(t)
	topics.topics["бег"] = &domain.Topic{Key: "бег", ChatID: -100}
	poll, err := svc.Publish(context.Background(), draft(pastLabel()), 1)
	require.NoError(t, err)

	_, accepted, err := svc.CastVote(context.Background(), poll.ID, 10, "Анна", domain.ChoiceYes)
	require.NoError(t, err)
	assert.False(t, accepted)

	stored, err := polls.Get(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.True(t, stored.UILocked, "poll freezes the first time it is touched past its date")
	assert.Zero(t, stored.YesCount)
}

func TestCastVoteOnLockedPollRestoresCard(t *testing.T) {
	svc, polls, topics, msg := newPollFixture(t)
	topics.topics["бег"] = &domain.Topic{Key: "бег", ChatID: -100}
	poll, err := svc.Publish(context.Background(), draft(futureLabel()), 1)
	require.NoError(t, err)
	require.NoError(t, polls.SetUILocked(context.Background(), poll.ID, true))
	msg.edited = nil

	_, accepted, err := svc.CastVote(context.Background(), poll.ID, 10, "Анна", domain.ChoiceYes)
	require.NoError(t, err)
	assert.False(t, accepted)

	// A tap on a locked card rewrites it to results-only, so a card whose
	// lock-time edit failed heals itself.
	require.Len(t, msg.edited, 1)
	assert.Contains(t, msg.edited[0], "🔒")

	stored, err := polls.Get(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.YesCount)
}

func TestCastVoteRetriesTransientRead(t *testing.T) {
	svc, polls, topics, _ := newPollFixture(t)
	topics.topics["бег"] = &domain.Topic{Key: "бег", ChatID: -100}
	poll, err := svc.Publish(context.Background(), draft(futureLabel()), 1)
	require.NoError(t, err)

	polls.getFail = 1
	polls.getErr = errors.New("connection reset")

	_, accepted, err := svc.CastVote(context.Background(), poll.ID, 10, "Анна", domain.ChoiceYes)
	require.NoError(t, err, "one transient read failure is absorbed")
	assert.True(t, accepted)
}

func TestCastVoteUnknownPoll(t *testing.T) {
	svc, _, _, _ := newPollFixture(t)

	_, _, err := svc.CastVote(context.Background(), "missing", 10, "Анна", domain.ChoiceYes)
	assert.Error(t, err)
}

func TestLockSweep(t *testing.T) {
	svc, polls, topics, msg := newPollFixture(t)
	topics.topics["бег"] = &domain.Topic{Key: "бег", ChatID: -100}

	stale, err := svc.Publish(context.Background(), draft(pastLabel()), 1)
	require.NoError(t, err)
	fresh, err := svc.Publish(context.Background(), draft(futureLabel()), 1)
	require.NoError(t, err)
	msg.edited = nil

	locked, err := svc.LockSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, locked)

	p1, _ := polls.Get(context.Background(), stale.ID)
	p2, _ := polls.Get(context.Background(), fresh.ID)
	assert.True(t, p1.UILocked)
	assert.False(t, p2.UILocked)
	require.Len(t, msg.edited, 1)
	assert.Contains(t, msg.edited[0], "🔒")
}
