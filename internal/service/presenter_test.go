package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

func TestPresenterSendsFirstScreen(t *testing.T) {
	users := newFakeUserRepo()
	users.users[7] = &domain.User{ID: 7}
	msg := newFakeMessenger()
	p := NewPresenter(users, msg, testLogger(t))

	err := p.Show(context.Background(), 7, "привет", nil)
	require.NoError(t, err)

	assert.Len(t, msg.sent, 1)
	assert.Empty(t, msg.edited)
	assert.NotZero(t, users.users[7].MainMessageID, "anchor id must be stored")
}

func TestPresenterEditsExistingAnchor(t *testing.T) {
	users := newFakeUserRepo()
	users.users[7] = &domain.User{ID: 7, MainMessageID: 55}
	msg := newFakeMessenger()
	p := NewPresenter(users, msg, testLogger(t))

	err := p.Show(context.Background(), 7, "экран", nil)
	require.NoError(t, err)

	assert.Len(t, msg.edited, 1)
	assert.Empty(t, msg.sent, "existing anchor is edited, not replaced")
	assert.Equal(t, 55, users.users[7].MainMessageID)
}

func TestPresenterFallsBackWhenEditFails(t *testing.T) {
	users := newFakeUserRepo()
	users.users[7] = &domain.User{ID: 7, MainMessageID: 55}
	msg := newFakeMessenger()
	msg.editErr = errors.New("message to edit not found")
	p := NewPresenter(users, msg, testLogger(t))

	err := p.Show(context.Background(), 7, "экран", nil)
	require.NoError(t, err)

	assert.Len(t, msg.sent, 1)
	assert.NotEqual(t, 55, users.users[7].MainMessageID, "new message becomes the anchor")
}

func TestPresenterUnknownUserGetsFreshScreen(t *testing.T) {
	users := newFakeUserRepo()
	msg := newFakeMessenger()
	p := NewPresenter(users, msg, testLogger(t))

	err := p.Show(context.Background(), 42, "меню", nil)
	require.NoError(t, err)
	assert.Len(t, msg.sent, 1)
	assert.Contains(t, users.anchorSet, int64(42))
}
