package service

import (
	"context"

	"github.com/seyborx-dotcom/impulse-bot/internal/repository"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

// Presenter keeps the private chat to a single anchored screen. Every
// navigation edits that one message in place.
type Presenter struct {
	users repository.UserRepository
	msg   telegram.Messenger
	log   *logger.Logger
}

// NewPresenter creates the single-screen presenter
func NewPresenter(users repository.UserRepository, msg telegram.Messenger, log *logger.Logger) *Presenter {
	return &Presenter{users: users, msg: msg, log: log}
}

// Show renders a screen into the user's anchor message. When the anchor is
// missing or Telegram refuses the edit (deleted or too old), a fresh message
// is sent and becomes the new anchor.
func (p *Presenter) Show(ctx context.Context, userID int64, text string, kb telegram.Keyboard) error {
	user, err := p.users.Get(ctx, userID)
	if err != nil {
		return err
	}

	if user != nil && user.MainMessageID != 0 {
		err := p.msg.EditMessage(ctx, userID, user.MainMessageID, text, kb)
		if err == nil {
			return nil
		}
		p.log.WithError(err).WithField("user_id", userID).Debug("screen edit failed, sending fresh anchor")
	}

	messageID, err := p.msg.SendMessage(ctx, userID, 0, text, kb)
	if err != nil {
		return err
	}
	if err := p.users.SetMainMessageID(ctx, userID, messageID); err != nil {
		p.log.WithError(err).WithField("user_id", userID).Warn("failed to store anchor message id")
	}
	return nil
}
