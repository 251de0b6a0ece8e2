package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

// Bot is the go-telegram adapter implementing Messenger over long polling.
type Bot struct {
	api *bot.Bot
	log *logger.Logger
}

// NewBot creates the Bot API client. Updates are dispatched to handler from
// the library's long-poll loop once Start is called.
func NewBot(token string, handler UpdateHandler, log *logger.Logger) (*Bot, error) {
	opts := []bot.Option{
		bot.WithDefaultHandler(func(ctx context.Context, _ *bot.Bot, update *models.Update) {
			dispatch(ctx, handler, update)
		}),
	}

	api, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	return &Bot{api: api, log: log}, nil
}

// Start runs the long-poll loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.log.Info("starting telegram long polling")
	b.api.Start(ctx)
}

func dispatch(ctx context.Context, handler UpdateHandler, update *models.Update) {
	switch {
	case update.Message != nil:
		handler.HandleMessage(ctx, fromMessage(update.Message))
	case update.CallbackQuery != nil:
		handler.HandleCallback(ctx, fromCallback(update.CallbackQuery))
	}
}

func fromUser(u *models.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Lang:      u.LanguageCode,
	}
}

func fromMessage(m *models.Message) *IncomingMessage {
	msg := &IncomingMessage{
		ChatID:       m.Chat.ID,
		ThreadID:     m.MessageThreadID,
		MessageID:    m.ID,
		From:         fromUser(m.From),
		Text:         m.Text,
		Caption:      m.Caption,
		MediaGroupID: m.MediaGroupID,
		IsPrivate:    m.Chat.Type == models.ChatTypePrivate,
	}
	if len(m.Photo) > 0 {
		// Largest size is last.
		msg.PhotoFileID = m.Photo[len(m.Photo)-1].FileID
	}
	return msg
}

func fromCallback(q *models.CallbackQuery) *Callback {
	cb := &Callback{
		ID:   q.ID,
		From: fromUser(&q.From),
		Data: q.Data,
	}
	switch {
	case q.Message.Message != nil:
		cb.ChatID = q.Message.Message.Chat.ID
		cb.MessageID = q.Message.Message.ID
	case q.Message.InaccessibleMessage != nil:
		cb.ChatID = q.Message.InaccessibleMessage.Chat.ID
		cb.MessageID = q.Message.InaccessibleMessage.MessageID
		cb.Inaccessible = true
	}
	return cb
}

func toMarkup(kb Keyboard) models.ReplyMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		out := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			out = append(out, models.InlineKeyboardButton{
				Text:         btn.Text,
				CallbackData: btn.Data,
				URL:          btn.URL,
			})
		}
		rows = append(rows, out)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (b *Bot) SendMessage(ctx context.Context, chatID int64, threadID int, text string, kb Keyboard) (int, error) {
	msg, err := b.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:             chatID,
		MessageThreadID:    threadID,
		Text:               text,
		ParseMode:          models.ParseModeHTML,
		ReplyMarkup:        toMarkup(kb),
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

func (b *Bot) SendPhoto(ctx context.Context, chatID int64, threadID int, fileID, caption string, kb Keyboard) (int, error) {
	msg, err := b.api.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:          chatID,
		MessageThreadID: threadID,
		Photo:           &models.InputFileString{Data: fileID},
		Caption:         caption,
		ParseMode:       models.ParseModeHTML,
		ReplyMarkup:     toMarkup(kb),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send photo: %w", err)
	}
	return msg.ID, nil
}

func (b *Bot) SendAlbum(ctx context.Context, chatID int64, threadID int, photos []Album) error {
	media := make([]models.InputMedia, 0, len(photos))
	for _, p := range photos {
		media = append(media, &models.InputMediaPhoto{
			Media:     p.FileID,
			Caption:   p.Caption,
			ParseMode: models.ParseModeHTML,
		})
	}

	_, err := b.api.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID:          chatID,
		MessageThreadID: threadID,
		Media:           media,
	})
	if err != nil {
		return fmt.Errorf("failed to send album: %w", err)
	}
	return nil
}

func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb Keyboard) error {
	params := &bot.EditMessageTextParams{
		ChatID:             chatID,
		MessageID:          messageID,
		Text:               text,
		ParseMode:          models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
	}
	if markup := toMarkup(kb); markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.api.EditMessageText(ctx, params); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func (b *Bot) AnswerCallback(ctx context.Context, callbackID string, opts AnswerOpts) error {
	_, err := b.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            opts.Text,
		ShowAlert:       opts.ShowAlert,
		URL:             opts.URL,
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

func (b *Bot) ChatMemberCount(ctx context.Context, chatID int64) (int, error) {
	count, err := b.api.GetChatMemberCount(ctx, &bot.GetChatMemberCountParams{ChatID: chatID})
	if err != nil {
		return 0, fmt.Errorf("failed to get chat member count: %w", err)
	}
	return count, nil
}
