// Package telegram wraps the Bot API behind a small transport-neutral
// surface so the rest of the code never touches wire types directly.
package telegram

import "context"

// Button is one inline keyboard button. Exactly one of Data or URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is an inline keyboard, rows of buttons.
type Keyboard [][]Button

// User identifies the Telegram account behind a message or callback.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Lang      string
}

// IncomingMessage is a received message reduced to the fields we act on.
type IncomingMessage struct {
	ChatID       int64
	ThreadID     int
	MessageID    int
	From         User
	Text         string
	Caption      string
	PhotoFileID  string
	MediaGroupID string
	IsPrivate    bool
}

// Callback is a pressed inline button.
type Callback struct {
	ID        string
	From      User
	ChatID    int64
	MessageID int
	Data      string
	// Inaccessible is set when Telegram no longer exposes the message the
	// button lives on. The screen cannot be edited in place then.
	Inaccessible bool
}

// AnswerOpts configures the callback acknowledgement toast.
type AnswerOpts struct {
	Text      string
	ShowAlert bool
	URL       string
}

// Album is one photo of a media group message.
type Album struct {
	FileID  string
	Caption string
}

// Messenger is the outbound Bot API surface used by services and handlers.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, threadID int, text string, kb Keyboard) (int, error)
	SendPhoto(ctx context.Context, chatID int64, threadID int, fileID, caption string, kb Keyboard) (int, error)
	SendAlbum(ctx context.Context, chatID int64, threadID int, photos []Album) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb Keyboard) error
	AnswerCallback(ctx context.Context, callbackID string, opts AnswerOpts) error
	ChatMemberCount(ctx context.Context, chatID int64) (int, error)
}

// UpdateHandler receives inbound traffic from the long-poll loop.
type UpdateHandler interface {
	HandleMessage(ctx context.Context, msg *IncomingMessage)
	HandleCallback(ctx context.Context, cb *Callback)
}
