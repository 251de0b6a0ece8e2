package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/i18n"
	"github.com/seyborx-dotcom/impulse-bot/internal/service"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
)

// HandleMessage processes an incoming message: commands everywhere, wizard
// input in the private chat.
func (h *BotHandler) HandleMessage(ctx context.Context, msg *telegram.IncomingMessage) {
	if msg.From.ID == 0 {
		return
	}
	user := h.ensureUser(ctx, msg.From)

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, msg, user, text)
		return
	}

	if msg.IsPrivate && h.cfg.IsAdmin(user.ID) {
		h.handleWizardInput(ctx, msg, user)
	}
}

func (h *BotHandler) handleCommand(ctx context.Context, msg *telegram.IncomingMessage, user *domain.User, text string) {
	fields := strings.Fields(text)
	cmd := strings.ToLower(strings.TrimSuffix(fields[0], "@"+h.cfg.BotUsername))
	args := fields[1:]

	var err error
	switch cmd {
	case "/start":
		err = h.onStart(ctx, msg, user, args)
	case "/menu":
		if msg.IsPrivate {
			err = h.showMenu(ctx, user)
		}
	case "/bindtopic":
		err = h.onBindTopic(ctx, msg, user, args)
	case "/setname":
		err = h.onSetName(ctx, msg, user, args)
	case "/test_monthly":
		if msg.IsPrivate && h.cfg.IsAdmin(user.ID) {
			err = h.leaderboard.PostMonthlyTop5IfNeeded(ctx, true)
		}
	case "/test_year":
		if msg.IsPrivate && h.cfg.IsAdmin(user.ID) {
			err = h.leaderboard.PostYearWinnerIfNeeded(ctx, true)
		}
	case "/set_month_photo":
		err = h.onSetPhoto(ctx, msg, user, h.botConfig.SetMonthPhoto)
	case "/set_month_empty_photo":
		err = h.onSetPhoto(ctx, msg, user, h.botConfig.SetMonthEmptyPhoto)
	case "/set_year_photo":
		err = h.onSetPhoto(ctx, msg, user, h.botConfig.SetYearPhoto)
	}

	if err != nil {
		h.log.WithError(err).WithFields(map[string]interface{}{
			"user_id": user.ID,
			"command": cmd,
		}).Error("command failed")
		h.notify(ctx, user.ID, i18n.T(user.Lang, "ERR_GENERIC"))
	}
}

func (h *BotHandler) onStart(ctx context.Context, msg *telegram.IncomingMessage, user *domain.User, args []string) error {
	if !msg.IsPrivate {
		return nil
	}
	if len(args) == 1 && strings.HasPrefix(args[0], "results_") {
		pollID := strings.TrimPrefix(args[0], "results_")
		return h.showResultsScreen(ctx, user, pollID, domain.ChoiceYes, 0)
	}
	return h.showMenu(ctx, user)
}

// onBindTopic is run inside the forum topic it should bind, for example
// "/bindtopic бег" or "/bindtopic top5".
func (h *BotHandler) onBindTopic(ctx context.Context, msg *telegram.IncomingMessage, user *domain.User, args []string) error {
	if !h.cfg.IsAdmin(user.ID) || msg.IsPrivate {
		return nil
	}
	if len(args) == 0 {
		h.notify(ctx, msg.ChatID, "Usage: /bindtopic <category|top5>")
		return nil
	}

	key := args[0]
	if key != domain.LeaderboardTopicKey {
		key = domain.NormalizeCategory(key)
	}
	if err := h.topics.Save(ctx, &domain.Topic{
		Key:      key,
		ChatID:   msg.ChatID,
		ThreadID: msg.ThreadID,
	}); err != nil {
		return err
	}
	if err := h.botConfig.SetGroupChatID(ctx, msg.ChatID); err != nil {
		return err
	}

	if _, err := h.msg.SendMessage(ctx, msg.ChatID, msg.ThreadID,
		"🔗 "+key, nil); err != nil {
		h.log.WithError(err).Debug("failed to confirm topic binding")
	}
	return nil
}

// onSetName sets the admin override shown on cards and leaderboards:
// "/setname <user_id> <name>".
func (h *BotHandler) onSetName(ctx context.Context, msg *telegram.IncomingMessage, user *domain.User, args []string) error {
	if !h.cfg.IsAdmin(user.ID) || !msg.IsPrivate {
		return nil
	}
	if len(args) < 2 {
		h.notify(ctx, user.ID, "Usage: /setname <user_id> <name>")
		return nil
	}

	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.notify(ctx, user.ID, "Usage: /setname <user_id> <name>")
		return nil
	}
	name := strings.Join(args[1:], " ")

	if err := h.users.SetDisplayName(ctx, targetID, name); err != nil {
		return err
	}
	h.names.Invalidate(ctx, targetID)
	h.notify(ctx, user.ID, "✅ "+name)
	return nil
}

// onSetPhoto stores the photo attached to a caption command like
// "/set_month_photo" for later announcements.
func (h *BotHandler) onSetPhoto(ctx context.Context, msg *telegram.IncomingMessage, user *domain.User, set func(context.Context, string) error) error {
	if !h.cfg.IsAdmin(user.ID) || !msg.IsPrivate {
		return nil
	}
	if msg.PhotoFileID == "" {
		h.notify(ctx, user.ID, "📷?")
		return nil
	}
	if err := set(ctx, msg.PhotoFileID); err != nil {
		return err
	}
	h.notify(ctx, user.ID, "✅")
	return nil
}

func (h *BotHandler) handleWizardInput(ctx context.Context, msg *telegram.IncomingMessage, user *domain.User) {
	var err error
	switch h.wizard.Step(user.ID) {
	case service.StepContent:
		err = h.wizard.HandleContent(user.ID, msg, func() {
			if showErr := h.showWizardQuestion(context.WithoutCancel(ctx), user); showErr != nil {
				h.log.WithError(showErr).Warn("failed to show question prompt")
			}
		})
	case service.StepQuestion:
		if err = h.wizard.SetQuestion(user.ID, msg.Text); err == nil {
			err = h.showWizardDate(ctx, user)
		} else {
			// Wrong shape, ask again.
			err = h.showWizardQuestion(ctx, user)
		}
	case service.StepDate:
		if err = h.wizard.SetDate(user.ID, msg.Text); err == nil {
			err = h.showWizardConfirm(ctx, user)
		}
	default:
		return
	}

	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Warn("wizard input rejected")
	}
}

func (h *BotHandler) notify(ctx context.Context, chatID int64, text string) {
	if _, err := h.msg.SendMessage(ctx, chatID, 0, text, nil); err != nil {
		h.log.WithError(err).Debug("failed to send notice")
	}
}
