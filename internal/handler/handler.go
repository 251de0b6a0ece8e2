// Package handler routes Telegram updates to the services and renders the
// private single-screen UI.
package handler

import (
	"context"
	"sync"

	"github.com/seyborx-dotcom/impulse-bot/internal/config"
	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/i18n"
	"github.com/seyborx-dotcom/impulse-bot/internal/repository"
	"github.com/seyborx-dotcom/impulse-bot/internal/service"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
	apperrors "github.com/seyborx-dotcom/impulse-bot/pkg/errors"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

// Page sizes of the private screens.
const (
	eventsPageSize  = 5
	pickerPageSize  = 6
	peoplePageSize  = 8
	resultsPageSize = 20
)

// wizardTopicLimit caps how many bound topics the wizard offers.
const wizardTopicLimit = 20

// BotHandler is the single entry point for inbound Telegram traffic.
type BotHandler struct {
	cfg         *config.Config
	msg         telegram.Messenger
	presenter   *service.Presenter
	pollSvc     service.PollService
	checkin     *service.CheckinService
	wizard      *service.WizardService
	leaderboard *service.LeaderboardService
	names       service.NameResolver
	users       repository.UserRepository
	topics      repository.TopicRepository
	polls       repository.PollRepository
	botConfig   repository.ConfigRepository
	log         *logger.Logger

	busyMu sync.Mutex
	busy   map[int64]bool
}

// NewBotHandler wires the update router
func NewBotHandler(
	cfg *config.Config,
	msg telegram.Messenger,
	presenter *service.Presenter,
	pollSvc service.PollService,
	checkin *service.CheckinService,
	wizard *service.WizardService,
	leaderboard *service.LeaderboardService,
	names service.NameResolver,
	users repository.UserRepository,
	topics repository.TopicRepository,
	polls repository.PollRepository,
	botConfig repository.ConfigRepository,
	log *logger.Logger,
) *BotHandler {
	return &BotHandler{
		cfg:         cfg,
		msg:         msg,
		presenter:   presenter,
		pollSvc:     pollSvc,
		checkin:     checkin,
		wizard:      wizard,
		leaderboard: leaderboard,
		names:       names,
		users:       users,
		topics:      topics,
		polls:       polls,
		botConfig:   botConfig,
		log:         log,
		busy:        make(map[int64]bool),
	}
}

// acquire claims the per-user busy flag. Concurrent taps are dropped so a
// slow screen render cannot interleave with the next one.
func (h *BotHandler) acquire(userID int64) bool {
	h.busyMu.Lock()
	defer h.busyMu.Unlock()
	if h.busy[userID] {
		return false
	}
	h.busy[userID] = true
	return true
}

func (h *BotHandler) release(userID int64) {
	h.busyMu.Lock()
	defer h.busyMu.Unlock()
	delete(h.busy, userID)
}

func (h *BotHandler) ensureUser(ctx context.Context, from telegram.User) *domain.User {
	user, err := h.users.Ensure(ctx, &domain.User{
		ID:        from.ID,
		Lang:      from.Lang,
		FirstName: from.FirstName,
		LastName:  from.LastName,
		Username:  from.Username,
	})
	if err != nil {
		h.log.WithError(err).WithField("user_id", from.ID).Error("failed to ensure user")
		return &domain.User{ID: from.ID, Lang: domain.NormalizeLang(from.Lang)}
	}
	return user
}

// HandleCallback processes a pressed inline button.
func (h *BotHandler) HandleCallback(ctx context.Context, cb *telegram.Callback) {
	if !h.acquire(cb.From.ID) {
		h.answer(ctx, cb.ID, telegram.AnswerOpts{})
		return
	}
	defer h.release(cb.From.ID)

	user := h.ensureUser(ctx, cb.From)
	cmd := ParseCallback(cb.Data)

	switch cmd.Kind {
	case CmdVoteYes, CmdVoteNo:
		h.onVote(ctx, cb, user, cmd)
		return
	case CmdResults:
		// Group button: deep-link into the private results screen.
		h.answer(ctx, cb.ID, telegram.AnswerOpts{
			URL: service.ResultsURL(h.cfg.BotUsername, cmd.PollID),
		})
		return
	case CmdNoop, CmdUnknown:
		h.answer(ctx, cb.ID, telegram.AnswerOpts{})
		return
	}

	if cb.Inaccessible {
		h.answer(ctx, cb.ID, telegram.AnswerOpts{Text: i18n.T(user.Lang, "TXT_OLD_MSG"), ShowAlert: true})
		return
	}

	if isAdminCommand(cmd.Kind) && !h.cfg.IsAdmin(user.ID) {
		h.answer(ctx, cb.ID, telegram.AnswerOpts{Text: i18n.T(user.Lang, "TXT_NO_ACCESS"), ShowAlert: true})
		return
	}

	var err error
	switch cmd.Kind {
	case CmdLang:
		err = h.onLang(ctx, user, cmd.Lang)
	case CmdBackToMenu:
		err = h.showMenu(ctx, user)
	case CmdMenuProfile:
		err = h.showProfile(ctx, user)
	case CmdMenuPosition:
		err = h.showPosition(ctx, user)
	case CmdMenuRating:
		err = h.showRating(ctx, user)
	case CmdMenuRules:
		err = h.showRules(ctx, user)
	case CmdMenuEvents:
		err = h.showEvents(ctx, user, 0)
	case CmdEventsPage:
		err = h.showEvents(ctx, user, cmd.Page)
	case CmdEventOpen:
		err = h.showResultsScreen(ctx, user, cmd.PollID, domain.ChoiceYes, 0)
	case CmdResultsPage:
		err = h.showResultsScreen(ctx, user, cmd.PollID, cmd.Choice, cmd.Page)
	case CmdCreatePoll:
		h.wizard.Start(user.ID)
		err = h.showWizardTopic(ctx, user)
	case CmdWizardTopic:
		if err = h.wizard.SetTopic(user.ID, cmd.Topic); err == nil {
			err = h.showWizardContent(ctx, user)
		}
	case CmdWizardCancel:
		h.wizard.Cancel(user.ID)
		err = h.showMenu(ctx, user)
	case CmdWizardPublish:
		err = h.onWizardPublish(ctx, user)
	case CmdCheckin:
		err = h.showCheckinPicker(ctx, user, 0)
	case CmdCheckinPage:
		err = h.showCheckinPicker(ctx, user, cmd.Page)
	case CmdCheckinPick:
		h.checkin.Start(user.ID, cmd.PollID)
		err = h.showCheckinPeople(ctx, user, cmd.PollID, 0)
	case CmdCheckinPeople:
		err = h.showCheckinPeople(ctx, user, cmd.PollID, cmd.Page)
	case CmdCheckinToggle:
		if session := h.checkin.Session(user.ID); session != nil && session.PollID == cmd.PollID {
			session.Toggle(cmd.UserID)
		}
		err = h.showCheckinPeople(ctx, user, cmd.PollID, cmd.Page)
	case CmdCheckinAll:
		err = h.onCheckinMarkAll(ctx, user, cmd, true)
	case CmdCheckinNone:
		err = h.onCheckinMarkAll(ctx, user, cmd, false)
	case CmdCheckinDone:
		err = h.onCheckinDone(ctx, user)
	}

	if err != nil {
		if apperrors.IsNotFound(err) {
			h.answer(ctx, cb.ID, telegram.AnswerOpts{Text: i18n.T(user.Lang, "TXT_NO_EVENTS"), ShowAlert: true})
			return
		}
		h.log.WithError(err).WithFields(map[string]interface{}{
			"user_id": user.ID,
			"data":    cb.Data,
		}).Error("callback failed")
		h.answer(ctx, cb.ID, telegram.AnswerOpts{Text: i18n.T(user.Lang, "ERR_GENERIC"), ShowAlert: true})
		return
	}
	h.answer(ctx, cb.ID, telegram.AnswerOpts{})
}

func isAdminCommand(kind CommandKind) bool {
	switch kind {
	case CmdCreatePoll, CmdWizardTopic, CmdWizardCancel, CmdWizardPublish,
		CmdCheckin, CmdCheckinPage, CmdCheckinPick, CmdCheckinPeople,
		CmdCheckinToggle, CmdCheckinAll, CmdCheckinNone, CmdCheckinDone:
		return true
	}
	return false
}

func (h *BotHandler) answer(ctx context.Context, callbackID string, opts telegram.AnswerOpts) {
	if err := h.msg.AnswerCallback(ctx, callbackID, opts); err != nil {
		h.log.WithError(err).Debug("failed to answer callback")
	}
}

func (h *BotHandler) onVote(ctx context.Context, cb *telegram.Callback, user *domain.User, cmd Command) {
	name := h.names.Resolve(ctx, user.ID)

	_, accepted, err := h.pollSvc.CastVote(ctx, cmd.PollID, user.ID, name, cmd.Choice)
	if err != nil {
		h.log.WithError(err).WithField("poll_id", cmd.PollID).Error("vote failed")
		h.answer(ctx, cb.ID, telegram.AnswerOpts{Text: i18n.T(user.Lang, "ERR_GENERIC"), ShowAlert: true})
		return
	}
	if !accepted {
		h.answer(ctx, cb.ID, telegram.AnswerOpts{Text: i18n.T(user.Lang, "TXT_VOTE_CLOSED"), ShowAlert: true})
		return
	}

	toast := "✅ Да / Ja"
	if cmd.Choice == domain.ChoiceNo {
		toast = "❌ Нет / Nein"
	}
	h.answer(ctx, cb.ID, telegram.AnswerOpts{Text: toast})
}

func (h *BotHandler) onLang(ctx context.Context, user *domain.User, lang string) error {
	if err := h.users.SetLang(ctx, user.ID, lang); err != nil {
		return err
	}
	user.Lang = lang
	return h.showMenu(ctx, user)
}

func (h *BotHandler) onCheckinMarkAll(ctx context.Context, user *domain.User, cmd Command, present bool) error {
	session := h.checkin.Session(user.ID)
	if session != nil && session.PollID == cmd.PollID {
		roster, err := h.checkin.Roster(ctx, cmd.PollID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(roster))
		for _, v := range roster {
			ids = append(ids, v.UserID)
		}
		if present {
			session.MarkAll(ids)
		} else {
			session.MarkNone()
		}
	}
	return h.showCheckinPeople(ctx, user, cmd.PollID, cmd.Page)
}

func (h *BotHandler) onWizardPublish(ctx context.Context, user *domain.User) error {
	poll, err := h.wizard.Publish(ctx, user.ID)
	if err != nil {
		return err
	}
	return h.showWizardDone(ctx, user, poll)
}

func (h *BotHandler) onCheckinDone(ctx context.Context, user *domain.User) error {
	summary, err := h.checkin.Close(ctx, user.ID)
	if err != nil {
		return err
	}
	return h.showCheckinSummary(ctx, user, summary)
}
