package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/i18n"
	"github.com/seyborx-dotcom/impulse-bot/internal/service"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
	"github.com/seyborx-dotcom/impulse-bot/pkg/database"
	apperrors "github.com/seyborx-dotcom/impulse-bot/pkg/errors"
)

func langRow() []telegram.Button {
	return []telegram.Button{
		{Text: "🇷🇺 RU", Data: "lang_RU"},
		{Text: "🇺🇦 UA", Data: "lang_UA"},
		{Text: "🇩🇪 DE", Data: "lang_DE"},
	}
}

func (h *BotHandler) showMenu(ctx context.Context, user *domain.User) error {
	title := i18n.T(user.Lang, "MENU_TITLE_USER")
	if h.cfg.IsAdmin(user.ID) {
		title = i18n.T(user.Lang, "MENU_TITLE_ADMIN")
	}
	text := fmt.Sprintf("<b>%s</b>\n\n%s", title, i18n.T(user.Lang, "TXT_CHOOSE"))

	kb := telegram.Keyboard{
		{{Text: "👤 " + i18n.T(user.Lang, "BTN_PROFILE"), Data: "m_profile"}},
		{{Text: "📍 " + i18n.T(user.Lang, "BTN_POS"), Data: "m_pos"}},
		{{Text: "🏆 " + i18n.T(user.Lang, "BTN_RATING"), Data: "m_rating"}},
		{{Text: "📖 " + i18n.T(user.Lang, "BTN_RULES"), Data: "m_rules"}},
		{{Text: "📅 " + i18n.T(user.Lang, "BTN_EVENTS"), Data: "events_pro"}},
	}
	if h.cfg.IsAdmin(user.ID) {
		kb = append(kb,
			[]telegram.Button{{Text: "➕ " + i18n.T(user.Lang, "BTN_CREATE_RSVP"), Data: "a_create_rsvp"}},
			[]telegram.Button{{Text: "✅ " + i18n.T(user.Lang, "BTN_CHECKIN"), Data: "a_checkin"}},
		)
	}
	kb = append(kb, langRow())

	return h.presenter.Show(ctx, user.ID, text, kb)
}

func backRow(lang, data string) []telegram.Button {
	return []telegram.Button{{Text: "◀️ " + i18n.T(lang, "BTN_BACK"), Data: data}}
}

func (h *BotHandler) showProfile(ctx context.Context, user *domain.User) error {
	name := h.names.Resolve(ctx, user.ID)
	place, points, err := h.leaderboard.UserPlaceYear(ctx, user.ID)
	if err != nil {
		return err
	}
	level, count, err := h.leaderboard.Activity30d(ctx, user.ID)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>👤 %s</b>\n\n", i18n.T(user.Lang, "BTN_PROFILE"))
	fmt.Fprintf(&b, "%s: %s\n", i18n.T(user.Lang, "TXT_NAME"), esc(name))
	fmt.Fprintf(&b, "%s: %d\n", i18n.T(user.Lang, "TXT_POINTS"), points)
	if place > 0 {
		fmt.Fprintf(&b, "%s: %d\n", i18n.T(user.Lang, "TXT_PLACE"), place)
	}
	fmt.Fprintf(&b, "\n%s: %s (%d)",
		i18n.T3(user.Lang, "Aktivität 30 Tage", "Активність за 30 днів", "Активность за 30 дней"),
		i18n.ActivityLabel(user.Lang, level), count)

	return h.presenter.Show(ctx, user.ID, b.String(), telegram.Keyboard{backRow(user.Lang, "res_menu")})
}

func (h *BotHandler) showPosition(ctx context.Context, user *domain.User) error {
	place, points, err := h.leaderboard.UserPlaceYear(ctx, user.ID)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>📍 %s</b>\n\n", i18n.T(user.Lang, "TXT_POS_TITLE"))
	if place == 0 {
		b.WriteString(i18n.T(user.Lang, "TXT_NO_DATA"))
	} else {
		fmt.Fprintf(&b, "%s: %d\n%s: %d", i18n.T(user.Lang, "TXT_PLACE"), place,
			i18n.T(user.Lang, "TXT_POINTS"), points)
	}
	return h.presenter.Show(ctx, user.ID, b.String(), telegram.Keyboard{backRow(user.Lang, "res_menu")})
}

func (h *BotHandler) showRating(ctx context.Context, user *domain.User) error {
	totals, err := h.leaderboard.TopYear(ctx, 10)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>🏆 %s</b>\n\n", i18n.T(user.Lang, "BTN_RATING"))
	if len(totals) == 0 {
		b.WriteString(i18n.T(user.Lang, "TXT_NO_DATA"))
	}
	for i, t := range totals {
		fmt.Fprintf(&b, "%d. %s — %d\n", i+1, esc(t.Name), t.Points)
	}
	return h.presenter.Show(ctx, user.ID, b.String(), telegram.Keyboard{backRow(user.Lang, "res_menu")})
}

func (h *BotHandler) showRules(ctx context.Context, user *domain.User) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📖 %s</b>\n\n", i18n.T(user.Lang, "BTN_RULES"))
	for _, cat := range domain.Categories() {
		fmt.Fprintf(&b, "%s — %d\n", i18n.CategoryLabel(user.Lang, cat), domain.PointsForCategory(cat))
	}
	fmt.Fprintf(&b, "\n%s %d", i18n.T3(user.Lang,
		"Nicht erschienen:", "Неявка:", "Неявка:"), domain.NoShowPenalty)

	return h.presenter.Show(ctx, user.ID, b.String(), telegram.Keyboard{backRow(user.Lang, "res_menu")})
}

func (h *BotHandler) showEvents(ctx context.Context, user *domain.User, page int) error {
	polls, err := h.polls.ListActive(ctx, 100)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("<b>📅 %s</b>\n\n", i18n.T(user.Lang, "TXT_EVENTS_TITLE"))
	if len(polls) == 0 {
		text += i18n.T(user.Lang, "TXT_NO_EVENTS")
		return h.presenter.Show(ctx, user.ID, text, telegram.Keyboard{backRow(user.Lang, "evp_back_menu")})
	}
	text += i18n.T(user.Lang, "TXT_PICK_EVENT")

	page = clampPage(page, len(polls), eventsPageSize)
	start := page * eventsPageSize
	end := min(start+eventsPageSize, len(polls))

	var kb telegram.Keyboard
	for _, p := range polls[start:end] {
		label := fmt.Sprintf("%s · %s", p.DateLabel, p.QuestionRU)
		kb = append(kb, []telegram.Button{{Text: service.Truncate(label, 48), Data: "evp_open_" + p.ID}})
	}
	if nav := pageNav(page, len(polls), eventsPageSize, "evp_page_"); nav != nil {
		kb = append(kb, nav)
	}
	kb = append(kb, backRow(user.Lang, "evp_back_menu"))

	return h.presenter.Show(ctx, user.ID, text, kb)
}

func (h *BotHandler) showResultsScreen(ctx context.Context, user *domain.User, pollID string, choice domain.Choice, page int) error {
	var poll *domain.Poll
	err := database.Retry(ctx, h.log.Logger, "poll_get", func(ctx context.Context) error {
		var err error
		poll, err = h.polls.Get(ctx, pollID)
		return err
	})
	if err != nil {
		return err
	}
	if poll == nil {
		return apperrors.NewNotFoundError("poll")
	}
	var votes []*domain.Vote
	err = database.Retry(ctx, h.log.Logger, "poll_votes", func(ctx context.Context) error {
		var err error
		votes, err = h.polls.Votes(ctx, pollID)
		return err
	})
	if err != nil {
		return err
	}

	var names []string
	for _, v := range votes {
		if v.Choice == choice {
			names = append(names, v.Name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n%s\n🗓 %s\n\n", esc(poll.QuestionRU), esc(poll.QuestionDE), esc(poll.DateLabel))
	if choice == domain.ChoiceYes {
		fmt.Fprintf(&b, "✅ Да / Ja: %d\n\n", poll.YesCount)
	} else {
		fmt.Fprintf(&b, "❌ Нет / Nein: %d\n\n", poll.NoCount)
	}

	page = clampPage(page, len(names), resultsPageSize)
	start := page * resultsPageSize
	end := min(start+resultsPageSize, len(names))
	if len(names) == 0 {
		b.WriteString(i18n.T(user.Lang, "TXT_NO_DATA"))
	}
	for i, name := range names[start:end] {
		fmt.Fprintf(&b, "%d. %s\n", start+i+1, esc(name))
	}

	kb := telegram.Keyboard{{
		{Text: fmt.Sprintf("✅ (%d)", poll.YesCount), Data: fmt.Sprintf("res_%s_%s_0", poll.ID, domain.ChoiceYes)},
		{Text: fmt.Sprintf("❌ (%d)", poll.NoCount), Data: fmt.Sprintf("res_%s_%s_0", poll.ID, domain.ChoiceNo)},
	}}
	if nav := pageNav(page, len(names), resultsPageSize, fmt.Sprintf("res_%s_%s_", poll.ID, choice)); nav != nil {
		kb = append(kb, nav)
	}
	kb = append(kb, backRow(user.Lang, "res_menu"))

	return h.presenter.Show(ctx, user.ID, service.Truncate(b.String(), service.MessageLimit), kb)
}

// showWizardTopic offers the topics an admin has bound with /bindtopic, not
// the fixed category table: a custom topic is allowed and simply awards zero.
func (h *BotHandler) showWizardTopic(ctx context.Context, user *domain.User) error {
	topics, err := h.topics.List(ctx)
	if err != nil {
		return err
	}

	var kb telegram.Keyboard
	for _, t := range topics {
		if t.Key == domain.LeaderboardTopicKey {
			continue
		}
		if len(kb) == wizardTopicLimit {
			break
		}
		label := i18n.CategoryLabel(user.Lang, t.Key)
		if pts := domain.PointsForCategory(t.Key); pts > 0 {
			label = fmt.Sprintf("%s (+%d)", label, pts)
		}
		kb = append(kb, []telegram.Button{{Text: label, Data: "w_topic_" + t.Key}})
	}

	if len(kb) == 0 {
		h.wizard.Cancel(user.ID)
		text := i18n.T3(user.Lang,
			"Keine Themen gespeichert.\n\nÖffne in der Gruppe das passende Thema und schreib:\n/bindtopic бег\n/bindtopic top5",
			"Немає збережених тем.\n\nСпочатку зайди у групі в потрібну тему та напиши:\n/bindtopic бег\n/bindtopic top5",
			"Нет сохранённых тем.\n\nСначала в группе зайди в нужную тему и напиши:\n/bindtopic бег\n/bindtopic top5")
		return h.presenter.Show(ctx, user.ID, text, telegram.Keyboard{backRow(user.Lang, "res_menu")})
	}

	text := i18n.T3(user.Lang,
		"<b>Neues Event</b>\n\nSchritt 1/4: Kategorie wählen.",
		"<b>Нова подія</b>\n\nКрок 1/4: обери категорію.",
		"<b>Новое событие</b>\n\nШаг 1/4: выбери категорию.")
	kb = append(kb, []telegram.Button{{Text: i18n.T(user.Lang, "BTN_CANCEL"), Data: "w_cancel"}})
	return h.presenter.Show(ctx, user.ID, text, kb)
}

func (h *BotHandler) showWizardContent(ctx context.Context, user *domain.User) error {
	text := i18n.T3(user.Lang,
		"Schritt 2/4: Schick den Ankündigungspost.\nText, ein Foto oder ein Album (bis 10 Fotos).",
		"Крок 2/4: надішли пост-анонс.\nТекст, фото або альбом (до 10 фото).",
		"Шаг 2/4: пришли пост-анонс.\nТекст, фото или альбом (до 10 фото).")
	return h.presenter.Show(ctx, user.ID, text, cancelOnly(user.Lang))
}

func (h *BotHandler) showWizardQuestion(ctx context.Context, user *domain.User) error {
	text := i18n.T3(user.Lang,
		"Schritt 3/4: Schick die Frage in zwei Zeilen.\nZeile 1: Russisch\nZeile 2: Deutsch",
		"Крок 3/4: надішли питання двома рядками.\nРядок 1: російською\nРядок 2: німецькою",
		"Шаг 3/4: пришли вопрос двумя строками.\nСтрока 1: по-русски\nСтрока 2: по-немецки")
	return h.presenter.Show(ctx, user.ID, text, cancelOnly(user.Lang))
}

func (h *BotHandler) showWizardDate(ctx context.Context, user *domain.User) error {
	text := i18n.T3(user.Lang,
		"Schritt 4/4: Schick das Datum, z. B. 07.09.2026 18:00.",
		"Крок 4/4: надішли дату, напр. 07.09.2026 18:00.",
		"Шаг 4/4: пришли дату, напр. 07.09.2026 18:00.")
	return h.presenter.Show(ctx, user.ID, text, cancelOnly(user.Lang))
}

func (h *BotHandler) showWizardConfirm(ctx context.Context, user *domain.User) error {
	draft, ok := h.wizard.Draft(user.ID)
	if !ok {
		return apperrors.NewValidationError("no wizard open")
	}

	var b strings.Builder
	b.WriteString(i18n.T3(user.Lang, "<b>Prüfen und posten?</b>\n\n",
		"<b>Перевір і публікуємо?</b>\n\n", "<b>Проверь и публикуем?</b>\n\n"))
	fmt.Fprintf(&b, "📂 %s\n", i18n.CategoryLabel(user.Lang, draft.TopicKey))
	fmt.Fprintf(&b, "🗓 %s\n", esc(draft.DateLabel))
	fmt.Fprintf(&b, "❓ %s / %s\n", esc(draft.QuestionRU), esc(draft.QuestionDE))
	if n := len(draft.Media); n > 0 {
		fmt.Fprintf(&b, "🖼 %d\n", n)
	}
	if draft.PostText != "" {
		fmt.Fprintf(&b, "\n%s", esc(service.Truncate(draft.PostText, 500)))
	}

	kb := telegram.Keyboard{
		{{Text: "🚀 OK", Data: "w_publish"}},
		{{Text: i18n.T(user.Lang, "BTN_CANCEL"), Data: "w_cancel"}},
	}
	return h.presenter.Show(ctx, user.ID, b.String(), kb)
}

func (h *BotHandler) showWizardDone(ctx context.Context, user *domain.User, poll *domain.Poll) error {
	text := i18n.T3(user.Lang,
		"✅ Gepostet!", "✅ Опубліковано!", "✅ Опубликовано!") +
		fmt.Sprintf("\n🗓 %s", esc(poll.DateLabel))
	kb := telegram.Keyboard{{{Text: i18n.T(user.Lang, "BTN_MENU"), Data: "res_menu"}}}
	return h.presenter.Show(ctx, user.ID, text, kb)
}

func cancelOnly(lang string) telegram.Keyboard {
	return telegram.Keyboard{{{Text: i18n.T(lang, "BTN_CANCEL"), Data: "w_cancel"}}}
}

func (h *BotHandler) showCheckinPicker(ctx context.Context, user *domain.User, page int) error {
	polls, err := h.checkin.PickerPolls(ctx, 100)
	if err != nil {
		return err
	}

	text := i18n.T3(user.Lang,
		"<b>Anwesenheit</b>\n\nWähle das Event:",
		"<b>Відмітка присутніх</b>\n\nОбери подію:",
		"<b>Отметка пришедших</b>\n\nВыбери событие:")
	if len(polls) == 0 {
		return h.presenter.Show(ctx, user.ID,
			text+"\n\n"+i18n.T(user.Lang, "TXT_NO_EVENTS"),
			telegram.Keyboard{backRow(user.Lang, "ci_back_menu")})
	}

	page = clampPage(page, len(polls), pickerPageSize)
	start := page * pickerPageSize
	end := min(start+pickerPageSize, len(polls))

	var kb telegram.Keyboard
	for _, p := range polls[start:end] {
		label := fmt.Sprintf("%s · %s", p.DateLabel, p.QuestionRU)
		if p.CheckinClosed {
			label = "✔️ " + label
		}
		kb = append(kb, []telegram.Button{{Text: service.Truncate(label, 48), Data: "ci_pick_" + p.ID}})
	}
	if nav := pageNav(page, len(polls), pickerPageSize, "ci_page_"); nav != nil {
		kb = append(kb, nav)
	}
	kb = append(kb, backRow(user.Lang, "ci_back_menu"))

	return h.presenter.Show(ctx, user.ID, text, kb)
}

func (h *BotHandler) showCheckinPeople(ctx context.Context, user *domain.User, pollID string, page int) error {
	session := h.checkin.Session(user.ID)
	if session == nil || session.PollID != pollID {
		session = h.checkin.Start(user.ID, pollID)
	}

	roster, err := h.checkin.Roster(ctx, pollID)
	if err != nil {
		return err
	}

	marked := 0
	for _, v := range roster {
		if session.Present[v.UserID] {
			marked++
		}
	}

	text := i18n.T3(user.Lang,
		"<b>Wer ist gekommen?</b>", "<b>Хто прийшов?</b>", "<b>Кто пришёл?</b>") +
		fmt.Sprintf("\n\n%d / %d", marked, len(roster))

	page = clampPage(page, len(roster), peoplePageSize)
	start := page * peoplePageSize
	end := min(start+peoplePageSize, len(roster))

	var kb telegram.Keyboard
	for _, v := range roster[start:end] {
		mark := "⬜"
		if session.Present[v.UserID] {
			mark = "✅"
		}
		kb = append(kb, []telegram.Button{{
			Text: fmt.Sprintf("%s %s", mark, service.Truncate(v.Name, 40)),
			Data: fmt.Sprintf("ci_t_%s_%d_%d", pollID, v.UserID, page),
		}})
	}
	if nav := pageNavPrefix(page, len(roster), peoplePageSize, func(p int) string {
		return fmt.Sprintf("ci_people_%s_%d", pollID, p)
	}); nav != nil {
		kb = append(kb, nav)
	}
	kb = append(kb, []telegram.Button{
		{Text: "✅✅", Data: fmt.Sprintf("ci_all_%s_%d", pollID, page)},
		{Text: "⬜⬜", Data: fmt.Sprintf("ci_none_%s_%d", pollID, page)},
	})
	kb = append(kb, []telegram.Button{{
		Text: i18n.T3(user.Lang, "Fertig", "Готово", "Готово"),
		Data: "ci_done_" + pollID,
	}})
	kb = append(kb, backRow(user.Lang, "a_checkin"))

	return h.presenter.Show(ctx, user.ID, text, kb)
}

func (h *BotHandler) showCheckinSummary(ctx context.Context, user *domain.User, summary *domain.CheckinSummary) error {
	var b strings.Builder
	if summary.Already {
		b.WriteString(i18n.T3(user.Lang,
			"ℹ️ Dieses Event wurde schon abgerechnet.\n\n",
			"ℹ️ Цю подію вже закрито.\n\n",
			"ℹ️ Это событие уже было закрыто.\n\n"))
	} else {
		b.WriteString(i18n.T3(user.Lang, "✅ Abgerechnet!\n\n", "✅ Закрито!\n\n", "✅ Закрыто!\n\n"))
	}
	fmt.Fprintf(&b, "👥 %d\n", summary.Yes)
	fmt.Fprintf(&b, "✅ %d (+%d)\n", summary.Arrived, summary.Award)
	fmt.Fprintf(&b, "🚫 %d (%d)", summary.NoShow, summary.Penalty)

	kb := telegram.Keyboard{{{Text: i18n.T(user.Lang, "BTN_MENU"), Data: "res_menu"}}}
	return h.presenter.Show(ctx, user.ID, b.String(), kb)
}

func esc(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func clampPage(page, total, size int) int {
	if page < 0 {
		return 0
	}
	last := 0
	if total > 0 {
		last = (total - 1) / size
	}
	if page > last {
		return last
	}
	return page
}

func pageNav(page, total, size int, prefix string) []telegram.Button {
	return pageNavPrefix(page, total, size, func(p int) string {
		return fmt.Sprintf("%s%d", prefix, p)
	})
}

func pageNavPrefix(page, total, size int, data func(int) string) []telegram.Button {
	if total <= size {
		return nil
	}
	last := (total - 1) / size
	var row []telegram.Button
	if page > 0 {
		row = append(row, telegram.Button{Text: "⬅️", Data: data(page - 1)})
	}
	row = append(row, telegram.Button{Text: fmt.Sprintf("%d/%d", page+1, last+1), Data: "noop"})
	if page < last {
		row = append(row, telegram.Button{Text: "➡️", Data: data(page + 1)})
	}
	return row
}
