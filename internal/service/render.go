package service

import (
	"fmt"
	"strings"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
)

// Telegram hard-limits are 4096 / 1024; we keep headroom for HTML entities.
const (
	MessageLimit = 3900
	CaptionLimit = 900
)

const barSegments = 10

func escHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// Truncate cuts s to at most limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func bar(percent int) string {
	filled := percent * barSegments / 100
	if filled > barSegments {
		filled = barSegments
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", barSegments-filled)
}

// percentages splits yes/no against the member snapshot, falling back to the
// vote total when no snapshot was captured.
func percentages(yes, no, members int) (int, int) {
	base := members
	if base <= 0 {
		base = yes + no
	}
	if base <= 0 {
		return 0, 0
	}
	return yes * 100 / base, no * 100 / base
}

// FormatCard renders the live results card posted under the event.
func FormatCard(poll *domain.Poll, locked bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", escHTML(poll.QuestionRU))
	fmt.Fprintf(&b, "<b>%s</b>\n", escHTML(poll.QuestionDE))
	fmt.Fprintf(&b, "🗓 %s\n", escHTML(poll.DateLabel))

	if poll.YesCount+poll.NoCount > 0 {
		yesPct, noPct := percentages(poll.YesCount, poll.NoCount, poll.MemberCount)
		fmt.Fprintf(&b, "\n✅ Да / Ja: %d (%d%%)\n%s\n", poll.YesCount, yesPct, bar(yesPct))
		fmt.Fprintf(&b, "❌ Нет / Nein: %d (%d%%)\n%s\n", poll.NoCount, noPct, bar(noPct))
	}

	if locked {
		b.WriteString("\n🔒 Голосование закрыто / Abstimmung geschlossen")
	}
	return b.String()
}

// ResultsURL is the deep link opening the vote breakdown in a private chat.
func ResultsURL(botUsername, pollID string) string {
	return fmt.Sprintf("https://t.me/%s?start=results_%s", botUsername, pollID)
}

// CardKeyboard builds the card's inline keyboard. Once locked only the
// results link stays.
func CardKeyboard(poll *domain.Poll, botUsername string, locked bool) telegram.Keyboard {
	results := telegram.Button{
		Text: "📊 Результаты / Ergebnisse",
		URL:  ResultsURL(botUsername, poll.ID),
	}
	if locked {
		return telegram.Keyboard{{results}}
	}
	return telegram.Keyboard{
		{
			{Text: fmt.Sprintf("✅ Да / Ja (%d)", poll.YesCount), Data: "rsvp_yes_" + poll.ID},
			{Text: fmt.Sprintf("❌ Нет / Nein (%d)", poll.NoCount), Data: "rsvp_no_" + poll.ID},
		},
		{results},
	}
}
