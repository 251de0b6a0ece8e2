package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

func testPoll() *domain.Poll {
	return &domain.Poll{
		ID:          "p1",
		QuestionRU:  "Бежим в субботу?",
		QuestionDE:  "Laufen am Samstag?",
		DateLabel:   "21.02.2026 10:00",
		MemberCount: 100,
	}
}

func TestFormatCardNoVotes(t *testing.T) {
	card := FormatCard(testPoll(), false)

	assert.Contains(t, card, "Бежим в субботу?")
	assert.Contains(t, card, "Laufen am Samstag?")
	assert.Contains(t, card, "🗓 21.02.2026 10:00")
	assert.NotContains(t, card, "▰", "bars appear only once someone voted")
	assert.NotContains(t, card, "▱")
}

func TestFormatCardWithVotes(t *testing.T) {
	poll := testPoll()
	poll.YesCount = 30
	poll.NoCount = 10

	card := FormatCard(poll, false)

	assert.Contains(t, card, "✅ Да / Ja: 30 (30%)")
	assert.Contains(t, card, "❌ Нет / Nein: 10 (10%)")
	assert.Contains(t, card, "▰▰▰▱▱▱▱▱▱▱")
	assert.NotContains(t, card, "🔒")
}

func TestFormatCardFallsBackToVoteTotal(t *testing.T) {
	poll := testPoll()
	poll.MemberCount = 0
	poll.YesCount = 3
	poll.NoCount = 1

	card := FormatCard(poll, false)

	assert.Contains(t, card, "(75%)")
	assert.Contains(t, card, "(25%)")
}

func TestFormatCardLocked(t *testing.T) {
	card := FormatCard(testPoll(), true)
	assert.Contains(t, card, "🔒")
}

func TestFormatCardEscapesHTML(t *testing.T) {
	poll := testPoll()
	poll.QuestionRU = "a < b & c"

	card := FormatCard(poll, false)
	assert.Contains(t, card, "a &lt; b &amp; c")
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("▱", 10), bar(0))
	assert.Equal(t, strings.Repeat("▰", 10), bar(100))
	assert.Equal(t, "▰▰▰▰▰▱▱▱▱▱", bar(50))
	assert.Equal(t, "▱▱▱▱▱▱▱▱▱▱", bar(9), "percentages round down to whole segments")
}

func TestCardKeyboard(t *testing.T) {
	poll := testPoll()
	poll.YesCount = 4
	poll.NoCount = 2

	kb := CardKeyboard(poll, "impulseTop5Bot", false)
	assert.Len(t, kb, 2)
	assert.Equal(t, "rsvp_yes_p1", kb[0][0].Data)
	assert.Contains(t, kb[0][0].Text, "(4)")
	assert.Equal(t, "rsvp_no_p1", kb[0][1].Data)
	assert.Contains(t, kb[0][1].Text, "(2)")
	assert.Equal(t, "https://t.me/impulseTop5Bot?start=results_p1", kb[1][0].URL)
}

func TestCardKeyboardLocked(t *testing.T) {
	kb := CardKeyboard(testPoll(), "impulseTop5Bot", true)

	assert.Len(t, kb, 1, "only the results link survives the lock")
	assert.Empty(t, kb[0][0].Data)
	assert.NotEmpty(t, kb[0][0].URL)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	long := strings.Repeat("я", 20)
	got := Truncate(long, 10)
	assert.Equal(t, 10, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
