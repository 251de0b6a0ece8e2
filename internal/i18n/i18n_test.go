package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

func TestTFallsBackToRussian(t *testing.T) {
	assert.Equal(t, "Меню", T(domain.LangRU, "MENU_TITLE_USER"))
	assert.Equal(t, "Menü", T(domain.LangDE, "MENU_TITLE_USER"))
	assert.Equal(t, "Меню", T("XX", "MENU_TITLE_USER"), "unknown language uses RU")
	assert.Equal(t, "NO_SUCH_KEY", T(domain.LangRU, "NO_SUCH_KEY"), "unknown key echoes itself")
}

func TestEveryKeyExistsInEveryLanguage(t *testing.T) {
	for key := range dict[domain.LangRU] {
		for _, lang := range []string{domain.LangUA, domain.LangDE} {
			assert.Contains(t, dict[lang], key, "%s missing in %s", key, lang)
		}
	}
}

func TestT3(t *testing.T) {
	assert.Equal(t, "de", T3(domain.LangDE, "de", "ua", "ru"))
	assert.Equal(t, "ua", T3(domain.LangUA, "de", "ua", "ru"))
	assert.Equal(t, "ru", T3(domain.LangRU, "de", "ua", "ru"))
	assert.Equal(t, "ru", T3("", "de", "ua", "ru"))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Бег", CategoryLabel(domain.LangRU, "бег"))
	assert.Equal(t, "Laufen", CategoryLabel(domain.LangDE, "БЕГ"), "keys are normalized first")
	assert.Equal(t, "Radfahren", CategoryLabel(domain.LangDE, "велозаезд"))
	assert.Equal(t, "шахматы", CategoryLabel(domain.LangRU, "шахматы"), "unknown keys pass through")
	assert.Equal(t, "—", CategoryLabel(domain.LangRU, ""))
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "Январь", MonthNameRU(1))
	assert.Equal(t, "Декабрь", MonthNameRU(12))
	assert.Equal(t, "Dezember", MonthNameDE(12))
	assert.Empty(t, MonthNameRU(0))
	assert.Empty(t, MonthNameDE(13))
}
