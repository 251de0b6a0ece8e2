// Package i18n holds the fixed RU/UA/DE string tables for the private UI.
// Group-facing poll cards are bilingual by content and do not go through it.
package i18n

import (
	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

var dict = map[string]map[string]string{
	domain.LangRU: {
		"MENU_TITLE_ADMIN": "Меню (админ)",
		"MENU_TITLE_USER":  "Меню",
		"BTN_PROFILE":      "Мой профиль",
		"BTN_POS":          "Моя позиция",
		"BTN_RATING":       "Общий рейтинг",
		"BTN_RULES":        "Система баллов",
		"BTN_EVENTS":       "Все события",
		"BTN_CREATE_RSVP":  "Создать событие",
		"BTN_CHECKIN":      "Отметить пришедших",
		"BTN_BACK":         "Назад",
		"BTN_CANCEL":       "Отмена",
		"BTN_MENU":         "Меню",
		"TXT_LANG":         "Язык",
		"TXT_CHOOSE":       "Выбери действие:",
		"TXT_NO_ACCESS":    "⛔️ Нет доступа.",
		"TXT_OPEN_PM":      "Открываю личку бота…",
		"TXT_OLD_MSG":      "Сообщение слишком старое, Telegram не даёт редактировать.",
		"TXT_POS_TITLE":    "Твоя позиция",
		"TXT_NAME":         "Имя",
		"TXT_PLACE":        "Место",
		"TXT_POINTS":       "Баллы",
		"TXT_EVENTS_TITLE": "EVENTS / События",
		"TXT_PICK_EVENT":   "Выберите событие:",
		"TXT_NO_EVENTS":    "Событий пока нет.",
		"TXT_VOTE_CLOSED":  "С сегодняшнего дня голосование закрыто.",
		"TXT_NO_DATA":      "Пока нет данных.",
		"ERR_GENERIC":      "Ошибка. Попробуй ещё раз.",
	},
	domain.LangUA: {
		"MENU_TITLE_ADMIN": "Меню (адмін)",
		"MENU_TITLE_USER":  "Меню",
		"BTN_PROFILE":      "Мій профіль",
		"BTN_POS":          "Моя позиція",
		"BTN_RATING":       "Загальний рейтинг",
		"BTN_RULES":        "Система балів",
		"BTN_EVENTS":       "Усі події",
		"BTN_CREATE_RSVP":  "Створити подію",
		"BTN_CHECKIN":      "Відмітити присутніх",
		"BTN_BACK":         "Назад",
		"BTN_CANCEL":       "Скасувати",
		"BTN_MENU":         "Меню",
		"TXT_LANG":         "Мова",
		"TXT_CHOOSE":       "Обери дію:",
		"TXT_NO_ACCESS":    "⛔️ Немає доступу.",
		"TXT_OPEN_PM":      "Відкриваю приватний чат…",
		"TXT_OLD_MSG":      "Повідомлення занадто старе — Telegram не дає редагувати.",
		"TXT_POS_TITLE":    "Твоя позиція",
		"TXT_NAME":         "Ім'я",
		"TXT_PLACE":        "Місце",
		"TXT_POINTS":       "Бали",
		"TXT_EVENTS_TITLE": "ПОДІЇ / Events",
		"TXT_PICK_EVENT":   "Оберіть подію:",
		"TXT_NO_EVENTS":    "Подій поки немає.",
		"TXT_VOTE_CLOSED":  "Від сьогодні голосування закрите.",
		"TXT_NO_DATA":      "Поки немає даних.",
		"ERR_GENERIC":      "Помилка. Спробуй ще раз.",
	},
	domain.LangDE: {
		"MENU_TITLE_ADMIN": "Menü (Admin)",
		"MENU_TITLE_USER":  "Menü",
		"BTN_PROFILE":      "Mein Profil",
		"BTN_POS":          "Meine Position",
		"BTN_RATING":       "Gesamtranking",
		"BTN_RULES":        "Punktesystem",
		"BTN_EVENTS":       "Alle Events",
		"BTN_CREATE_RSVP":  "Event erstellen",
		"BTN_CHECKIN":      "Anwesenheit",
		"BTN_BACK":         "Zurück",
		"BTN_CANCEL":       "Abbrechen",
		"BTN_MENU":         "Menü",
		"TXT_LANG":         "Sprache",
		"TXT_CHOOSE":       "Wähle eine Aktion:",
		"TXT_NO_ACCESS":    "⛔️ Kein Zugriff.",
		"TXT_OPEN_PM":      "Ich öffne den Bot-Chat…",
		"TXT_OLD_MSG":      "Die Nachricht ist zu alt — Telegram lässt kein Edit mehr zu.",
		"TXT_POS_TITLE":    "Deine Position",
		"TXT_NAME":         "Name",
		"TXT_PLACE":        "Platz",
		"TXT_POINTS":       "Punkte",
		"TXT_EVENTS_TITLE": "EVENTS / Ereignisse",
		"TXT_PICK_EVENT":   "Wähle ein Event:",
		"TXT_NO_EVENTS":    "Noch keine Events.",
		"TXT_VOTE_CLOSED":  "Ab heute ist die Abstimmung geschlossen.",
		"TXT_NO_DATA":      "Noch keine Daten.",
		"ERR_GENERIC":      "Fehler. Versuch es noch einmal.",
	},
}

// T looks a key up in the given language, falling back to RU, then the key.
func T(lang, key string) string {
	if d, ok := dict[lang]; ok {
		if s, ok := d[key]; ok {
			return s
		}
	}
	if s, ok := dict[domain.LangRU][key]; ok {
		return s
	}
	return key
}

// T3 picks one of three literals by language (DE, UA, default RU).
func T3(lang, de, ua, ru string) string {
	switch lang {
	case domain.LangDE:
		return de
	case domain.LangUA:
		return ua
	default:
		return ru
	}
}

var categoryLabels = map[string]map[string]string{
	"бег":         {domain.LangRU: "Бег", domain.LangUA: "Біг", domain.LangDE: "Laufen"},
	"волейбол":    {domain.LangRU: "Волейбол", domain.LangUA: "Волейбол", domain.LangDE: "Volleyball"},
	"вело":        {domain.LangRU: "Велозаезд", domain.LangUA: "Велозаїзд", domain.LangDE: "Radfahren"},
	"поход":       {domain.LangRU: "Поход", domain.LangUA: "Похід", domain.LangDE: "Wandern"},
	"плавание":    {domain.LangRU: "Плавание", domain.LangUA: "Плавання", domain.LangDE: "Schwimmen"},
	"мероприятия": {domain.LangRU: "Мероприятия", domain.LangUA: "Заходи", domain.LangDE: "Events"},
}

// CategoryLabel renders a topic key in the user's language, falling back to
// the raw key for unknown categories.
func CategoryLabel(lang, topicKey string) string {
	rec, ok := categoryLabels[domain.NormalizeCategory(topicKey)]
	if !ok {
		if topicKey == "" {
			return "—"
		}
		return topicKey
	}
	if s, ok := rec[lang]; ok {
		return s
	}
	return rec[domain.LangRU]
}

var monthNamesRU = [12]string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь", "Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}
var monthNamesDE = [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}

// MonthNameRU returns the Russian month name for 1..12
func MonthNameRU(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNamesRU[month-1]
}

// MonthNameDE returns the German month name for 1..12
func MonthNameDE(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNamesDE[month-1]
}

// ActivityLabel renders a LOW/MED/HIGH activity level
func ActivityLabel(lang, level string) string {
	switch level {
	case "HIGH":
		return T3(lang, "Hoch", "Висока", "Высокая")
	case "MED":
		return T3(lang, "Mittel", "Середня", "Средняя")
	default:
		return T3(lang, "Niedrig", "Низька", "Низкая")
	}
}
