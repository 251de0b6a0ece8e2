package domain

import (
	"time"
)

// Supported UI languages
const (
	LangRU = "RU"
	LangUA = "UA"
	LangDE = "DE"
)

// NormalizeLang maps arbitrary input to a supported language, defaulting RU.
func NormalizeLang(lang string) string {
	switch lang {
	case LangRU, LangUA, LangDE:
		return lang
	default:
		return LangRU
	}
}

// User is one platform identity, created lazily on first interaction.
// MainMessageID is the user's single continuously-edited private screen
// (0 when no screen exists yet).
type User struct {
	ID            int64     `json:"id"`
	Lang          string    `json:"lang"`
	DisplayName   string    `json:"display_name"` // admin-set override, empty if unset
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Username      string    `json:"username"`
	MainMessageID int       `json:"main_message_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// FallbackName is shown when no profile name of any kind is known.
const FallbackName = "Без имени"

// BestName resolves the user's display name: override > profile full name >
// @username > fallback.
func (u *User) BestName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	full := u.FirstName
	if u.LastName != "" {
		if full != "" {
			full += " "
		}
		full += u.LastName
	}
	if full != "" {
		return full
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return FallbackName
}

// BotConfig is the single shared settings document
type BotConfig struct {
	GroupChatID       int64  `json:"group_chat_id"`
	LastMonthlyTop5   string `json:"last_monthly_top5"` // "YYYY-MM" of the last posted month
	LastYearWinner    string `json:"last_year_winner"`  // "YYYY" of the last posted year
	MonthPhotoID      string `json:"month_photo_id"`
	MonthEmptyPhotoID string `json:"month_empty_photo_id"`
	YearPhotoID       string `json:"year_photo_id"`
}
