package domain

import (
	"strings"
)

// pointsByCategory is the fixed category → check-in award table.
var pointsByCategory = map[string]int{
	"бег":         30,
	"волейбол":    20,
	"вело":        15,
	"поход":       10,
	"плавание":    7,
	"мероприятия": 5,
}

// NoShowPenalty is the signed point value for a YES voter who did not arrive.
const NoShowPenalty = -5

// NormalizeCategory canonicalizes a topic key for the points table:
// lower case, collapsed whitespace, ё folded to е, known aliases mapped.
func NormalizeCategory(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, "ё", "е")
	k = strings.Join(strings.Fields(k), " ")

	switch k {
	case "велозаезд", "велозаїзд":
		k = "вело"
	}

	return k
}

// PointsForCategory returns the check-in award for a topic key.
// Unrecognized categories award zero.
func PointsForCategory(key string) int {
	return pointsByCategory[NormalizeCategory(key)]
}

// Categories returns the known category keys in rules-listing order.
func Categories() []string {
	return []string{"бег", "волейбол", "вело", "поход", "плавание", "мероприятия"}
}
