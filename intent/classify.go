package intent

import "strings"

var countKeywords = []string{"berapa", "jumlah", "total", "hitung", "banyak"}

var listKeywords = []string{"daftar", "tampilkan", "sebutkan", "tunjukkan", "list"}

var infoKeywords = []string{
	"apa itu",
	"jelaskan",
	"deskripsikan",
	"info tentang",
	"ceritakan",
	"cari info",
}

// Classify maps a message to an intent by keyword. Counting wins over
// listing wins over describing, so "berapa daftar usaha" still counts.
func Classify(message string) Intent {
	lowered := strings.ToLower(message)

	if containsAny(lowered, countKeywords) {
		return IntentCount
	}
	if containsAny(lowered, listKeywords) {
		return IntentList
	}
	if containsAny(lowered, infoKeywords) {
		return IntentBusinessInfo
	}

	return IntentOutOfScope
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
