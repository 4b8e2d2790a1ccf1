package infrastructure

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CreateProjectsKeyboard links an answer to the works page.
func CreateProjectsKeyboard(label, siteURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(label, worksURL(siteURL)),
		),
	)
}

// CreateSuggestionKeyboard offers the sample questions as one-tap buttons, two per row.
func CreateSuggestionKeyboard(suggestions []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, s := range suggestions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(s, suggestionData(i)))
		if (i+1)%2 == 0 {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func worksURL(siteURL string) string {
	return strings.TrimRight(siteURL, "/") + "/works"
}

const suggestionPrefix = "ask:"

// callback data is capped at 64 bytes by Telegram, so suggestions travel by index
func suggestionData(i int) string {
	return suggestionPrefix + strconv.Itoa(i)
}

func parseSuggestionData(data string) (int, bool) {
	if !strings.HasPrefix(data, suggestionPrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(data, suggestionPrefix))
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
