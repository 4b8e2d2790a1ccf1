package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/victorwamb/IA-PF/internal/usecases"
)

// TelegramBot exposes the shared chat engine to Telegram users. Each chat is one conversation.
type TelegramBot struct {
	Bot *tgbotapi.BotAPI

	sessions *usecases.SessionManager
	catalog  *usecases.Catalog
	limiter  *MessageRateLimiter
	siteURL  string
	logger   *slog.Logger
}

func NewTelegramBot(token string, sessions *usecases.SessionManager, catalog *usecases.Catalog, limiter *MessageRateLimiter, siteURL string, logger *slog.Logger) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramBot{
		Bot:      bot,
		sessions: sessions,
		catalog:  catalog,
		limiter:  limiter,
		siteURL:  siteURL,
		logger:   logger.With("component", "telegram", "bot", bot.Self.UserName),
	}, nil
}

// Run polls for updates until ctx is done.
func (t *TelegramBot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.Bot.GetUpdatesChan(u)

	t.logger.Info("started polling")
	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			t.logger.Info("stopped polling")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go t.handleUpdate(ctx, update)
		}
	}
}

// SendMessage sends plain text to a chat id.
func (t *TelegramBot) SendMessage(to, content string) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", to, err)
	}
	_, err = t.Bot.Send(tgbotapi.NewMessage(chatID, content))
	return err
}

func (t *TelegramBot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		t.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	lang := telegramLanguage(msg.From)
	strs := t.catalog.Lookup(lang)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			t.sendWelcome(chatID, lang)
			return
		case "reset":
			t.sessions.Delete(sessionKey(chatID))
			t.sendWelcome(chatID, lang)
			return
		}
	}

	if !t.limiter.Allow(chatID) {
		t.logger.Debug("rate limited", "chat_id", chatID, "wait", t.limiter.WaitTime(chatID))
		return
	}

	if strings.TrimSpace(msg.Text) == "" {
		t.send(tgbotapi.NewMessage(chatID, strs.Placeholder))
		return
	}
	t.answer(ctx, chatID, lang, msg.Text)
}

func (t *TelegramBot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := t.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		t.logger.Warn("failed to answer callback", "error", err)
	}
	if cb.Message == nil {
		return
	}

	i, ok := parseSuggestionData(cb.Data)
	if !ok {
		return
	}
	lang := telegramLanguage(cb.From)
	suggestions := t.catalog.Lookup(lang).Suggestions
	if i >= len(suggestions) {
		return
	}

	chatID := cb.Message.Chat.ID
	if !t.limiter.Allow(chatID) {
		return
	}
	t.send(tgbotapi.NewMessage(chatID, suggestions[i]))
	t.answer(ctx, chatID, lang, suggestions[i])
}

func (t *TelegramBot) answer(ctx context.Context, chatID int64, lang, text string) {
	strs := t.catalog.Lookup(lang)
	if _, err := t.Bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		t.logger.Debug("failed to send typing action", "error", err)
	}

	result, err := t.sessions.Submit(ctx, sessionKey(chatID), lang, text)
	if errors.Is(err, usecases.ErrResolutionPending) {
		t.send(tgbotapi.NewMessage(chatID, strs.Thinking))
		return
	}
	if err != nil {
		t.logger.Warn("failed to resolve message", "chat_id", chatID, "error", err)
		t.send(tgbotapi.NewMessage(chatID, strs.Error))
		return
	}

	reply := tgbotapi.NewMessage(chatID, strings.TrimSpace(result.Text))
	if result.HasAction && t.siteURL != "" {
		reply.ReplyMarkup = CreateProjectsKeyboard(strs.ViewProjects, t.siteURL)
	}
	t.send(reply)
}

func (t *TelegramBot) sendWelcome(chatID int64, lang string) {
	strs := t.catalog.Lookup(lang)
	msg := tgbotapi.NewMessage(chatID, "👋 "+strs.TryAsking)
	if len(strs.Suggestions) > 0 {
		msg.ReplyMarkup = CreateSuggestionKeyboard(strs.Suggestions)
	}
	t.send(msg)
}

func (t *TelegramBot) send(c tgbotapi.Chattable) {
	if _, err := t.Bot.Send(c); err != nil {
		t.logger.Warn("failed to send message", "error", err)
	}
}

func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func telegramLanguage(u *tgbotapi.User) string {
	if u != nil && strings.HasPrefix(strings.ToLower(u.LanguageCode), usecases.LangFrench) {
		return usecases.LangFrench
	}
	return usecases.LangEnglish
}

// Stats reports the bot identity and its limiter state for the admin stats endpoint.
func (t *TelegramBot) Stats() map[string]interface{} {
	stats := t.limiter.Stats()
	stats["bot"] = t.Bot.Self.UserName
	return stats
}
