package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is Telegram's limit on message text.
const maxMessageLen = 4096

var commands = []tgbotapi.BotCommand{
	{Command: "status", Description: "Current build summary"},
	{Command: "unmatched", Description: "Names that need a mapping"},
	{Command: "player", Description: "Look up a player in the current build"},
	{Command: "publish", Description: "Upload the report and headshots"},
	{Command: "help", Description: "List commands"},
}

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, svc Service) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error connecting to telegram: %w", err)
	}

	return &TelegramBot{
		bot:     bot,
		handler: NewHandler(svc, chatID),
		chatID:  chatID,
	}, nil
}

// Start registers the command menu and answers commands until ctx is done.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	if _, err := t.bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		slog.Warn("Could not register bot commands", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			msg := t.handler.HandleCommand(ctx, update)
			t.send(msg.ChatID, msg.Text)
		case <-ctx.Done():
			return nil
		}
	}
}

// SendMessage posts text to the configured chat, split into as many
// messages as the length limit requires.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		slog.Error("Chat ID not set")
		return fmt.Errorf("chat ID not set")
	}
	return t.send(t.chatID, text)
}

func (t *TelegramBot) send(chatID int64, text string) error {
	for _, part := range splitMessage(text, maxMessageLen) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := t.bot.Send(msg); err != nil {
			slog.Error("Error sending message", "chat", chatID, "error", err)
			return err
		}
	}
	return nil
}

// splitMessage breaks text on line boundaries into parts of at most limit
// bytes. A single line longer than limit is cut.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			parts = append(parts, line[:limit])
			line = line[limit:]
		}
		if cur.Len()+len(line) > limit {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return parts
}
