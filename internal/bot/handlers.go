package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/publish"
)

// Service is what the bot commands read from and trigger.
type Service interface {
	GetStatus() (string, error)
	GetUnmatched() (string, error)
	FindPlayer(query string) (string, error)
	Deploy(ctx context.Context, target publish.Target) (*publish.Result, error)
	FormatDeploy(res *publish.Result) string
}

type Handler struct {
	svc    Service
	chatID int64
}

func NewHandler(svc Service, chatID int64) *Handler {
	return &Handler{svc: svc, chatID: chatID}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := update.Message.CommandArguments()
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to the DFS visualizer bot! Use /help to see available commands."
	case "help":
		msg.Text = "Available commands:\n/status - Current build summary\n/unmatched - Names that need a mapping\n/player <name> - Look up a player in the current build\n/publish <website|headshots|all> - Upload the report"
	case "status":
		h.handleStatus(&msg)
	case "unmatched":
		h.handleUnmatched(&msg)
	case "player":
		h.handlePlayer(&msg, args)
	case "publish":
		h.handlePublish(ctx, &msg, update.Message.Chat.ID, args)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleStatus(msg *tgbotapi.MessageConfig) {
	status, err := h.svc.GetStatus()
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching status: %v", err)
	} else {
		msg.Text = status
	}
}

func (h *Handler) handleUnmatched(msg *tgbotapi.MessageConfig) {
	unmatched, err := h.svc.GetUnmatched()
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching unmatched names: %v", err)
	} else {
		msg.Text = unmatched
	}
}

func (h *Handler) handlePlayer(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a player name. Usage: /player <player name>"
		return
	}
	result, err := h.svc.FindPlayer(args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error looking up player: %v", err)
	} else {
		msg.Text = result
	}
}

func (h *Handler) handlePublish(ctx context.Context, msg *tgbotapi.MessageConfig, from int64, args string) {
	// Uploads are only triggered from the configured chat
	if h.chatID == 0 || from != h.chatID {
		msg.Text = "Publishing is not allowed from this chat."
		return
	}
	target, err := publish.ParseTarget(strings.TrimSpace(args))
	if err != nil {
		msg.Text = "Usage: /publish <website|headshots|all>"
		return
	}
	res, err := h.svc.Deploy(ctx, target)
	if err != nil {
		msg.Text = fmt.Sprintf("Error publishing: %v", err)
		return
	}
	msg.Text = "🚀 *Publish*\n\n" + h.svc.FormatDeploy(res)
}
