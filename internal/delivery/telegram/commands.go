package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
)

// handleCommand reports false when the text should go to the engine instead
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) bool {
	cmd := extractCommand(message)
	if cmd == "" {
		return false
	}

	switch cmd {
	case "start":
		h.sendMessage(message.Chat.ID, constants.MsgWelcome+"\n\n"+constants.MsgUsageHint)
	case "help":
		h.sendMessage(message.Chat.ID, constants.MsgUsageHint)
	case "price":
		// same as typing the trigger phrase
		h.workerPool.submit(&messageRequest{
			ctx:     ctx,
			userKey: userKey(message.From.ID),
			chatID:  message.Chat.ID,
			text:    constants.PriceTriggerPhrase,
		})
	default:
		h.sendMessage(message.Chat.ID, constants.MsgUnknownCommand)
	}
	return true
}

func extractCommand(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.IsCommand() {
		return strings.ToLower(msg.Command())
	}
	txt := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(txt, "/") {
		return ""
	}
	first := strings.TrimPrefix(strings.Fields(txt)[0], "/")
	if first == "" {
		return ""
	}
	parts := strings.SplitN(first, "@", 2)
	return strings.ToLower(parts[0])
}
