package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/usecase"
)

// sendMessage single text reply
func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.sendChunks(chatID, []string{text})
}

// sendChunks sends engine chunks in order, re-splitting anything over the Telegram limit
func (h *BotHandler) sendChunks(chatID int64, chunks []string) {
	if h.sender == nil {
		h.logger.Warn().Int64("chat_id", chatID).Msg("send skipped, bot is nil")
		return
	}

	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		for _, part := range splitIntoChunks(chunk, constants.TelegramMaxMessageLength) {
			_, err := h.sender.Send(tgbotapi.NewMessage(chatID, part))
			if h.observer != nil {
				h.observer.ObserveDelivery(transport, err)
			}
			if err != nil {
				h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
				return
			}
		}
	}
}

func (h *BotHandler) sendTyping(chatID int64) {
	if h.sender == nil {
		return
	}
	if _, err := h.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.logger.Debug().Err(err).Msg("typing action")
	}
}

// splitIntoChunks rune-safe split at the Telegram limit
func splitIntoChunks(s string, limit int) []string {
	return usecase.SplitReply(s, limit)
}
