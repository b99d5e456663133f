package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Start long-polls updates until ctx is done
func (h *BotHandler) Start(ctx context.Context) error {
	if h.bot == nil {
		return fmt.Errorf("telegram bot is nil")
	}
	h.workerPool.start()
	go h.limiter.Run(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)
	h.logger.Info().Str("bot", h.bot.Self.UserName).Msg("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			h.workerPool.shutdown()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.workerPool.shutdown()
				return nil
			}
			if update.Message == nil {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage commands are answered inline, everything else goes through the worker pool
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	if message.IsCommand() || strings.HasPrefix(text, "/") {
		if h.handleCommand(ctx, message) {
			return
		}
	}

	h.workerPool.submit(&messageRequest{
		ctx:     ctx,
		userKey: userKey(message.From.ID),
		chatID:  message.Chat.ID,
		text:    text,
	})
}

func userKey(userID int64) string {
	return fmt.Sprintf("tg:%d", userID)
}
