package telegram

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/limoonouo/Haoshi-Fruits/internal/ratelimit"
	"github.com/limoonouo/Haoshi-Fruits/internal/usecase"
)

const transport = "telegram"

// sender the subset of *tgbotapi.BotAPI used for replies
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Observer delivery metrics
type Observer interface {
	ObserveDelivery(transport string, err error)
	ObserveRateLimited(transport string)
}

// Options bot settings; zero values fall back to defaults
type Options struct {
	WorkerCount int
	Timeout     time.Duration
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot        *tgbotapi.BotAPI
	sender     sender
	engine     usecase.QueryUseCase
	workerPool *workerPool
	limiter    *ratelimit.UserLimiter
	observer   Observer
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewBotAPI connects with the bot token
func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// NewBotHandler handler for a connected bot
func NewBotHandler(
	bot *tgbotapi.BotAPI,
	engine usecase.QueryUseCase,
	limiter *ratelimit.UserLimiter,
	observer Observer,
	opts Options,
	logger zerolog.Logger,
) *BotHandler {
	var s sender
	if bot != nil {
		s = bot
	}
	h := newBotHandler(s, engine, limiter, observer, opts, logger)
	h.bot = bot
	return h
}

func newBotHandler(s sender, engine usecase.QueryUseCase, limiter *ratelimit.UserLimiter, observer Observer, opts Options, logger zerolog.Logger) *BotHandler {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}
	h := &BotHandler{
		sender:   s,
		engine:   engine,
		limiter:  limiter,
		observer: observer,
		timeout:  opts.Timeout,
		logger:   logger.With().Str("component", "telegram").Logger(),
	}
	h.workerPool = newWorkerPool(h, opts.WorkerCount)
	return h
}
