package line

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/ratelimit"
	"github.com/limoonouo/Haoshi-Fruits/internal/usecase"
)

const transport = "line"

// Replier the part of the messaging API the handler needs
type Replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// Observer delivery metrics
type Observer interface {
	ObserveDelivery(transport string, err error)
	ObserveRateLimited(transport string)
}

// Options handler settings
type Options struct {
	ChannelSecret string
	Timeout       time.Duration
}

// Handler LINE webhook endpoint
type Handler struct {
	secret   string
	engine   usecase.QueryUseCase
	client   Replier
	limiter  *ratelimit.UserLimiter
	observer Observer
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewClient messaging API client for the channel access token
func NewClient(accessToken string) (Replier, error) {
	client, err := messaging_api.NewMessagingApiAPI(accessToken)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func NewHandler(engine usecase.QueryUseCase, client Replier, limiter *ratelimit.UserLimiter, observer Observer, opts Options, logger zerolog.Logger) *Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Handler{
		secret:   opts.ChannelSecret,
		engine:   engine,
		client:   client,
		limiter:  limiter,
		observer: observer,
		timeout:  opts.Timeout,
		logger:   logger.With().Str("component", "line").Logger(),
	}
}

// Run evicts idle rate-limit entries until ctx is done
func (h *Handler) Run(ctx context.Context) {
	h.limiter.Run(ctx)
}

// ServeHTTP verifies the signature and answers every text event with a reply
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn().Msg("invalid webhook signature")
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Msg("parse webhook request")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	for _, event := range cb.Events {
		e, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		msg, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}
		h.handleText(r.Context(), e.Source, e.ReplyToken, msg.Text)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) handleText(ctx context.Context, source webhook.SourceInterface, replyToken, text string) {
	userKey := sourceKey(source)
	log := h.logger.With().Str("user_id", userKey).Logger()
	log.Debug().Str("text", preview(text)).Msg("text message")

	if !h.limiter.Allow(userKey) {
		log.Warn().Msg("rate limit exceeded")
		if h.observer != nil {
			h.observer.ObserveRateLimited(transport)
		}
		h.reply(log, replyToken, []string{constants.MsgRateLimited})
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	chunks, err := h.engine.Handle(ctx, userKey, text)
	if err != nil {
		log.Error().Err(err).Msg("handle message")
		if len(chunks) == 0 {
			chunks = []string{constants.MsgInternalError}
		}
	}
	h.reply(log, replyToken, chunks)
}

func (h *Handler) reply(log zerolog.Logger, replyToken string, chunks []string) {
	if replyToken == "" || len(chunks) == 0 {
		return
	}
	if len(chunks) > constants.LineMaxMessagesPerReply {
		log.Warn().Int("chunks", len(chunks)).Msg("reply truncated to LINE message limit")
		chunks = chunks[:constants.LineMaxMessagesPerReply]
	}

	messages := make([]messaging_api.MessageInterface, 0, len(chunks))
	for _, chunk := range chunks {
		messages = append(messages, messaging_api.TextMessage{Text: chunk})
	}

	_, err := h.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		log.Error().Err(err).Msg("reply message")
	}
	if h.observer != nil {
		h.observer.ObserveDelivery(transport, err)
	}
}

// sourceKey session key; group and room chats without a user id share one session
func sourceKey(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return "line:" + s.UserId
	case webhook.GroupSource:
		if s.UserId != "" {
			return "line:" + s.UserId
		}
		return "line:group:" + s.GroupId
	case webhook.RoomSource:
		if s.UserId != "" {
			return "line:" + s.UserId
		}
		return "line:room:" + s.RoomId
	default:
		return "line:unknown"
	}
}

// trimmed for log fields
func preview(text string) string {
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) > 40 {
		return string(r[:40]) + "…"
	}
	return text
}
