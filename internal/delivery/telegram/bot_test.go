package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/ratelimit"
)

type sentMessage struct {
	chatID int64
	text   string
}

type stubSender struct {
	mu       sync.Mutex
	sent     []sentMessage
	requests int
	err      error
}

func (s *stubSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, sentMessage{chatID: msg.ChatID, text: msg.Text})
	}
	return tgbotapi.Message{}, s.err
}

func (s *stubSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *stubSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.text)
	}
	return out
}

type stubEngine struct {
	mu     sync.Mutex
	calls  []string
	handle func(ctx context.Context, userID, text string) ([]string, error)
}

func (e *stubEngine) Respond(userID, text string, mode entity.SessionMode) (entity.SessionMode, []string) {
	return mode, nil
}

func (e *stubEngine) Handle(ctx context.Context, userID, text string) ([]string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, userID+"|"+text)
	e.mu.Unlock()
	if e.handle != nil {
		return e.handle(ctx, userID, text)
	}
	return []string{"reply:" + text}, nil
}

func (e *stubEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func newTestBot(s *stubSender, engine *stubEngine, limiter *ratelimit.UserLimiter) *BotHandler {
	return newBotHandler(s, engine, limiter, nil, Options{WorkerCount: 2, Timeout: time.Second}, zerolog.Nop())
}

func textMessage(userID int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID * 10},
	}
	if strings.HasPrefix(text, "/") {
		cmdLen := len(strings.Fields(text)[0])
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	}
	return msg
}

func TestHandleMessage_HelpCommand(t *testing.T) {
	s := &stubSender{}
	engine := &stubEngine{}
	h := newTestBot(s, engine, nil)

	h.handleMessage(context.Background(), textMessage(7, "/help"))

	assert.Equal(t, []string{constants.MsgUsageHint}, s.texts())
	assert.Zero(t, engine.callCount())
}

func TestHandleMessage_UnknownCommand(t *testing.T) {
	s := &stubSender{}
	h := newTestBot(s, &stubEngine{}, nil)

	h.handleMessage(context.Background(), textMessage(7, "/order"))

	assert.Equal(t, []string{constants.MsgUnknownCommand}, s.texts())
}

func TestWorkerPool_AnswersThroughEngine(t *testing.T) {
	s := &stubSender{}
	engine := &stubEngine{}
	h := newTestBot(s, engine, nil)
	h.workerPool.start()

	h.handleMessage(context.Background(), textMessage(7, "香蕉"))
	h.handleMessage(context.Background(), textMessage(7, "/price"))
	h.workerPool.shutdown()

	assert.ElementsMatch(t, []string{"tg:7|香蕉", "tg:7|" + constants.PriceTriggerPhrase}, engine.calls)
	assert.ElementsMatch(t, []string{"reply:香蕉", "reply:" + constants.PriceTriggerPhrase}, s.texts())
	assert.Equal(t, 2, s.requests)

	// closed pool rejects new work
	assert.False(t, h.workerPool.submit(&messageRequest{ctx: context.Background(), userKey: "tg:7", text: "x"}))
}

func TestWorkerPool_RateLimited(t *testing.T) {
	s := &stubSender{}
	engine := &stubEngine{}
	h := newTestBot(s, engine, ratelimit.NewUserLimiter(0.001, 1))
	h.workerPool.start()

	h.handleMessage(context.Background(), textMessage(9, "芭樂"))
	h.handleMessage(context.Background(), textMessage(9, "芭樂"))
	h.workerPool.shutdown()

	assert.Equal(t, 1, engine.callCount())
	assert.Equal(t, []string{"reply:芭樂", constants.MsgRateLimited}, s.texts())
}

func TestWorkerPool_KeepsUserOrder(t *testing.T) {
	s := &stubSender{}
	engine := &stubEngine{
		handle: func(ctx context.Context, userID, text string) ([]string, error) {
			if text == constants.PriceTriggerPhrase {
				time.Sleep(20 * time.Millisecond)
			}
			return []string{"reply:" + text}, nil
		},
	}
	h := newBotHandler(s, engine, nil, nil, Options{WorkerCount: 8, Timeout: time.Second}, zerolog.Nop())
	h.workerPool.start()

	want := []string{"tg:3|" + constants.PriceTriggerPhrase}
	h.handleMessage(context.Background(), textMessage(3, constants.PriceTriggerPhrase))
	for i := 0; i < 20; i++ {
		text := fmt.Sprintf("香蕉%d", i)
		want = append(want, "tg:3|"+text)
		h.handleMessage(context.Background(), textMessage(3, text))
	}
	h.workerPool.shutdown()

	assert.Equal(t, want, engine.calls)
}

func TestWorkerPool_QueuePerUserIsStable(t *testing.T) {
	h := newTestBot(&stubSender{}, &stubEngine{}, nil)
	h.workerPool = newWorkerPool(h, 8)

	for _, key := range []string{"tg:1", "tg:2", "tg:123456789"} {
		assert.Equal(t, h.workerPool.queueFor(key), h.workerPool.queueFor(key), key)
	}
}

func TestProcessMessage_Errors(t *testing.T) {
	tests := []struct {
		name   string
		handle func(ctx context.Context, userID, text string) ([]string, error)
		want   []string
	}{
		{
			name: "engine error",
			handle: func(ctx context.Context, userID, text string) ([]string, error) {
				return nil, errors.New("load session: redis down")
			},
			want: []string{constants.MsgInternalError},
		},
		{
			name: "timeout",
			handle: func(ctx context.Context, userID, text string) ([]string, error) {
				return nil, context.DeadlineExceeded
			},
			want: []string{constants.MsgTimeout},
		},
		{
			name: "save failure keeps reply",
			handle: func(ctx context.Context, userID, text string) ([]string, error) {
				return []string{"香蕉 價格"}, errors.New("save session: redis down")
			},
			want: []string{"香蕉 價格"},
		},
		{
			name: "panic",
			handle: func(ctx context.Context, userID, text string) ([]string, error) {
				panic("boom")
			},
			want: []string{constants.MsgInternalError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubSender{}
			h := newTestBot(s, &stubEngine{handle: tt.handle}, nil)

			h.workerPool.processMessageWithTimeout(&messageRequest{
				ctx:     context.Background(),
				userKey: "tg:1",
				chatID:  10,
				text:    "香蕉",
			})

			assert.Equal(t, tt.want, s.texts())
		})
	}
}

func TestSendChunks_SplitsOversizedChunk(t *testing.T) {
	s := &stubSender{}
	h := newTestBot(s, &stubEngine{}, nil)

	long := strings.Repeat("蕉", constants.TelegramMaxMessageLength+10)
	h.sendChunks(5, []string{"first", "", long})

	texts := s.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, "first", texts[0])
	assert.Equal(t, long, texts[1]+texts[2])
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/Help@HaoshiBot", "help"},
		{"香蕉", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		msg := &tgbotapi.Message{Text: tt.text}
		assert.Equal(t, tt.want, extractCommand(msg), tt.text)
	}
	assert.Equal(t, "", extractCommand(nil))
}

func TestNewBotHandler_NilBot(t *testing.T) {
	h := NewBotHandler(nil, &stubEngine{}, nil, nil, Options{}, zerolog.Nop())

	assert.Nil(t, h.sender)
	assert.Error(t, h.Start(context.Background()))
	h.sendMessage(1, "ignored")
}
