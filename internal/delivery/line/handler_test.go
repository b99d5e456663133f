package line

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/ratelimit"
)

const testSecret = "test-channel-secret"

type stubEngine struct {
	mu     sync.Mutex
	calls  []string
	chunks []string
	err    error
}

func (s *stubEngine) Respond(userID, text string, mode entity.SessionMode) (entity.SessionMode, []string) {
	return mode, s.chunks
}

func (s *stubEngine) Handle(ctx context.Context, userID, text string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, userID+"|"+text)
	return s.chunks, s.err
}

type stubReplier struct {
	requests []*messaging_api.ReplyMessageRequest
	err      error
}

func (s *stubReplier) ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	s.requests = append(s.requests, req)
	return &messaging_api.ReplyMessageResponse{}, s.err
}

type stubObserver struct {
	delivered   int
	failed      int
	rateLimited int
}

func (o *stubObserver) ObserveDelivery(transport string, err error) {
	if err != nil {
		o.failed++
		return
	}
	o.delivered++
}

func (o *stubObserver) ObserveRateLimited(transport string) { o.rateLimited++ }

func textEventBody(source, replyToken, text string) string {
	return fmt.Sprintf(`{"destination":"Ubot","events":[{"type":"message","mode":"active","timestamp":1700000000000,`+
		`"source":%s,"webhookEventId":"01H000","deliveryContext":{"isRedelivery":false},`+
		`"replyToken":%q,"message":{"id":"1","type":"text","text":%q,"quoteToken":"q"}}]}`, source, replyToken, text)
}

func signedRequest(t *testing.T, secret, body string) *http.Request {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	_, err := mac.Write([]byte(body))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("X-Line-Signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newTestHandler(engine *stubEngine, replier *stubReplier, limiter *ratelimit.UserLimiter, obs *stubObserver) *Handler {
	return NewHandler(engine, replier, limiter, obs, Options{ChannelSecret: testSecret}, zerolog.Nop())
}

func TestHandler_RepliesToTextEvent(t *testing.T) {
	engine := &stubEngine{chunks: []string{"第一段", "第二段"}}
	replier := &stubReplier{}
	obs := &stubObserver{}
	h := newTestHandler(engine, replier, nil, obs)

	body := textEventBody(`{"type":"user","userId":"U123"}`, "rt-1", "即時資訊")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedRequest(t, testSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, []string{"line:U123|即時資訊"}, engine.calls)

	require.Len(t, replier.requests, 1)
	req := replier.requests[0]
	assert.Equal(t, "rt-1", req.ReplyToken)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "第一段", req.Messages[0].(messaging_api.TextMessage).Text)
	assert.Equal(t, 1, obs.delivered)
}

func TestHandler_InvalidSignature(t *testing.T) {
	engine := &stubEngine{chunks: []string{"x"}}
	replier := &stubReplier{}
	h := newTestHandler(engine, replier, nil, &stubObserver{})

	body := textEventBody(`{"type":"user","userId":"U123"}`, "rt-1", "香蕉")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedRequest(t, "wrong-secret", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, engine.calls)
	assert.Empty(t, replier.requests)
}

func TestHandler_CapsMessagesPerReply(t *testing.T) {
	chunks := make([]string, 8)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk-%d", i)
	}
	replier := &stubReplier{}
	h := newTestHandler(&stubEngine{chunks: chunks}, replier, nil, &stubObserver{})

	body := textEventBody(`{"type":"user","userId":"U1"}`, "rt-2", "7月")
	h.ServeHTTP(httptest.NewRecorder(), signedRequest(t, testSecret, body))

	require.Len(t, replier.requests, 1)
	assert.Len(t, replier.requests[0].Messages, constants.LineMaxMessagesPerReply)
}

func TestHandler_EngineErrorRepliesApology(t *testing.T) {
	engine := &stubEngine{err: errors.New("redis down")}
	replier := &stubReplier{}
	h := newTestHandler(engine, replier, nil, &stubObserver{})

	body := textEventBody(`{"type":"user","userId":"U1"}`, "rt-3", "香蕉")
	h.ServeHTTP(httptest.NewRecorder(), signedRequest(t, testSecret, body))

	require.Len(t, replier.requests, 1)
	assert.Equal(t, constants.MsgInternalError, replier.requests[0].Messages[0].(messaging_api.TextMessage).Text)
}

func TestHandler_RateLimited(t *testing.T) {
	engine := &stubEngine{chunks: []string{"ok"}}
	replier := &stubReplier{}
	obs := &stubObserver{}
	h := newTestHandler(engine, replier, ratelimit.NewUserLimiter(0.001, 1), obs)

	body := textEventBody(`{"type":"user","userId":"U9"}`, "rt", "香蕉")
	h.ServeHTTP(httptest.NewRecorder(), signedRequest(t, testSecret, body))
	h.ServeHTTP(httptest.NewRecorder(), signedRequest(t, testSecret, body))

	assert.Len(t, engine.calls, 1)
	require.Len(t, replier.requests, 2)
	assert.Equal(t, constants.MsgRateLimited, replier.requests[1].Messages[0].(messaging_api.TextMessage).Text)
	assert.Equal(t, 1, obs.rateLimited)
}

func TestHandler_GroupSourceKey(t *testing.T) {
	engine := &stubEngine{chunks: []string{"ok"}}
	h := newTestHandler(engine, &stubReplier{}, nil, &stubObserver{})

	body := textEventBody(`{"type":"group","groupId":"G1"}`, "rt", "嘉義")
	h.ServeHTTP(httptest.NewRecorder(), signedRequest(t, testSecret, body))

	assert.Equal(t, []string{"line:group:G1|嘉義"}, engine.calls)
}

func TestHandler_LimiterStaysBounded(t *testing.T) {
	engine := &stubEngine{chunks: []string{"ok"}}
	replier := &stubReplier{}
	limiter := ratelimit.NewUserLimiter(5, 5, ratelimit.WithMaxKeys(5))
	h := newTestHandler(engine, replier, limiter, &stubObserver{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	for i := 0; i < 20; i++ {
		source := fmt.Sprintf(`{"type":"user","userId":"U%d"}`, i)
		h.ServeHTTP(httptest.NewRecorder(), signedRequest(t, testSecret, textEventBody(source, "rt", "香蕉")))
		assert.LessOrEqual(t, limiter.Len(), 5)
	}
	assert.Len(t, engine.calls, 20)
	assert.Len(t, replier.requests, 20)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
