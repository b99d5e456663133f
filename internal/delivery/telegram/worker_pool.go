package telegram

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
)

// messageRequest represents a message to be processed
type messageRequest struct {
	ctx     context.Context
	userKey string
	chatID  int64
	text    string
}

// workerPool manages parallel processing of messages.
// Each user is pinned to one worker queue so their messages run in arrival order.
type workerPool struct {
	queues      []chan *messageRequest
	workerCount int
	handler     *BotHandler
	wg          sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

const (
	requestQueueSize      = 100
	defaultWorkerCount    = 8
	defaultRequestTimeout = 10 * time.Second
)

func newWorkerPool(handler *BotHandler, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	queues := make([]chan *messageRequest, workerCount)
	for i := range queues {
		queues[i] = make(chan *messageRequest, requestQueueSize)
	}
	return &workerPool{
		queues:      queues,
		workerCount: workerCount,
		handler:     handler,
	}
}

// queueFor same user key, same queue
func (wp *workerPool) queueFor(userKey string) chan *messageRequest {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userKey))
	return wp.queues[h.Sum32()%uint32(len(wp.queues))]
}

// start starts all workers
func (wp *workerPool) start() {
	wp.handler.logger.Info().Int("workers", wp.workerCount).Msg("starting worker pool")
	for i, queue := range wp.queues {
		wp.wg.Add(1)
		go wp.worker(i, queue)
	}
}

// worker drains its queue until it is closed
func (wp *workerPool) worker(id int, queue <-chan *messageRequest) {
	defer wp.wg.Done()

	for req := range queue {
		if req == nil {
			continue
		}
		h := wp.handler
		if !h.limiter.Allow(req.userKey) {
			h.logger.Warn().Str("user_id", req.userKey).Msg("rate limit exceeded")
			if h.observer != nil {
				h.observer.ObserveRateLimited(transport)
			}
			h.sendMessage(req.chatID, constants.MsgRateLimited)
			continue
		}
		wp.processMessageWithTimeout(req)
	}
	wp.handler.logger.Debug().Int("worker", id).Msg("worker stopped")
}

// processMessageWithTimeout queued messages are still answered during shutdown
func (wp *workerPool) processMessageWithTimeout(req *messageRequest) {
	h := wp.handler
	ctx, cancel := context.WithTimeout(context.WithoutCancel(req.ctx), h.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().Interface("panic", r).Str("user_id", req.userKey).Msg("panic in message processing")
			h.sendMessage(req.chatID, constants.MsgInternalError)
		}
	}()

	h.sendTyping(req.chatID)

	chunks, err := h.engine.Handle(ctx, req.userKey, req.text)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", req.userKey).Msg("handle message")
		if len(chunks) == 0 {
			if errors.Is(err, context.DeadlineExceeded) {
				chunks = []string{constants.MsgTimeout}
			} else {
				chunks = []string{constants.MsgInternalError}
			}
		}
	}
	h.sendChunks(req.chatID, chunks)
}

// submit is non-blocking; a full queue answers with a busy message
func (wp *workerPool) submit(req *messageRequest) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}

	queue := wp.queueFor(req.userKey)
	select {
	case queue <- req:
		return true
	default:
		wp.handler.logger.Warn().
			Int("queued", len(queue)).
			Str("user_id", req.userKey).
			Msg("worker pool queue is full")
		wp.handler.sendMessage(req.chatID, constants.MsgBusy)
		return false
	}
}

// shutdown closes the queues and waits for in-flight messages
func (wp *workerPool) shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	for _, queue := range wp.queues {
		close(queue)
	}
	wp.mu.Unlock()

	wp.handler.logger.Info().Msg("shutting down worker pool")
	wp.wg.Wait()
}
