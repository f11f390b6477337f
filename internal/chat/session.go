package chat

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sender tells who produced a turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Origin tells where an assistant turn came from: the remote executor
// or the local fallback pool. User turns carry no origin.
type Origin string

const (
	OriginExecutor Origin = "executor"
	OriginFallback Origin = "fallback"
)

// Turn is one message in the transcript. The transcript is append-only;
// turns are never reordered or edited after the fact.
type Turn struct {
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Origin    Origin    `json:"origin,omitempty"`
	Method    string    `json:"method,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Reply is a successful executor response. Method is the delivery
// annotation ("openai", "mock", ...) passed through verbatim.
type Reply struct {
	Text   string
	Method string
}

// Executor runs one chat message against the last built workflow.
type Executor interface {
	Execute(ctx context.Context, message string) (Reply, error)
}

// Session drives a turn-based exchange against the workflow executor.
// Sends are serialized by the session mutex, so overlapping calls append
// their turns in call order. A failed exchange never surfaces as an
// error to the caller; it becomes a fallback turn instead, and the
// session is immediately ready for the next message.
type Session struct {
	mu       sync.Mutex
	executor Executor
	logger   *zap.Logger
	rng      *rand.Rand
	turns    []Turn
}

func NewSession(executor Executor, logger *zap.Logger) *Session {
	return &Session{
		executor: executor,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Send submits one user message. Whitespace-only text is a no-op. The
// user turn is appended before the executor is contacted, so it stays
// in the transcript even when the exchange fails.
func (s *Session) Send(ctx context.Context, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{
		Text:      trimmed,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	})

	reply, err := s.executor.Execute(ctx, trimmed)
	if err != nil {
		s.logger.Warn("executor unavailable, using fallback reply", zap.Error(err))
		s.turns = append(s.turns, Turn{
			Text:      s.fallbackText(trimmed),
			Sender:    SenderAssistant,
			Origin:    OriginFallback,
			Timestamp: time.Now(),
		})
		return
	}

	s.turns = append(s.turns, Turn{
		Text:      reply.Text,
		Sender:    SenderAssistant,
		Origin:    OriginExecutor,
		Method:    reply.Method,
		Timestamp: time.Now(),
	})
}

// Transcript returns a copy of all turns in append order.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}
