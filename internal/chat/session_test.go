package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubExecutor struct {
	mu      sync.Mutex
	reply   Reply
	err     error
	calls   []string
	onCall  func(message string) (Reply, error)
}

func (s *stubExecutor) Execute(_ context.Context, message string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, message)
	if s.onCall != nil {
		return s.onCall(message)
	}
	return s.reply, s.err
}

func TestSend_EmptyMessageIsNoop(t *testing.T) {
	exec := &stubExecutor{}
	s := NewSession(exec, zap.NewNop())

	s.Send(context.Background(), "")
	s.Send(context.Background(), "   \t\n")

	assert.Empty(t, s.Transcript())
	assert.Empty(t, exec.calls)
}

func TestSend_ExecutorReply(t *testing.T) {
	exec := &stubExecutor{reply: Reply{Text: "hi", Method: "mock"}}
	s := NewSession(exec, zap.NewNop())

	s.Send(context.Background(), "hello")

	turns := s.Transcript()
	require.Len(t, turns, 2)

	assert.Equal(t, "hello", turns[0].Text)
	assert.Equal(t, SenderUser, turns[0].Sender)
	assert.Empty(t, turns[0].Origin)

	assert.Equal(t, "hi", turns[1].Text)
	assert.Equal(t, SenderAssistant, turns[1].Sender)
	assert.Equal(t, OriginExecutor, turns[1].Origin)
	assert.Equal(t, "mock", turns[1].Method)
}

func TestSend_ExecutorFailureFallsBack(t *testing.T) {
	exec := &stubExecutor{err: errors.New("connection refused")}
	s := NewSession(exec, zap.NewNop())

	s.Send(context.Background(), "hello")

	turns := s.Transcript()
	require.Len(t, turns, 2)

	// the user's message survives the failed exchange
	assert.Equal(t, "hello", turns[0].Text)
	assert.Equal(t, SenderUser, turns[0].Sender)

	assert.Equal(t, SenderAssistant, turns[1].Sender)
	assert.Equal(t, OriginFallback, turns[1].Origin)
	assert.Contains(t, turns[1].Text, "hello")
}

func TestSend_FallbackDrawsFromWholePool(t *testing.T) {
	exec := &stubExecutor{err: errors.New("down")}
	s := NewSession(exec, zap.NewNop())

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		s.Send(context.Background(), "ping")
	}
	for _, turn := range s.Transcript() {
		if turn.Origin == OriginFallback {
			seen[turn.Text] = true
		}
	}
	// 200 draws over a pool this small reach every template
	assert.Len(t, seen, len(fallbackTemplates))
}

func TestSend_FailureDoesNotBlockNextSend(t *testing.T) {
	calls := 0
	exec := &stubExecutor{onCall: func(string) (Reply, error) {
		calls++
		if calls == 1 {
			return Reply{}, errors.New("down")
		}
		return Reply{Text: "back up", Method: "openai"}, nil
	}}
	s := NewSession(exec, zap.NewNop())

	s.Send(context.Background(), "first")
	s.Send(context.Background(), "second")

	turns := s.Transcript()
	require.Len(t, turns, 4)
	assert.Equal(t, OriginFallback, turns[1].Origin)
	assert.Equal(t, OriginExecutor, turns[3].Origin)
	assert.Equal(t, "openai", turns[3].Method)
}

func TestSend_ConcurrentSendsKeepTurnsPaired(t *testing.T) {
	exec := &stubExecutor{onCall: func(message string) (Reply, error) {
		return Reply{Text: "re: " + message, Method: "mock"}, nil
	}}
	s := NewSession(exec, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Send(context.Background(), fmt.Sprintf("msg-%d", i))
		}(i)
	}
	wg.Wait()

	turns := s.Transcript()
	require.Len(t, turns, 20)
	for i := 0; i < len(turns); i += 2 {
		assert.Equal(t, SenderUser, turns[i].Sender)
		assert.Equal(t, SenderAssistant, turns[i+1].Sender)
		// each reply pairs with the user turn directly before it
		assert.True(t, strings.HasSuffix(turns[i+1].Text, turns[i].Text),
			"reply %q does not match %q", turns[i+1].Text, turns[i].Text)
	}
}

func TestTranscript_ReturnsCopy(t *testing.T) {
	exec := &stubExecutor{reply: Reply{Text: "hi", Method: "mock"}}
	s := NewSession(exec, zap.NewNop())
	s.Send(context.Background(), "hello")

	turns := s.Transcript()
	turns[0].Text = "tampered"

	assert.Equal(t, "hello", s.Transcript()[0].Text)
}
