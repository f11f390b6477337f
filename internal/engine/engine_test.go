package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/store"
)

type stubChat struct {
	provider    string
	answer      string
	err         error
	lastModel   string
	lastSystem  string
	lastUser    string
	lastTemp    float32
}

func (s *stubChat) Provider() string { return s.provider }

func (s *stubChat) Chat(_ context.Context, model, system, user string, temperature float32) (string, error) {
	s.lastModel = model
	s.lastSystem = system
	s.lastUser = user
	s.lastTemp = temperature
	return s.answer, s.err
}

func TestExecute_NoDocuments(t *testing.T) {
	e := New(store.New(), nil, zap.NewNop())

	res := e.Execute(context.Background(), "what is go?")
	assert.Equal(t, "mock", res.Method)
	assert.Contains(t, res.Response, "No documents have been uploaded yet")
	assert.Empty(t, res.ContextUsed)
}

func TestExecute_MockResponseUsesDocumentContext(t *testing.T) {
	st := store.New()
	st.AddDocument("go.pdf", "Go is a statically typed language. It compiles fast. Cats are unrelated.", 12)
	e := New(st, nil, zap.NewNop())

	res := e.Execute(context.Background(), "typed language")
	assert.Equal(t, "mock", res.Method)
	assert.Contains(t, res.Response, "typed language")
	assert.Contains(t, res.ContextUsed, "statically typed")
}

func TestExecute_ChatClientSuccess(t *testing.T) {
	st := store.New()
	st.AddDocument("go.pdf", "Go is a statically typed language.", 6)
	chat := &stubChat{provider: "openai", answer: "Go is statically typed."}
	e := New(st, chat, zap.NewNop())

	res := e.Execute(context.Background(), "is go typed?")
	assert.Equal(t, "openai", res.Method)
	assert.Equal(t, "Go is statically typed.", res.Response)
	assert.Contains(t, chat.lastSystem, "statically typed")
	assert.Equal(t, "is go typed?", chat.lastUser)

	// without a saved workflow the palette defaults apply
	assert.Equal(t, "gpt-3.5-turbo", chat.lastModel)
	assert.InDelta(t, 0.7, chat.lastTemp, 1e-6)
}

func TestExecute_ChatFailureFallsBackToMock(t *testing.T) {
	st := store.New()
	st.AddDocument("go.pdf", "Go is a statically typed language.", 6)
	chat := &stubChat{provider: "openai", err: errors.New("rate limited")}
	e := New(st, chat, zap.NewNop())

	res := e.Execute(context.Background(), "typed")
	assert.Equal(t, "mock", res.Method)
	assert.NotEmpty(t, res.Response)
}

func TestExecute_ReadsParamsFromSavedWorkflow(t *testing.T) {
	st := store.New()
	st.AddDocument("go.pdf", "Go is a statically typed language.", 6)
	st.SaveWorkflow(store.WorkflowDefinition{
		Nodes: []store.WorkflowNode{
			{ID: "n1", Type: "llmEngine", Data: map[string]any{"model": "gpt-4", "temperature": 0.2}},
			{ID: "n2", Type: "output", Data: map[string]any{"format": "text"}},
		},
	})
	chat := &stubChat{provider: "openai", answer: "answer"}
	e := New(st, chat, zap.NewNop())

	e.Execute(context.Background(), "typed")
	assert.Equal(t, "gpt-4", chat.lastModel)
	assert.InDelta(t, 0.2, chat.lastTemp, 1e-6)
}

func TestExecute_OutputFormatShaping(t *testing.T) {
	st := store.New()
	st.AddDocument("go.pdf", "Go is a statically typed language.", 6)
	st.SaveWorkflow(store.WorkflowDefinition{
		Nodes: []store.WorkflowNode{
			{ID: "n1", Type: "output", Data: map[string]any{"format": "json"}},
		},
	})
	chat := &stubChat{provider: "openai", answer: `say "hi"`}
	e := New(st, chat, zap.NewNop())

	res := e.Execute(context.Background(), "typed")
	assert.JSONEq(t, `{"response": "say \"hi\""}`, res.Response)
}

func TestFormatResponse_HTMLEscapes(t *testing.T) {
	out := formatResponse("html", `<script>alert("x")</script>`)
	assert.True(t, strings.HasPrefix(out, "<p>"))
	assert.NotContains(t, out, "<script>")
}

func TestRetrieveContext(t *testing.T) {
	text := "The sky is blue. Grass is green. Water is wet. Fire is hot. Snow is cold."

	// matching sentences win, capped at three
	ctx := retrieveContext(text, "is")
	assert.Equal(t, "The sky is blue. Grass is green. Water is wet", ctx)

	// no match falls back to the document head
	ctx = retrieveContext(text, "quantum")
	assert.Equal(t, text, ctx)

	long := strings.Repeat("x", 600)
	assert.Len(t, retrieveContext(long, "quantum"), 500)
}
