// Package engine executes a chat message against the last saved
// workflow: it retrieves context from the most recent document, runs
// the configured language model, and falls back to canned responses
// when no model is reachable.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/llm"
	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/store"
)

const (
	contextSentences = 3
	contextFallback  = 500
	contextPreview   = 200
)

// Result is one executed exchange. Method tags how the response was
// produced: the provider name, or "mock" for locally generated text.
type Result struct {
	Response    string `json:"response"`
	ContextUsed string `json:"context_used,omitempty"`
	Method      string `json:"method"`
}

type Engine struct {
	store  *store.Store
	chat   llm.ChatClient
	logger *zap.Logger
	rng    *rand.Rand
}

func New(st *store.Store, chat llm.ChatClient, logger *zap.Logger) *Engine {
	return &Engine{
		store:  st,
		chat:   chat,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Execute answers one user message. It never returns an error: every
// failure path degrades to a mock response so the conversation keeps
// flowing.
func (e *Engine) Execute(ctx context.Context, message string) Result {
	doc, ok := e.store.LatestDocument()
	if !ok {
		return Result{
			Response: "No documents have been uploaded yet. Please upload a document first to enable knowledge-based responses.",
			Method:   "mock",
		}
	}

	docContext := retrieveContext(doc.Text, message)
	params := e.workflowParams()

	if e.chat != nil {
		system := fmt.Sprintf("You are a helpful assistant. Use the following context to answer the user's question: %s", docContext)
		answer, err := e.chat.Chat(ctx, params.model, system, message, params.temperature)
		if err == nil {
			return Result{
				Response:    formatResponse(params.format, answer),
				ContextUsed: truncate(docContext, contextPreview),
				Method:      e.chat.Provider(),
			}
		}
		e.logger.Warn("llm call failed, falling back to mock response",
			zap.String("model", params.model), zap.Error(err))
	}

	return Result{
		Response:    formatResponse(params.format, e.mockResponse(doc.Filename, message, docContext)),
		ContextUsed: truncate(docContext, contextPreview),
		Method:      "mock",
	}
}

// retrieveContext does sentence-level keyword matching against the
// document: sentences sharing a word with the query win, best three
// joined; with no match the document head stands in.
func retrieveContext(text, query string) string {
	queryWords := strings.Fields(strings.ToLower(query))
	var relevant []string
	for _, sentence := range strings.Split(text, ".") {
		lower := strings.ToLower(sentence)
		for _, word := range queryWords {
			if strings.Contains(lower, word) {
				relevant = append(relevant, strings.TrimSpace(sentence))
				break
			}
		}
		if len(relevant) == contextSentences {
			break
		}
	}
	if len(relevant) > 0 {
		return strings.Join(relevant, ". ")
	}
	if len(text) > contextFallback {
		return text[:contextFallback]
	}
	return text
}

var mockTemplates = []string{
	"Based on the document '%s', I can see that your query about '%s' relates to the following information: %s...",
	"According to the uploaded document, here's what I found regarding '%s' in '%s': %s...",
	"From the knowledge base document '%s', I can provide this information about '%s': %s...",
}

func (e *Engine) mockResponse(filename, query, docContext string) string {
	snippet := truncate(docContext, contextPreview)
	switch e.rng.Intn(len(mockTemplates)) {
	case 0:
		return fmt.Sprintf(mockTemplates[0], filename, query, snippet)
	case 1:
		return fmt.Sprintf(mockTemplates[1], query, filename, snippet)
	default:
		return fmt.Sprintf(mockTemplates[2], filename, query, snippet)
	}
}

// executionParams are read back from the last saved workflow's LLM
// Engine and Output nodes, with the palette defaults as a floor.
type executionParams struct {
	model       string
	temperature float32
	format      string
}

func (e *Engine) workflowParams() executionParams {
	params := executionParams{
		model:       "gpt-3.5-turbo",
		temperature: 0.7,
		format:      "text",
	}

	wf, ok := e.store.LatestWorkflow()
	if !ok {
		return params
	}
	for _, node := range wf.Definition.Nodes {
		switch node.Type {
		case "llmEngine":
			if m, ok := node.Data["model"].(string); ok && m != "" {
				params.model = m
			}
			if t, ok := node.Data["temperature"].(float64); ok {
				params.temperature = float32(t)
			}
		case "output":
			if f, ok := node.Data["format"].(string); ok && f != "" {
				params.format = f
			}
		}
	}
	return params
}

func formatResponse(format, text string) string {
	switch format {
	case "json":
		buf, err := json.Marshal(map[string]string{"response": text})
		if err != nil {
			return text
		}
		return string(buf)
	case "html":
		return "<p>" + html.EscapeString(text) + "</p>"
	default:
		// text and markdown pass through; model output already reads
		// as prose or markdown.
		return text
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
