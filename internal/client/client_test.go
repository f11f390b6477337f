package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/workflow"
)

func TestExecute_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/execute-workflow", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["message"])

		json.NewEncoder(w).Encode(map[string]string{"response": "hi", "method": "mock"})
	}))
	defer srv.Close()

	reply, err := New(srv.URL).Execute(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", reply.Text)
	assert.Equal(t, "mock", reply.Method)
}

func TestExecute_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Execute(context.Background(), "hello")
	assert.Error(t, err)
}

func TestExecute_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer srv.Close()

	_, err := New(srv.URL).Execute(context.Background(), "hello")
	assert.Error(t, err)
}

func TestExecute_MissingResponseText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"method": "mock"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Execute(context.Background(), "hello")
	assert.Error(t, err)
}

func TestExecute_Unreachable(t *testing.T) {
	_, err := New("http://127.0.0.1:1").Execute(context.Background(), "hello")
	assert.Error(t, err)
}

func TestSaveWorkflow_SendsEditorWireFormat(t *testing.T) {
	var received workflowPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/save-workflow", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"workflow_id": "workflow_42"})
	}))
	defer srv.Close()

	g := workflow.NewGraph()
	uq, err := g.AddNode(workflow.KindUserQuery, workflow.Position{X: 0, Y: 0})
	require.NoError(t, err)
	llmNode, err := g.AddNode(workflow.KindLlmEngine, workflow.Position{X: 50, Y: 50})
	require.NoError(t, err)
	out, err := g.AddNode(workflow.KindOutput, workflow.Position{X: 100, Y: 100})
	require.NoError(t, err)
	_, err = g.AddConnection(uq.ID, llmNode.ID, "", "")
	require.NoError(t, err)
	_, err = g.AddConnection(llmNode.ID, out.ID, "", "")
	require.NoError(t, err)

	snap, err := workflow.Validate(g)
	require.NoError(t, err)

	id, err := New(srv.URL).SaveWorkflow(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, "workflow_42", id)

	require.Len(t, received.Nodes, 3)
	require.Len(t, received.Edges, 2)

	assert.Equal(t, "userQuery", received.Nodes[0].Type)
	assert.Equal(t, "llmEngine", received.Nodes[1].Type)
	assert.Equal(t, "gpt-3.5-turbo", received.Nodes[1].Data["model"])
	assert.Equal(t, "LLM Engine", received.Nodes[1].Data["label"])
	assert.Equal(t, "output", received.Nodes[2].Type)
	assert.Equal(t, "text", received.Nodes[2].Data["format"])

	assert.Equal(t, uq.ID, received.Edges[0].Source)
	assert.Equal(t, llmNode.ID, received.Edges[0].Target)
}

func TestSaveWorkflow_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := workflow.NewGraph()
	_, err := g.AddNode(workflow.KindUserQuery, workflow.Position{})
	require.NoError(t, err)
	_, err = g.AddNode(workflow.KindOutput, workflow.Position{})
	require.NoError(t, err)
	snap, err := workflow.Validate(g)
	require.NoError(t, err)

	_, err = New(srv.URL).SaveWorkflow(context.Background(), snap)
	assert.Error(t, err)
}

func TestUploadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload-document", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "notes.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "alpha beta gamma", string(content))

		json.NewEncoder(w).Encode(map[string]any{
			"document_id": "doc_1",
			"filename":    "notes.pdf",
			"word_count":  3,
		})
	}))
	defer srv.Close()

	ref, err := New(srv.URL).UploadDocument(context.Background(), "notes.pdf", strings.NewReader("alpha beta gamma"))
	require.NoError(t, err)
	assert.Equal(t, workflow.DocumentRef{DocumentID: "doc_1", Filename: "notes.pdf", WordCount: 3}, ref)
}

func TestGenerateEmbeddings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-embeddings/doc_1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"document_id": "doc_1", "method": "mock"})
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL).GenerateEmbeddings(context.Background(), "doc_1"))
}

func TestGenerateEmbeddings_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.Error(t, New(srv.URL).GenerateEmbeddings(context.Background(), "doc_missing"))
}
