// Package client talks to the workflow backend: document upload,
// embedding generation, workflow save and chat execution. The editor
// core treats all of these as remote collaborators and classifies
// their failures; none of them may corrupt local editing state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/chat"
	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/workflow"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadDocument sends a file to the upload service and returns the
// document reference the knowledge base keeps.
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader) (workflow.DocumentRef, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return workflow.DocumentRef{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return workflow.DocumentRef{}, err
	}
	if err := mw.Close(); err != nil {
		return workflow.DocumentRef{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-document", &body)
	if err != nil {
		return workflow.DocumentRef{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return workflow.DocumentRef{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return workflow.DocumentRef{}, fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	var out struct {
		DocumentID string `json:"document_id"`
		Filename   string `json:"filename"`
		WordCount  int    `json:"word_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return workflow.DocumentRef{}, fmt.Errorf("malformed upload response: %w", err)
	}
	return workflow.DocumentRef{
		DocumentID: out.DocumentID,
		Filename:   out.Filename,
		WordCount:  out.WordCount,
	}, nil
}

// GenerateEmbeddings asks the backend to embed an uploaded document.
// Callers treat this as best-effort; an error here never fails the
// upload that preceded it.
func (c *Client) GenerateEmbeddings(ctx context.Context, documentID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/generate-embeddings/"+documentID, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding rejected with status %d", resp.StatusCode)
	}
	return nil
}

// SaveWorkflow submits a validated snapshot and returns the workflow id
// assigned by the backend.
func (c *Client) SaveWorkflow(ctx context.Context, snap *workflow.Snapshot) (string, error) {
	payload := snapshotPayload(snap)
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/save-workflow", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("save request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("save rejected with status %d", resp.StatusCode)
	}

	var out struct {
		WorkflowID string `json:"workflow_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("malformed save response: %w", err)
	}
	return out.WorkflowID, nil
}

// Execute runs one chat message against the last saved workflow. It
// implements chat.Executor. Any transport failure, non-OK status or
// body without a response text counts as a failed exchange.
func (c *Client) Execute(ctx context.Context, message string) (chat.Reply, error) {
	buf, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return chat.Reply{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/execute-workflow", bytes.NewReader(buf))
	if err != nil {
		return chat.Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("execute request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return chat.Reply{}, fmt.Errorf("execute rejected with status %d", resp.StatusCode)
	}

	var out struct {
		Response string `json:"response"`
		Method   string `json:"method"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return chat.Reply{}, fmt.Errorf("malformed execute response: %w", err)
	}
	if out.Response == "" {
		return chat.Reply{}, fmt.Errorf("execute response missing text")
	}
	return chat.Reply{Text: out.Response, Method: out.Method}, nil
}

type nodePayload struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Position workflow.Position `json:"position"`
	Data     map[string]any    `json:"data"`
}

type edgePayload struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

type workflowPayload struct {
	Nodes []nodePayload `json:"nodes"`
	Edges []edgePayload `json:"edges"`
}

func snapshotPayload(snap *workflow.Snapshot) workflowPayload {
	out := workflowPayload{
		Nodes: make([]nodePayload, 0, len(snap.Nodes)),
		Edges: make([]edgePayload, 0, len(snap.Connections)),
	}
	for _, n := range snap.Nodes {
		data := n.Config.Options()
		if comp, ok := workflow.Lookup(n.Kind); ok {
			data["label"] = comp.Label
		}
		out.Nodes = append(out.Nodes, nodePayload{
			ID:       n.ID,
			Type:     string(n.Kind),
			Position: n.Position,
			Data:     data,
		})
	}
	for _, c := range snap.Connections {
		out.Edges = append(out.Edges, edgePayload{
			ID:           c.ID,
			Source:       c.SourceID,
			Target:       c.TargetID,
			SourceHandle: c.SourceHandle,
			TargetHandle: c.TargetHandle,
		})
	}
	return out
}
