// Package builder holds the explicit application state behind the
// editor surface: the canonical graph, the current selection, chat
// visibility, the shared document list and the build lifecycle.
// Selection is a weak reference: only the node id is stored, and every
// read re-resolves it against the graph.
package builder

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/chat"
	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/workflow"
)

// Embedding generation is fire-and-forget; its outcome lands in a
// status field instead of an error return.
const (
	EmbeddingPending = "pending"
	EmbeddingReady   = "ready"
	EmbeddingFailed  = "failed"
)

// BuildService stores a validated workflow remotely.
type BuildService interface {
	SaveWorkflow(ctx context.Context, snap *workflow.Snapshot) (string, error)
}

// UploadService ingests documents and kicks off embedding generation.
type UploadService interface {
	UploadDocument(ctx context.Context, filename string, content io.Reader) (workflow.DocumentRef, error)
	GenerateEmbeddings(ctx context.Context, documentID string) error
}

type Builder struct {
	graph      *workflow.Graph
	controller *workflow.Controller
	session    *chat.Session
	builds     BuildService
	uploads    UploadService
	logger     *zap.Logger

	mu          sync.Mutex
	selectedID  string
	chatOpen    bool
	documents   []workflow.DocumentRef
	built       bool
	workflowID  string
	embedStatus map[string]string
}

func New(builds BuildService, uploads UploadService, executor chat.Executor, logger *zap.Logger) *Builder {
	graph := workflow.NewGraph()
	return &Builder{
		graph:       graph,
		controller:  workflow.NewController(graph, logger),
		session:     chat.NewSession(executor, logger),
		builds:      builds,
		uploads:     uploads,
		logger:      logger,
		embedStatus: make(map[string]string),
	}
}

func (b *Builder) Graph() *workflow.Graph           { return b.graph }
func (b *Builder) Controller() *workflow.Controller { return b.controller }
func (b *Builder) Session() *chat.Session           { return b.session }

// SelectNode records a node id as selected. The id is kept even if it
// later disappears; SelectedNode resolves that lazily.
func (b *Builder) SelectNode(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selectedID = id
}

func (b *Builder) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selectedID = ""
}

// SelectedNode re-resolves the selection against the canonical graph.
// A selection whose node was removed reads as no selection.
func (b *Builder) SelectedNode() (workflow.Node, bool) {
	b.mu.Lock()
	id := b.selectedID
	b.mu.Unlock()

	if id == "" {
		return workflow.Node{}, false
	}
	return b.graph.NodeByID(id)
}

// ToggleChat flips chat visibility and reports the new state.
func (b *Builder) ToggleChat() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatOpen = !b.chatOpen
	return b.chatOpen
}

func (b *Builder) ChatOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chatOpen
}

// Documents lists the uploaded document references, append order.
func (b *Builder) Documents() []workflow.DocumentRef {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]workflow.DocumentRef, len(b.documents))
	copy(out, b.documents)
	return out
}

// Built reports whether a build has succeeded locally this session.
func (b *Builder) Built() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.built
}

// WorkflowID returns the id assigned by the remote save, if any.
func (b *Builder) WorkflowID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.workflowID
}

// EmbeddingStatus reports the best-effort embedding outcome for a
// document: pending, ready, failed, or empty if unknown.
func (b *Builder) EmbeddingStatus(documentID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.embedStatus[documentID]
}

// BuildStack validates the graph and, on success, attempts the remote
// save. Validation failure blocks the build and is returned to the
// caller. A save failure is logged only: the workflow still counts as
// built locally and chat stays available.
func (b *Builder) BuildStack(ctx context.Context) (*workflow.Snapshot, error) {
	snap, err := workflow.Validate(b.graph)
	if err != nil {
		return nil, err
	}

	id, err := b.builds.SaveWorkflow(ctx, snap)
	if err != nil {
		b.logger.Warn("remote save failed, keeping local build", zap.Error(err))
	}

	b.mu.Lock()
	b.built = true
	if err == nil {
		b.workflowID = id
	}
	b.mu.Unlock()
	return snap, nil
}

// UploadDocument sends a file to the upload service. On success the
// reference joins the shared document list, every knowledge-base node
// picks it up, and embedding generation starts in the background. On
// failure the file is discarded and no state changes.
func (b *Builder) UploadDocument(ctx context.Context, filename string, content io.Reader) (workflow.DocumentRef, error) {
	ref, err := b.uploads.UploadDocument(ctx, filename, content)
	if err != nil {
		return workflow.DocumentRef{}, err
	}

	b.mu.Lock()
	b.documents = append(b.documents, ref)
	docs := make([]workflow.DocumentRef, len(b.documents))
	copy(docs, b.documents)
	b.embedStatus[ref.DocumentID] = EmbeddingPending
	b.mu.Unlock()

	for _, n := range b.graph.Nodes() {
		if n.Kind != workflow.KindKnowledgeBase {
			continue
		}
		if _, err := b.graph.UpdateNodeConfig(n.ID, map[string]any{"documents": docs}); err != nil {
			b.logger.Warn("could not attach document to knowledge base node",
				zap.String("node", n.ID), zap.Error(err))
		}
	}

	go b.generateEmbeddings(ref.DocumentID)
	return ref, nil
}

func (b *Builder) generateEmbeddings(documentID string) {
	status := EmbeddingReady
	if err := b.uploads.GenerateEmbeddings(context.Background(), documentID); err != nil {
		b.logger.Warn("embedding generation failed",
			zap.String("document", documentID), zap.Error(err))
		status = EmbeddingFailed
	}

	b.mu.Lock()
	b.embedStatus[documentID] = status
	b.mu.Unlock()
}
