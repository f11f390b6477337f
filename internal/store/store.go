// Package store keeps the backend's in-process state: uploaded
// documents, their embeddings, and saved workflow definitions. There
// is no persistence behind it; the maps live and die with the process.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID         string    `json:"document_id"`
	Filename   string    `json:"filename"`
	Text       string    `json:"-"`
	WordCount  int       `json:"word_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// EmbeddingSet holds the vectors for one document plus the method tag
// ("openai" or "mock") that produced them.
type EmbeddingSet struct {
	DocumentID string
	Chunks     []string
	Vectors    [][]float32
	Method     string
}

// WorkflowNode and WorkflowEdge mirror the editor's wire format for a
// saved workflow. The backend keeps them untyped; only a few data keys
// (model, temperature, format) are read back at execution time.
type WorkflowNode struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Position map[string]float64 `json:"position"`
	Data     map[string]any     `json:"data"`
}

type WorkflowEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

type WorkflowDefinition struct {
	Nodes []WorkflowNode `json:"nodes"`
	Edges []WorkflowEdge `json:"edges"`
}

type SavedWorkflow struct {
	ID         string
	Definition WorkflowDefinition
	CreatedAt  time.Time
}

type Store struct {
	mu         sync.RWMutex
	documents  map[string]Document
	docOrder   []string
	embeddings map[string]EmbeddingSet
	workflows  map[string]SavedWorkflow
	lastSaved  string
}

func New() *Store {
	return &Store{
		documents:  make(map[string]Document),
		embeddings: make(map[string]EmbeddingSet),
		workflows:  make(map[string]SavedWorkflow),
	}
}

// AddDocument registers an uploaded document and returns its record.
func (s *Store) AddDocument(filename, text string, wordCount int) Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := Document{
		ID:         "doc_" + uuid.New().String(),
		Filename:   filename,
		Text:       text,
		WordCount:  wordCount,
		UploadedAt: time.Now(),
	}
	s.documents[doc.ID] = doc
	s.docOrder = append(s.docOrder, doc.ID)
	return doc
}

func (s *Store) Document(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	return doc, ok
}

// Documents returns all documents in upload order.
func (s *Store) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0, len(s.docOrder))
	for _, id := range s.docOrder {
		out = append(out, s.documents[id])
	}
	return out
}

// LatestDocument returns the most recently uploaded document.
func (s *Store) LatestDocument() (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docOrder) == 0 {
		return Document{}, false
	}
	return s.documents[s.docOrder[len(s.docOrder)-1]], true
}

// SetEmbeddings records the embedding result for a document,
// replacing any earlier run.
func (s *Store) SetEmbeddings(set EmbeddingSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings[set.DocumentID] = set
}

func (s *Store) Embeddings(documentID string) (EmbeddingSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.embeddings[documentID]
	return set, ok
}

// AllEmbeddings returns every embedding set, keyed by document id.
func (s *Store) AllEmbeddings() map[string]EmbeddingSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]EmbeddingSet, len(s.embeddings))
	for id, set := range s.embeddings {
		out[id] = set
	}
	return out
}

// SaveWorkflow stores a workflow definition and returns its id. The
// most recent save is what execution runs against.
func (s *Store) SaveWorkflow(def WorkflowDefinition) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf := SavedWorkflow{
		ID:         "workflow_" + uuid.New().String(),
		Definition: def,
		CreatedAt:  time.Now(),
	}
	s.workflows[wf.ID] = wf
	s.lastSaved = wf.ID
	return wf.ID
}

func (s *Store) Workflow(id string) (SavedWorkflow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[id]
	return wf, ok
}

// LatestWorkflow returns the most recently saved workflow.
func (s *Store) LatestWorkflow() (SavedWorkflow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastSaved == "" {
		return SavedWorkflow{}, false
	}
	wf, ok := s.workflows[s.lastSaved]
	return wf, ok
}
