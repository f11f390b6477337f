package server

import (
	"io"
	"math/rand"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/store"
)

const (
	realChunkSize = 8000
	mockChunkSize = 1000
	mockDims      = 1536
	previewChars  = 500
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Workflow Builder API is running"})
}

func (s *Server) uploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	if !hasSupportedExtension(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and text files are supported"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}

	text, err := s.extract(file.Filename, data)
	if err != nil {
		s.logger.Error("text extraction failed", zap.String("filename", file.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing document: " + err.Error()})
		return
	}

	doc := s.store.AddDocument(file.Filename, text, len(strings.Fields(text)))
	s.logger.Info("document uploaded",
		zap.String("document", doc.ID),
		zap.String("filename", doc.Filename),
		zap.Int("word_count", doc.WordCount))

	preview := text
	if len(preview) > previewChars {
		preview = preview[:previewChars] + "..."
	}
	c.JSON(http.StatusOK, gin.H{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"text_length": len(text),
		"word_count":  doc.WordCount,
		"preview":     preview,
	})
}

func hasSupportedExtension(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".pdf") || strings.HasSuffix(lower, ".txt")
}

// generateEmbeddings embeds a document with the configured embedder,
// degrading to random mock vectors when none is available or the
// provider call fails. The endpoint itself still succeeds in the mock
// case; only an unknown document is an error.
func (s *Server) generateEmbeddings(c *gin.Context) {
	docID := c.Param("id")
	doc, ok := s.store.Document(docID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if s.embedder != nil {
		chunks := chunkText(doc.Text, realChunkSize)
		vectors := make([][]float32, 0, len(chunks))
		var embedErr error
		for _, chunk := range chunks {
			vec, err := s.embedder.Embed(c.Request.Context(), chunk)
			if err != nil {
				embedErr = err
				break
			}
			vectors = append(vectors, vec)
		}
		if embedErr == nil {
			set := store.EmbeddingSet{
				DocumentID: docID,
				Chunks:     chunks,
				Vectors:    vectors,
				Method:     "openai",
			}
			s.store.SetEmbeddings(set)
			c.JSON(http.StatusOK, gin.H{
				"document_id":      docID,
				"embeddings_count": len(vectors),
				"method":           set.Method,
				"chunks_count":     len(chunks),
			})
			return
		}
		s.logger.Warn("embedding provider failed, generating mock embeddings",
			zap.String("document", docID), zap.Error(embedErr))
	}

	chunks := chunkText(doc.Text, mockChunkSize)
	vectors := make([][]float32, 0, len(chunks))
	for range chunks {
		vec := make([]float32, mockDims)
		for i := range vec {
			vec[i] = rand.Float32()
		}
		vectors = append(vectors, vec)
	}
	s.store.SetEmbeddings(store.EmbeddingSet{
		DocumentID: docID,
		Chunks:     chunks,
		Vectors:    vectors,
		Method:     "mock",
	})
	c.JSON(http.StatusOK, gin.H{
		"document_id":      docID,
		"embeddings_count": len(vectors),
		"method":           "mock",
		"chunks_count":     len(chunks),
	})
}

func chunkText(text string, size int) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	for start := 0; start < len(text); start += size {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

func (s *Server) saveWorkflow(c *gin.Context) {
	var def store.WorkflowDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workflow"})
		return
	}

	id := s.store.SaveWorkflow(def)
	s.logger.Info("workflow saved",
		zap.String("workflow", id),
		zap.Int("nodes", len(def.Nodes)),
		zap.Int("edges", len(def.Edges)))
	c.JSON(http.StatusOK, gin.H{
		"workflow_id": id,
		"message":     "Workflow saved successfully",
	})
}

type executeRequest struct {
	Message    string `json:"message"`
	WorkflowID string `json:"workflow_id,omitempty"`
}

func (s *Server) executeWorkflow(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result := s.engine.Execute(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, result)
}

func (s *Server) listDocuments(c *gin.Context) {
	docs := s.store.Documents()
	out := make(map[string]gin.H, len(docs))
	for _, doc := range docs {
		out[doc.ID] = gin.H{
			"filename":    doc.Filename,
			"word_count":  doc.WordCount,
			"upload_time": doc.UploadedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"documents": out})
}

func (s *Server) listEmbeddings(c *gin.Context) {
	sets := s.store.AllEmbeddings()
	out := make(map[string]gin.H, len(sets))
	for id, set := range sets {
		out[id] = gin.H{
			"method":       set.Method,
			"chunks_count": len(set.Chunks),
		}
	}
	c.JSON(http.StatusOK, gin.H{"embeddings": out})
}
