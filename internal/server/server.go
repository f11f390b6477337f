package server

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/config"
	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/engine"
	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/llm"
	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/store"
)

// TextExtractor turns an uploaded file into plain text. Real PDF
// parsing lives outside this service; the default extractor treats the
// bytes as UTF-8 text.
type TextExtractor func(filename string, data []byte) (string, error)

func plainText(_ string, data []byte) (string, error) {
	return string(data), nil
}

type Server struct {
	cfg      *config.Config
	store    *store.Store
	engine   *engine.Engine
	embedder llm.EmbedderClient
	extract  TextExtractor
	logger   *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	chatClient, embedder, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	if chatClient == nil {
		logger.Info("no llm provider configured, responses will be mocked")
	}

	st := store.New()
	return &Server{
		cfg:      cfg,
		store:    st,
		engine:   engine.New(st, chatClient, logger),
		embedder: embedder,
		extract:  plainText,
		logger:   logger,
	}, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = s.cfg.Server.AllowedOrigins
	corsCfg.AllowCredentials = true
	r.Use(cors.New(corsCfg))

	r.GET("/", s.health)
	r.POST("/upload-document", s.uploadDocument)
	r.POST("/generate-embeddings/:id", s.generateEmbeddings)
	r.POST("/save-workflow", s.saveWorkflow)
	r.POST("/execute-workflow", s.executeWorkflow)
	r.GET("/documents", s.listDocuments)
	r.GET("/embeddings", s.listEmbeddings)

	return r
}
