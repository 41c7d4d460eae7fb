package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockinsight/internal/api"
	"stockinsight/internal/config"
	"stockinsight/internal/pipeline"
)

// Server is the HTTP surface over the analysis pipeline. The pipeline is
// stateless, so concurrent requests run independent analyses with no
// locking.
type Server struct {
	router *gin.Engine
	cfg    *config.AppConfig
}

// New creates the server.
func New(cfg *config.AppConfig, log *zap.Logger) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20

	pipe := pipeline.New(cfg.PipelineOptions(), log)
	handler := api.NewHandler(pipe, log)

	s := &Server{router: router, cfg: cfg}
	s.setupRoutes(handler)
	return s
}

func (s *Server) setupRoutes(handler *api.Handler) {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	handler.RegisterRoutes(apiGroup)
}

// Run starts listening on the configured port.
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%d", s.cfg.Server.Port))
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
