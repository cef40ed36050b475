// Package server exposes the conversation over HTTP: chat submits, history
// reads, hand-off introspection, and the pin slot.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hanneskern95-jpg/AI-assistant/internal/conversation"
	"github.com/hanneskern95-jpg/AI-assistant/internal/session"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/config"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

// Server wires the session into a gin router and owns its lifecycle.
type Server struct {
	cfg     *config.Config
	session *session.Session
	logger  *zap.Logger

	// submitMu serializes chat submits. Assistants are single-writer; the
	// HTTP layer enforces one in-flight exchange at a time.
	submitMu sync.Mutex
}

// New builds a server around the session.
func New(cfg *config.Config, sess *session.Session) *Server {
	return &Server{
		cfg:     cfg,
		session: sess,
		logger:  logger.Get(),
	}
}

// Router assembles the gin engine. Split from Run so tests can drive the
// handlers with httptest.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/history", s.handleHistory)
		api.GET("/assistant", s.handleAssistant)
		api.POST("/pin", s.handlePin)
		api.GET("/pin", s.handleGetPin)
		api.DELETE("/pin", s.handleClearPin)
	}

	return router
}

// handleChat runs one exchange against whichever assistant is active and
// applies any hand-off the result requests before replying.
func (s *Server) handleChat(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	active := s.session.Active()
	result, err := active.Submit(c.Request.Context(), req.Message)
	if err != nil {
		s.logger.Error("Submit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	rendered := result.Content
	if result.Result != nil {
		s.session.Apply(result.Result)
		rendered = active.RenderResult(result.ToolName, result.Result)
	}

	c.JSON(http.StatusOK, gin.H{
		"assistant": s.session.Active().Name(),
		"content":   result.Content,
		"tool_name": result.ToolName,
		"result":    result.Result,
		"rendered":  rendered,
	})
}

// handleHistory returns the active assistant's turn log.
func (s *Server) handleHistory(c *gin.Context) {
	active := s.session.Active()
	c.JSON(http.StatusOK, gin.H{
		"assistant": active.Name(),
		"turns":     active.History(),
	})
}

// handleAssistant reports which assistant is handling submits.
func (s *Server) handleAssistant(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active": s.session.Active().Name(),
		"master": s.session.Master().Name(),
	})
}

// handlePin pins the most recent successful tool result from the active
// assistant's history.
func (s *Server) handlePin(c *gin.Context) {
	active := s.session.Active()
	turns := active.History()

	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		if turn.Role != conversation.RoleTool || turn.Result == nil || turn.Result.IsError || turn.Result.Data == nil {
			continue
		}
		s.session.SetPin(turn.ToolName, turn.Result.Data)
		c.JSON(http.StatusOK, gin.H{"pinned": turn.ToolName})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "No pinnable tool result in history"})
}

// handleGetPin renders the pinned snapshot through the originating tool.
func (s *Server) handleGetPin(c *gin.Context) {
	pin := s.session.Pin()
	if pin == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nothing is pinned"})
		return
	}

	rendered := s.session.Master().RenderPinned(pin.ToolName, pin.Data)
	c.JSON(http.StatusOK, gin.H{
		"tool_name": pin.ToolName,
		"data":      pin.Data,
		"rendered":  rendered,
	})
}

// handleClearPin empties the pin slot.
func (s *Server) handleClearPin(c *gin.Context) {
	s.session.ClearPin()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// Run starts the HTTP listener and shuts it down cleanly when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server started", zap.String("port", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
