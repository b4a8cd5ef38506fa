// ABOUTME: Optional HTTP observability surface: health check and controller status.
// ABOUTME: Serves two read-only gin endpoints; disabled unless an address is configured.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoshiko-bot/hoshiko/internal/bot"
)

// Server exposes GET /healthz and GET /status for the running agent.
type Server struct {
	controller *bot.Controller
	ollamaURL  string
	engine     *gin.Engine
	client     *http.Client
	logger     *slog.Logger
}

// New creates the status server for the given controller. ollamaURL is the
// content backend probed by the health check.
func New(controller *bot.Controller, ollamaURL string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		controller: controller,
		ollamaURL:  ollamaURL,
		engine:     engine,
		client:     &http.Client{Timeout: 2 * time.Second},
		logger:     logger,
	}
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/status", s.handleStatus)
	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("status server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleHealth probes the content backend and reports reachability. The
// endpoint itself always answers 200; consumers inspect the fields.
func (s *Server) handleHealth(c *gin.Context) {
	ollamaOK := false
	req, err := http.NewRequestWithContext(c.Request.Context(), "GET", s.ollamaURL, nil)
	if err == nil {
		resp, err := s.client.Do(req)
		if err == nil {
			ollamaOK = resp.StatusCode == http.StatusOK
			_ = resp.Body.Close()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ollama":     ollamaOK,
		"simulation": s.controller.Status().Simulation,
	})
}

// handleStatus returns the controller's latest cycle snapshot.
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Status())
}
