// internal/devbackend/server.go
package devbackend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	apperrors "gemfinder/internal/common/errors"
	"gemfinder/internal/common/logger"
	"gemfinder/internal/common/metrics"
	"gemfinder/internal/common/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestIDHeader = "X-Request-ID"

// Server is a local stand-in for the gems REST API, backed by PostgreSQL.
type Server struct {
	store  *Store
	config *Config
	logger logger.Logger
	obs    *observability.Observability
	engine *gin.Engine
}

// NewServer wires the routes. obs may be nil.
func NewServer(store *Store, config *Config, log logger.Logger, obs *observability.Observability) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store:  store,
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "devbackend"}),
		obs:    obs,
		engine: gin.New(),
	}

	// Route on the escaped path so an id holding "%2F" stays one segment.
	s.engine.UseRawPath = true
	s.engine.UnescapePathValues = true
	s.engine.Use(gin.Recovery(), s.requestMiddleware())
	s.engine.GET("/gems", s.listGems)
	s.engine.GET("/categories", s.listCategories)
	s.engine.POST("/wishlist", s.addWishlist)
	s.engine.DELETE("/wishlist/:gemId", s.removeWishlist)
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev backend listening", map[string]interface{}{"address": s.config.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("dev backend shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

// requestMiddleware echoes the request id and records request metrics.
func (s *Server) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.DevBackendRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		if s.obs != nil {
			s.obs.RecordRequest(c.Request.Context(), route, status, time.Since(start))
		}
		s.logger.Debug("request served", map[string]interface{}{
			"method":    c.Request.Method,
			"route":     route,
			"status":    status,
			"requestId": requestID,
		})
	}
}

func (s *Server) listGems(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "page must be a positive integer"})
		return
	}

	rows, total, err := s.store.ListGems(c.Request.Context(), page, s.config.PageSize)
	if err != nil {
		s.fail(c, "list gems", err)
		return
	}

	resp := gemsResponse{
		Result:     make([]gemJSON, 0, len(rows)),
		TotalPages: totalPages(total, s.config.PageSize),
		TotalItems: total,
	}
	for _, r := range rows {
		resp.Result = append(resp.Result, r.toJSON())
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listCategories(c *gin.Context) {
	rows, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		s.fail(c, "list categories", err)
		return
	}

	resp := categoriesResponse{Result: make([]categoryJSON, 0, len(rows))}
	for _, r := range rows {
		resp.Result = append(resp.Result, categoryJSON{ID: r.ID, CategoryName: r.CategoryName})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) addWishlist(c *gin.Context) {
	userID, ok := s.user(c)
	if !ok {
		return
	}

	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "gemId is required"})
		return
	}

	if err := s.store.AddWishlist(c.Request.Context(), userID, req.GemID); err != nil {
		s.fail(c, "add wishlist", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) removeWishlist(c *gin.Context) {
	userID, ok := s.user(c)
	if !ok {
		return
	}

	if err := s.store.RemoveWishlist(c.Request.Context(), userID, c.Param("gemId")); err != nil {
		s.fail(c, "remove wishlist", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// user reads the session cookie; it writes a 401 when there is none.
func (s *Server) user(c *gin.Context) (string, bool) {
	userID, err := c.Cookie(SessionCookie)
	if err != nil || userID == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Message: "Please log in"})
		return "", false
	}
	return userID, true
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	stdErr := apperrors.Normalize(err)
	s.logger.Error("request failed", map[string]interface{}{
		"operation": op,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	c.JSON(http.StatusInternalServerError, errorResponse{Message: stdErr.Message})
}
