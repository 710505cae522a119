// Package http serves the JSON API over the transaction store.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"rocel/internal/cache"
	"rocel/internal/log"
	"rocel/internal/query"
	"rocel/internal/store"
)

const (
	summaryCacheKey = "summary"
	summaryCacheTTL = 5 * time.Minute
)

// Server is the API server. It embeds http.Server so callers drive it
// with ListenAndServe and Shutdown.
type Server struct {
	http.Server

	store  *store.Store
	engine *query.Engine
	logger *log.Logger
	reqLog *log.StructuredLogger

	limiter *mutationLimiter
	metrics securityMetrics

	// Dashboard summaries are cached between mutations.
	summaryCache *cache.LRUCache[query.Summary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a server ready
// for ListenAndServe. mutationsPerMinute caps state-changing requests
// per client IP.
func NewServer(addr string, st *store.Store, engine *query.Engine, logger *log.Logger, mutationsPerMinute int) *Server {
	mux := http.NewServeMux()

	httpLogger := logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:        st,
		engine:       engine,
		logger:       httpLogger,
		reqLog:       log.NewStructuredLogger(httpLogger),
		limiter:      newMutationLimiter(mutationsPerMinute, 5*time.Minute),
		summaryCache: cache.NewLRUCache[query.Summary](8, summaryCacheTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/transactions", s.withGuards(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withGuards(s.handleTransactionByID))
	mux.HandleFunc("/api/summary", s.withGuards(s.handleSummary))
	mux.HandleFunc("/api/settings", s.withGuards(s.handleSettings))
	mux.HandleFunc("/api/export", s.withGuards(s.handleExport))
	mux.HandleFunc("/api/import", s.withGuards(s.handleImport))

	return s
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withGuards wraps a handler with client IP extraction, request ID
// tagging, rate limiting on mutations, probe detection, security headers
// and request lifecycle logging.
func (s *Server) withGuards(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		reqLogger := s.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, reqLogger)
		r = r.WithContext(ctx)

		s.reqLog.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, &s.metrics) {
			reqLogger.WarnContext(ctx, "Suspicious request detected",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		if isMutation(r.Method) && !s.limiter.allow(clientIP, &s.metrics) {
			reqLogger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.reqLog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// invalidateSummary drops the cached dashboard summary after a mutation.
func (s *Server) invalidateSummary() {
	s.summaryCache.Delete(summaryCacheKey)
}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
