package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"gigtrack/internal/cache"
	"gigtrack/internal/core"
	"gigtrack/internal/services"
	"gigtrack/internal/transit"
)

// Store is the read/write surface the handlers need from storage.
type Store interface {
	ListEarnings(ctx context.Context) ([]core.Earning, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	ListEarningsBetween(ctx context.Context, from, to time.Time) ([]core.Earning, error)

	CreateTarget(ctx context.Context, t core.Target) (core.Target, error)
	ListTargets(ctx context.Context) ([]core.Target, error)
	GetTarget(ctx context.Context, id int64) (core.Target, error)
	UpdateTargetCurrent(ctx context.Context, id int64, current core.Money) error
	DeleteTarget(ctx context.Context, id int64) error

	ListPlatforms(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type Server struct {
	http.Server

	store   Store
	entries *services.EntryService
	arrival transit.Source

	rateLimiter *rateLimiter

	// Transit responses are slow upstream calls; cache them and guard
	// refreshes with per-key generation tokens.
	flightCache    *cache.LRUCache[[]core.TimedEvent]
	transportCache *cache.LRUCache[[]core.TimedEvent]
	cityCache      *cache.LRUCache[transit.CityArrivals]
	generations    *cache.Generations
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, store Store, entries *services.EntryService, arrival transit.Source, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:          store,
		entries:        entries,
		arrival:        arrival,
		rateLimiter:    newRateLimiter(),
		flightCache:    cache.NewLRUCache[[]core.TimedEvent](cacheSize, cacheTTL),
		transportCache: cache.NewLRUCache[[]core.TimedEvent](cacheSize, cacheTTL),
		cityCache:      cache.NewLRUCache[transit.CityArrivals](cacheSize, cacheTTL),
		generations:    cache.NewGenerations(),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.flightCache)
	s.cacheManager.Register(s.transportCache)
	s.cacheManager.Register(s.cityCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/earnings", s.withSecurityHeaders(s.handleEarnings))
	mux.HandleFunc("/api/expenses", s.withSecurityHeaders(s.handleExpenses))
	mux.HandleFunc("/api/targets", s.withSecurityHeaders(s.handleTargets))
	mux.HandleFunc("/api/labels", s.withSecurityHeaders(s.handleLabels))
	mux.HandleFunc("/api/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/api/city/arrivals", s.withSecurityHeaders(s.handleCityArrivals))

	mux.HandleFunc("/functions/get-flight-data", s.withSecurityHeaders(s.handleFlightData))
	mux.HandleFunc("/functions/get-transport-data", s.withSecurityHeaders(s.handleTransportData))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		// Generate request ID for tracing
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Apply rate limiting to mutating requests
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			WriteError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Capture status code for the completion log
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
