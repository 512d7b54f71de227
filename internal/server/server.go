package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FightFi/Sportsbook/internal/database"
	"github.com/FightFi/Sportsbook/internal/eventlog"
	"github.com/FightFi/Sportsbook/internal/handler"
	"github.com/FightFi/Sportsbook/internal/logger"
	"github.com/FightFi/Sportsbook/internal/metrics"
	"github.com/FightFi/Sportsbook/internal/sportsbook"
)

type Server struct {
	httpServer        *http.Server
	dbPool            database.Pool
	sportsbookService sportsbook.Service
	eventLogService   eventlog.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, sportsbookService sportsbook.Service, eventLogService eventlog.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack; chi executes in order defined, outermost first.
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		sportsbookHandler := handler.NewSportsbookHandler(sportsbookService)

		r.Route("/season", func(r chi.Router) {
			r.Post("/create", sportsbookHandler.HandleCreateSeason)
			r.Get("/get", sportsbookHandler.HandleGetSeason)
			r.Post("/predictions/lock", sportsbookHandler.HandleLockPredictions)
			r.Post("/resolve", sportsbookHandler.HandleResolveSeason)
			r.Post("/claim", sportsbookHandler.HandleClaim)
			r.Post("/recover", sportsbookHandler.HandleRecoverResidual)

			r.Route("/seed", func(r chi.Router) {
				r.Post("/preview", sportsbookHandler.HandleSeedPreview)
				r.Post("/fight", sportsbookHandler.HandleSeedFight)
				r.Post("/apply", sportsbookHandler.HandleSeedAllFights)
			})
		})

		r.Get("/position/payout", sportsbookHandler.HandleGetPositionPayout)

		// Audit trail
		if eventLogService != nil {
			r.Get("/events", handler.HandleGetEvents(eventLogService))
		}
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:            dbPool,
		sportsbookService: sportsbookService,
		eventLogService:   eventLogService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics probes are too chatty to log.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
