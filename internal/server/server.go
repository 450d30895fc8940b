package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
	"github.com/hykleas/Review-Guard/internal/config"
	"github.com/hykleas/Review-Guard/internal/dispatch"
	"github.com/hykleas/Review-Guard/internal/infrastructure/memory"
	mongodoc "github.com/hykleas/Review-Guard/internal/infrastructure/mongo"
	adminhttp "github.com/hykleas/Review-Guard/internal/interfaces/http/admin"
	commonhttp "github.com/hykleas/Review-Guard/internal/interfaces/http/common"
	publichttp "github.com/hykleas/Review-Guard/internal/interfaces/http/public"
	"github.com/hykleas/Review-Guard/internal/observability"
	publicapp "github.com/hykleas/Review-Guard/internal/public/application"
	"github.com/hykleas/Review-Guard/internal/ratelimit"
)

// Server owns the HTTP lifecycle and wires storage, limiter and services into the handlers.
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	redis          *redis.Client
	registry       *prometheus.Registry
	intake         publicapp.IntakeService
	dashboard      adminapp.DashboardService
	jwt            config.JWTConfig
	jwtAudience    string
	publicBaseURL  string
	addr           string
	allowedOrigins []string
	now            func() time.Time
}

// Dependencies are the external clients opened by the caller. Either may be nil.
type Dependencies struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

type profileStore interface {
	publicapp.ProfileRepository
	adminapp.ProfileRepository
}

type reviewStore interface {
	publicapp.ReviewRepository
	adminapp.ReviewRepository
}

// New builds the services for cfg. Mongo is required unless cfg.Storage is memory.
func New(cfg config.Config, deps Dependencies) (*Server, error) {
	logger := cfg.ServerLog
	if logger == nil {
		logger = log.New(os.Stdout, "[review-guard] ", log.LstdFlags)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Printf("failed to load timezone %s: %v, using UTC", cfg.Timezone, err)
		loc = time.UTC
	}

	registry := prometheus.NewRegistry()
	metrics, err := observability.NewIntakeMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create intake metrics: %w", err)
	}

	var (
		profiles profileStore
		reviews  reviewStore
		failures publichttp.FailureStore
	)
	switch cfg.Storage {
	case config.StorageMemory:
		profiles = memory.NewProfileRepository()
		reviews = memory.NewReviewRepository()
		logger.Printf("using in-memory storage; data is lost on restart")
	default:
		if deps.Mongo == nil {
			return nil, errors.New("mongo client is required for mongo storage")
		}
		db := deps.Mongo.Database(cfg.MongoDatabase)
		profiles = mongodoc.NewProfileRepository(db, cfg.ProfileCollection)
		reviews = mongodoc.NewReviewRepository(db, cfg.ReviewCollection)
		failures = mongodoc.NewFailedNotificationRepository(db, cfg.FailedNotificationCollection)
	}

	var limiter publicapp.Limiter
	switch cfg.RateLimitBackend {
	case config.RateLimitRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis client is required for the redis rate limiter")
		}
		limiter = ratelimit.NewRedisLimiter(deps.Redis, ratelimit.WithPrefix(cfg.RedisPrefix), ratelimit.WithLogger(logger))
	default:
		limiter = ratelimit.NewMemoryLimiter()
	}

	dispatcher := dispatch.New(dispatch.Config{
		Logger:  logger,
		Delay:   cfg.DeepLinkFallbackDelay,
		Metrics: metrics,
	})

	var notifier publicapp.OwnerNotifier
	if n := publichttp.NewNotifier(publichttp.NotifierConfig{
		Logger:      logger,
		HTTPClient:  &http.Client{Timeout: cfg.MessengerTimeout},
		Endpoint:    cfg.MessengerEndpoint,
		Destination: cfg.MessengerDestination,
		Failures:    failures,
		RPS:         cfg.MessengerRPS,
	}); n != nil {
		notifier = n
	}

	srv := &Server{
		logger:         logger,
		client:         deps.Mongo,
		redis:          deps.Redis,
		registry:       registry,
		jwt:            cfg.JWT,
		jwtAudience:    cfg.JWTAudience,
		publicBaseURL:  cfg.PublicBaseURL,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		now:            time.Now,
	}
	srv.intake = publicapp.NewIntakeService(publicapp.IntakeConfig{
		Logger:         logger,
		Profiles:       profiles,
		Reviews:        reviews,
		Sessions:       memory.NewSessionStore(cfg.SessionTTL),
		Limiter:        limiter,
		Dispatcher:     dispatcher,
		Notifier:       notifier,
		Metrics:        metrics,
		MaxSubmissions: cfg.RateLimitMax,
		Window:         cfg.RateLimitWindow,
	})
	srv.dashboard = adminapp.NewDashboardService(adminapp.DashboardConfig{
		Logger:   logger,
		Profiles: profiles,
		Reviews:  reviews,
		Location: loc,
	})
	return srv, nil
}

// Router assembles middleware and mounts the public and dashboard handlers.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog:      s.logger,
		ErrorHandling: promhttp.HTTPErrorOnError,
	}))

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger: s.logger,
		Intake: s.intake,
	})
	publicHandler.Register(router)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:        s.logger,
		Dashboard:     s.dashboard,
		PublicBaseURL: s.publicBaseURL,
	})
	router.Route("/dashboard", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})
	return router
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on %s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS returns a middleware adding CORS headers for the allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "Retry-After")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports storage and limiter reachability. A Redis outage is
// reported but not fatal since the limiter fails open.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		payload := map[string]string{
			"status":  "ok",
			"storage": "memory",
			"time":    s.now().Format(time.RFC3339),
		}
		status := http.StatusOK

		if s.client != nil {
			payload["storage"] = "mongo"
			if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
				payload["status"] = "degraded"
				payload["error"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if s.redis != nil {
			payload["rateLimit"] = "redis"
			if err := s.redis.Ping(ctx).Err(); err != nil {
				payload["rateLimit"] = "redis unreachable, failing open"
			}
		}

		commonhttp.WriteJSON(s.logger, w, status, payload)
	}
}

// authMiddleware verifies the bearer JWT and stores the owner in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "expected a Bearer token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "access token is empty")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := commonhttp.AuthenticatedUser{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var errInvalidToken = errors.New("access token is invalid")

// parseAuthToken checks the HS256 signature, issuer, audience and subject.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwt.Secret) == 0 {
		return nil, errors.New("authentication is not configured")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.jwt.Secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	if s.jwt.Issuer != "" && claims.Issuer != s.jwt.Issuer {
		return nil, errInvalidToken
	}
	if claims.Subject == "" {
		return nil, errInvalidToken
	}
	if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
		return nil, errInvalidToken
	}
	return claims, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// shutdown closes the external clients.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if s.client != nil {
		if err := s.client.Disconnect(shutdownCtx); err != nil {
			s.logger.Printf("MongoDB disconnect failed: %v", err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Printf("Redis close failed: %v", err)
		}
	}
}

// waitForShutdown blocks on ListenAndServe or an OS signal and shuts down gracefully.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("server stopped unexpectedly: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("server shutdown failed: %v", err)
		}
	}

	srv.shutdown(context.Background())
}
