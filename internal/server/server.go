package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/authwave/apiserver/config"
	"github.com/authwave/apiserver/internal/auth"
	"github.com/authwave/apiserver/internal/db"
	"github.com/authwave/apiserver/internal/handlers"
	"github.com/authwave/apiserver/internal/services"
	"github.com/authwave/apiserver/internal/storage"
	"github.com/authwave/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
}

// New constructs a Server, building the store and storage backends the
// config selects.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	userStore, pool, err := newUserStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backend, err := newStorageBackend(ctx, cfg)
	if err != nil {
		if pool != nil {
			_ = pool.Close()
		}
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	srv, err := NewWithDeps(cfg, userStore, storage.NewStorage(backend), logger)
	if err != nil {
		if pool != nil {
			_ = pool.Close()
		}
		return nil, err
	}
	srv.db = pool
	return srv, nil
}

// NewWithDeps constructs a Server around injected collaborators, so
// tests can substitute in-memory fakes for the managed stores.
func NewWithDeps(cfg config.Config, userStore store.UserStore, objectStorage *storage.Storage, logger *slog.Logger) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	tokens := auth.NewTokenIssuer(jwtSecret, auth.DefaultTokenTTL)
	userService := services.NewUserService(userStore)
	authMiddleware := handlers.RequireAuth(tokens)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, tokens, logger)
	})
	router.Route("/profile", func(r chi.Router) {
		handlers.ProfileRouter(r, userService, objectStorage, authMiddleware, logger)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
	}, nil
}

func newUserStore(ctx context.Context, cfg config.Config) (store.UserStore, *sql.DB, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendDynamo:
		dynamoStore, err := store.NewDynamoStore(ctx, cfg.Dynamo)
		if err != nil {
			return nil, nil, err
		}
		return dynamoStore, nil, nil
	case config.StoreBackendPostgres:
		pool, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(pool), pool, nil
	case config.StoreBackendMemory:
		return store.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func newStorageBackend(ctx context.Context, cfg config.Config) (storage.ObjectStorage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMinio:
		return storage.NewMinioClient(cfg.Minio)
	case config.StorageBackendGCS:
		return storage.NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
