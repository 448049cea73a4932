// Package server provides the HTTP API for the farewell-party engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/cluster"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/config"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/embedding"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/indexer"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/roles"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/search"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/similarity"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
)

// Server is the HTTP server for the member-profile API.
type Server struct {
	config     *config.Config
	storage    storage.Storage
	vectors    vector.Store
	gateway    *embedding.Gateway
	searcher   *search.Engine
	indexer    *indexer.Indexer
	similarity *similarity.Engine
	clusters   *cluster.Engine
	resolver   *roles.Resolver
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	cfg *config.Config,
	store storage.Storage,
	vectors vector.Store,
	gateway *embedding.Gateway,
	searcher *search.Engine,
	idx *indexer.Indexer,
	sim *similarity.Engine,
	clusters *cluster.Engine,
	resolver *roles.Resolver,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		config:     cfg,
		storage:    store,
		vectors:    vectors,
		gateway:    gateway,
		searcher:   searcher,
		indexer:    idx,
		similarity: sim,
		clusters:   clusters,
		resolver:   resolver,
		logger:     logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/members", s.handleCreateMember)
		r.Get("/members/{id}", s.handleGetMember)
		r.Get("/members/{id}/similar", s.handleSimilar)
		r.Get("/members/{id}/different", s.handleDifferent)
		r.Post("/search", s.handleSearch)
		r.Post("/clusters", s.handleClusters)
		r.Post("/role-assignment", s.handleRoleAssignment)
		r.Post("/admin/reembed", s.handleReembed)
		r.Post("/admin/embed-jobs", s.handleEmbedJobs)
		r.Get("/admin/roles", s.handleListRoles)
		r.Post("/admin/fixed-roles", s.handleSetFixedRole)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
