package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/cluster"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/roles"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileCount, err := s.storage.CountProfiles(ctx)
	if err != nil {
		s.logger.Error("status: count profiles failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jobCount, err := s.storage.CountJobs(ctx)
	if err != nil {
		s.logger.Error("status: count jobs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	vectorCounts := map[string]int{}
	for _, ns := range []string{models.NamespaceIntro, models.NamespaceInterests, models.NamespaceJobs} {
		n, err := s.vectors.Count(ctx, ns)
		if err != nil {
			s.logger.Error("status: vector count failed", zap.String("namespace", ns), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		vectorCounts[ns] = n
	}

	resp := map[string]interface{}{
		"profiles": profileCount,
		"jobs":     jobCount,
		"vectors":  vectorCounts,
		"config": map[string]interface{}{
			"embedding_provider":   s.config.Embedding.Provider,
			"embedding_dimensions": s.config.Embedding.Dimensions,
			"embedding_configured": s.gateway.Configured(),
			"database_path":        s.config.Storage.DatabasePath,
			"bleve_index_path":     s.config.Storage.BleveIndexPath,
			"vector_index_path":    s.config.Storage.VectorIndexPath,
		},
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.BleveIndexPath,
		s.config.Storage.VectorIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var input models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	p, err := s.indexer.IndexProfile(r.Context(), &input)
	if err != nil {
		s.logger.Error("index profile failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.storage.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "member not found")
			return
		}
		s.logger.Error("get profile failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

// neighborParams parses the limit and criteria query parameters shared by
// the similar/different endpoints.
func (s *Server) neighborParams(r *http.Request) (limit int, criteria string, err error) {
	limit = s.config.Search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return 0, "", errors.New("limit must be a positive integer")
		}
	}
	if limit > s.config.Search.MaxLimit {
		limit = s.config.Search.MaxLimit
	}
	criteria = r.URL.Query().Get("criteria")
	if criteria == "" {
		criteria = models.NamespaceIntro
	}
	if !models.ValidFacet(criteria) {
		return 0, "", errors.New("unknown criteria")
	}
	return limit, criteria, nil
}

type neighborQuery func(ctx context.Context, memberID string, topK int, namespace string) (*models.SimilarityResult, error)

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	s.handleNeighbors(w, r, s.similarity.QuerySimilar)
}

func (s *Server) handleDifferent(w http.ResponseWriter, r *http.Request) {
	s.handleNeighbors(w, r, s.similarity.QueryDifferent)
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request, query neighborQuery) {
	id := chi.URLParam(r, "id")
	limit, criteria, err := s.neighborParams(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.storage.GetProfile(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "member not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result, err := query(r.Context(), id, limit, criteria)
	if err != nil {
		s.logger.Error("neighbor query failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	response, err := s.searcher.Search(r.Context(), &query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

type clusterRequest struct {
	K         int    `json:"k"`
	Namespace string `json:"namespace,omitempty"`
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	var req clusterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Namespace == "" {
		req.Namespace = models.NamespaceIntro
	}
	if !models.ValidFacet(req.Namespace) {
		s.respondError(w, http.StatusBadRequest, "unknown namespace")
		return
	}
	result, err := s.clusters.Cluster(r.Context(), req.K, req.Namespace)
	if err != nil {
		if errors.Is(err, cluster.ErrInvalidK) || errors.Is(err, cluster.ErrTooFewProfiles) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("clustering failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

type roleAssignmentRequest struct {
	MemberID string `json:"member_id"`
}

func (s *Server) handleRoleAssignment(w http.ResponseWriter, r *http.Request) {
	var req roleAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MemberID == "" {
		s.respondError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	p, err := s.storage.GetProfile(r.Context(), req.MemberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "member not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result, err := s.resolver.Resolve(r.Context(), p)
	if err != nil {
		if errors.Is(err, roles.ErrNotConfigured) {
			s.respondError(w, http.StatusInternalServerError, "role assignment not configured")
			return
		}
		s.logger.Error("role assignment failed", zap.String("id", req.MemberID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReembed(w http.ResponseWriter, r *http.Request) {
	stats, err := s.indexer.ReembedAll(r.Context())
	if err != nil {
		s.logger.Error("reembed failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "reembedding_complete",
		"stats":   stats,
	})
}

func (s *Server) handleEmbedJobs(w http.ResponseWriter, r *http.Request) {
	stats, err := roles.EmbedJobs(r.Context(), s.storage, s.vectors, s.gateway, s.logger)
	if err != nil {
		s.logger.Error("embed jobs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.storage.ListJobs(r.Context())
	if err != nil {
		s.logger.Error("list jobs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

type fixedRoleRequest struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

func (s *Server) handleSetFixedRole(w http.ResponseWriter, r *http.Request) {
	var req fixedRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MemberID == "" {
		s.respondError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	if err := s.storage.SetFixedRole(r.Context(), req.MemberID, req.Role); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "member not found")
			return
		}
		s.logger.Error("set fixed role failed", zap.String("id", req.MemberID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"member_id": req.MemberID,
		"role":      req.Role,
		"status":    "updated",
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
