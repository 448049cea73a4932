// Package search fuses BM25 keyword search with embedding similarity into a
// single ranked list of member profiles.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/config"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/embedding"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/keyword"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
)

// nameBoost weights matches on the member name field above matches in the
// rest of the profile text.
const nameBoost = 2.0

// Engine runs hybrid profile search over the keyword index and the vector
// store, hydrating hits from storage.
type Engine struct {
	storage  storage.Storage
	gateway  *embedding.Gateway
	vectors  vector.Store
	keywords keyword.KeywordIndex
	cfg      config.SearchConfig
	logger   *zap.Logger
}

// NewEngine creates a search engine over the given components.
func NewEngine(store storage.Storage, gateway *embedding.Gateway, vectors vector.Store, keywords keyword.KeywordIndex, cfg config.SearchConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		storage:  store,
		gateway:  gateway,
		vectors:  vectors,
		keywords: keywords,
		cfg:      cfg,
		logger:   logger,
	}
}

// Search executes the query's keyword and semantic sides concurrently, fuses
// the scores, and returns a page of hydrated results. A side whose weight is
// zero is skipped entirely; when embeddings are unavailable the semantic side
// contributes nothing rather than failing the request.
func (e *Engine) Search(ctx context.Context, q *models.SearchQuery) (*models.SearchResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	candidates := e.cfg.TopKCandidates
	if candidates <= 0 {
		candidates = 100
	}

	var (
		wg             sync.WaitGroup
		keywordResults []*keyword.KeywordResult
		semanticHits   []vector.Match
	)
	errChan := make(chan error, 2)

	if q.KeywordWeight > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			opts := &keyword.SearchOptions{
				NameBoost:    nameBoost,
				FuzzyEnabled: q.FuzzyEnabled,
			}
			results, err := e.keywords.Search(ctx, q.Query, candidates, opts)
			if err != nil {
				errChan <- fmt.Errorf("keyword search: %w", err)
				return
			}
			keywordResults = results
		}()
	}

	if q.SemanticWeight > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queryVec := e.gateway.Embed(ctx, q.Query)
			if queryVec == nil {
				// Embedding provider not configured or failed; keyword
				// results alone still make a useful answer.
				e.logger.Debug("semantic side skipped", zap.String("query", q.Query))
				return
			}
			matches, err := e.vectors.Query(ctx, q.Criteria, queryVec, candidates)
			if err != nil {
				errChan <- fmt.Errorf("semantic search: %w", err)
				return
			}
			semanticHits = matches
		}()
	}

	wg.Wait()
	close(errChan)
	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	fused := Fuse(
		NormalizeKeywordScores(keywordResults),
		NormalizeSemanticScores(semanticHits),
		q.KeywordWeight,
		q.SemanticWeight,
	)

	if q.MinScore > 0 {
		filtered := fused[:0]
		for _, fr := range fused {
			if fr.Score >= q.MinScore {
				filtered = append(filtered, fr)
			}
		}
		fused = filtered
	}

	total := len(fused)
	begin := q.Offset
	if begin > total {
		begin = total
	}
	end := begin + q.Limit
	if end > total {
		end = total
	}
	page := fused[begin:end]

	results := make([]*models.SearchResult, 0, len(page))
	for i, fr := range page {
		prof, err := e.storage.GetProfile(ctx, fr.MemberID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Index entry outlived the profile row; skip it.
				e.logger.Warn("search hit missing from storage", zap.String("member_id", fr.MemberID))
				continue
			}
			return nil, fmt.Errorf("load profile %s: %w", fr.MemberID, err)
		}
		results = append(results, &models.SearchResult{
			Profile:       prof,
			Score:         fr.Score,
			KeywordScore:  fr.KeywordScore,
			SemanticScore: fr.SemanticScore,
			Rank:          begin + i + 1,
		})
	}

	e.logger.Debug("search completed",
		zap.String("query", q.Query),
		zap.String("criteria", q.Criteria),
		zap.Int("total", total),
		zap.Int("returned", len(results)),
		zap.Duration("elapsed", time.Since(start)))

	return &models.SearchResponse{
		Results:   results,
		Total:     total,
		QueryTime: time.Since(start).Milliseconds(),
		Query:     q.Query,
		Criteria:  q.Criteria,
	}, nil
}
