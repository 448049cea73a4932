// Package similarity answers "who is most like me" and "who is least like me"
// queries against the vector store.
package similarity

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
)

// ReasonNoEmbedding tags an empty result caused by the member having no
// vector in the queried namespace.
const ReasonNoEmbedding = "no_embedding_found"

// Engine runs nearest and farthest neighbor queries per namespace.
type Engine struct {
	store vector.Store
	// oversample bounds the neighbor snapshot used for farthest-neighbor
	// queries. With more peers than this in the namespace the result is an
	// approximation over the nearest snapshot, not a global scan.
	oversample int
	logger     *zap.Logger
}

// NewEngine creates a similarity engine. oversample <= 0 defaults to 100.
func NewEngine(store vector.Store, oversample int, logger *zap.Logger) *Engine {
	if oversample <= 0 {
		oversample = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, oversample: oversample, logger: logger}
}

// QuerySimilar returns up to topK members nearest to memberID in the
// namespace, excluding the member itself. A member with no vector gets an
// empty result tagged ReasonNoEmbedding.
func (e *Engine) QuerySimilar(ctx context.Context, memberID string, topK int, namespace string) (*models.SimilarityResult, error) {
	rec, err := e.store.Fetch(ctx, namespace, memberID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &models.SimilarityResult{Matches: []models.MemberMatch{}, Reason: ReasonNoEmbedding, Criteria: namespace}, nil
	}

	// One extra so dropping the member's own hit still fills topK.
	matches, err := e.store.Query(ctx, namespace, rec.Vector, topK+1)
	if err != nil {
		return nil, err
	}
	out := make([]models.MemberMatch, 0, topK)
	for _, m := range matches {
		if m.ID == memberID {
			continue
		}
		out = append(out, models.MemberMatch{MemberID: m.ID, Score: m.Score, Metadata: m.Metadata})
		if len(out) == topK {
			break
		}
	}
	return &models.SimilarityResult{Matches: out, Criteria: namespace}, nil
}

// QueryDifferent returns up to topK members farthest from memberID among the
// nearest snapshot of the namespace. This deliberately considers only the
// snapshot: with more peers than the oversample bound the true global
// farthest members may be missed.
func (e *Engine) QueryDifferent(ctx context.Context, memberID string, topK int, namespace string) (*models.SimilarityResult, error) {
	rec, err := e.store.Fetch(ctx, namespace, memberID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &models.SimilarityResult{Matches: []models.MemberMatch{}, Reason: ReasonNoEmbedding, Criteria: namespace}, nil
	}

	matches, err := e.store.Query(ctx, namespace, rec.Vector, e.oversample)
	if err != nil {
		return nil, err
	}
	candidates := make([]models.MemberMatch, 0, len(matches))
	for _, m := range matches {
		if m.ID == memberID {
			continue
		}
		candidates = append(candidates, models.MemberMatch{MemberID: m.ID, Score: m.Score, Metadata: m.Metadata})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score < candidates[j].Score })
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return &models.SimilarityResult{Matches: candidates, Criteria: namespace}, nil
}
