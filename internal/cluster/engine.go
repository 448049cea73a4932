package cluster

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
)

// ErrTooFewProfiles is returned when a namespace holds fewer vectors than
// the requested cluster count.
var ErrTooFewProfiles = errors.New("not enough embedded profiles")

// ErrInvalidK is returned for a cluster count outside [2, 10].
var ErrInvalidK = errors.New("k must be between 2 and 10")

// palette colors nodes by cluster index (mod palette size).
var palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#008080",
}

// Engine computes balanced clusterings over a namespace of member vectors.
type Engine struct {
	store     vector.Store
	tolerance float64
	seed      int64
	logger    *zap.Logger
}

// NewEngine creates a clustering engine. tolerance <= 0 defaults to 0.2.
func NewEngine(store vector.Store, tolerance float64, seed int64, logger *zap.Logger) *Engine {
	if tolerance <= 0 {
		tolerance = 0.2
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, tolerance: tolerance, seed: seed, logger: logger}
}

// Cluster groups every member with a vector in the namespace into k balanced
// teams, with a 2-D projection for the force graph. The result is ephemeral
// and recomputed per call; identical store contents reproduce identical
// assignments.
func (e *Engine) Cluster(ctx context.Context, k int, namespace string) (*models.ClusterResult, error) {
	if k < 2 || k > 10 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	records, err := e.store.All(ctx, namespace)
	if err != nil {
		return nil, err
	}
	n := len(records)
	if n < k {
		return nil, fmt.Errorf("%w: need at least %d, found %d", ErrTooFewProfiles, k, n)
	}

	vectors := make([][]float32, n)
	for i, rec := range records {
		vectors[i] = rec.Vector
	}

	centroids := KMeans(vectors, k, e.seed)
	assign := Rebalance(vectors, centroids, e.tolerance)
	xs, ys := ProjectPCA(vectors)

	clusters := make([]models.Cluster, k)
	for c := range clusters {
		clusters[c] = models.Cluster{
			ID:      c,
			Color:   palette[c%len(palette)],
			Members: []models.ClusterNode{},
		}
	}
	nodes := make([]models.ClusterNode, n)
	for i, rec := range records {
		c := assign[i]
		nodes[i] = models.ClusterNode{
			ID:      rec.ID,
			Name:    rec.Metadata["name"],
			Cluster: c,
			X:       xs[i],
			Y:       ys[i],
			Color:   palette[c%len(palette)],
		}
		clusters[c].Members = append(clusters[c].Members, nodes[i])
	}
	for c := range clusters {
		clusters[c].MemberCount = len(clusters[c].Members)
	}

	// Every intra-cluster pair becomes an edge; clusters stay disconnected
	// from each other.
	var edges []models.ClusterEdge
	for _, cl := range clusters {
		members := cl.Members
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				edges = append(edges, models.ClusterEdge{Source: members[i].ID, Target: members[j].ID})
			}
		}
	}

	e.logger.Info("clustered profiles",
		zap.Int("k", k),
		zap.String("namespace", namespace),
		zap.Int("total", n))

	return &models.ClusterResult{
		K:             k,
		Namespace:     namespace,
		TotalProfiles: n,
		Clusters:      clusters,
		Graph:         models.ClusterGraph{Nodes: nodes, Edges: edges},
	}, nil
}
