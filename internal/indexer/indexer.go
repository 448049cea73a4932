// Package indexer maintains member profiles across storage, the keyword
// index, and the per-facet vector namespaces.
package indexer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/embedding"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/keyword"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/profile"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
)

// facets are the member vector namespaces kept in sync with storage.
var facets = []string{models.NamespaceIntro, models.NamespaceInterests}

// Indexer writes member profiles into storage, the keyword index, and the
// facet vector namespaces. Embedding is best-effort: a missing or failing
// embedding provider never blocks the storage write.
type Indexer struct {
	storage  storage.Storage
	gateway  *embedding.Gateway
	vectors  vector.Store
	keywords keyword.KeywordIndex
	logger   *zap.Logger
}

// NewIndexer creates an indexer over the given components.
func NewIndexer(store storage.Storage, gateway *embedding.Gateway, vectors vector.Store, keywords keyword.KeywordIndex, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		storage:  store,
		gateway:  gateway,
		vectors:  vectors,
		keywords: keywords,
		logger:   logger,
	}
}

// IndexProfile stores the profile, indexes its text for keyword search, and
// embeds each non-blank facet into its vector namespace. Facets whose text is
// blank or whose embedding fails are skipped silently; the profile is still
// fully stored and keyword-searchable.
func (idx *Indexer) IndexProfile(ctx context.Context, input *models.ProfileInput) (*models.Profile, error) {
	p := input.ToProfile()
	if err := idx.storage.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}

	if err := idx.keywords.Index(ctx, p.ID, p.Name, profile.FullText(p)); err != nil {
		return nil, fmt.Errorf("keyword index: %w", err)
	}

	for _, facet := range facets {
		if err := idx.embedFacet(ctx, facet, p); err != nil {
			return nil, err
		}
	}

	idx.logger.Debug("profile indexed", zap.String("member_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// embedFacet embeds one facet of the profile and upserts it into the facet
// namespace. Blank text and nil embeddings are skipped, not errors; only a
// vector-store failure propagates.
func (idx *Indexer) embedFacet(ctx context.Context, facet string, p *models.Profile) error {
	text := profile.FacetText(facet, p)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	vec := idx.gateway.Embed(ctx, text)
	if vec == nil {
		return nil
	}
	meta := map[string]string{
		"visibility": p.Visibility,
		"name":       p.Name,
	}
	if _, err := idx.vectors.Upsert(ctx, facet, p.ID, vec, meta); err != nil {
		return fmt.Errorf("upsert %s vector for %s: %w", facet, p.ID, err)
	}
	return nil
}

// ReembedAll re-embeds every stored profile into both facet namespaces,
// strictly sequentially. Individual failures are collected in the stats and
// never abort the run; a facet with blank text or a nil embedding counts as
// skipped, not failed.
func (idx *Indexer) ReembedAll(ctx context.Context) (*models.ReembedStats, error) {
	stats := &models.ReembedStats{}
	const batchSize = 100
	for offset := 0; ; offset += batchSize {
		profiles, err := idx.storage.ListProfiles(ctx, offset, batchSize)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		if len(profiles) == 0 {
			break
		}
		stats.Total += len(profiles)
		for _, p := range profiles {
			meta := map[string]string{
				"visibility": p.Visibility,
				"name":       p.Name,
			}
			for _, facet := range facets {
				text := profile.FacetText(facet, p)
				if strings.TrimSpace(text) == "" {
					continue
				}
				vec := idx.gateway.Embed(ctx, text)
				if vec == nil {
					continue
				}
				if _, err := idx.vectors.Upsert(ctx, facet, p.ID, vec, meta); err != nil {
					stats.Errors = append(stats.Errors, fmt.Sprintf("%s:%s:%v", facet, p.ID, err))
					continue
				}
				switch facet {
				case models.NamespaceIntro:
					stats.IntroSuccess++
				case models.NamespaceInterests:
					stats.InterestsSuccess++
				}
			}
		}
		if len(profiles) < batchSize {
			break
		}
	}

	idx.logger.Info("reembed completed",
		zap.Int("total", stats.Total),
		zap.Int("intro_success", stats.IntroSuccess),
		zap.Int("interests_success", stats.InterestsSuccess),
		zap.Int("errors", len(stats.Errors)))
	return stats, nil
}
