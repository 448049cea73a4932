package roles

import (
	"context"

	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/embedding"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
	"github.com/williamtribe/2025FAREWELLPARTY/pkg/utils"
)

// storyLimit bounds the story text stored as vector metadata.
const storyLimit = 2000

// EmbedJobs embeds every catalog entry into the job namespace. A job without
// a story is skipped; per-job failures are recorded and the batch never
// aborts early.
func EmbedJobs(ctx context.Context, store storage.Storage, vectors vector.Store, gateway *embedding.Gateway, logger *zap.Logger) (*models.JobEmbedStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	jobs, err := store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.JobEmbedStats{
		TotalJobs:  len(jobs),
		FailedJobs: []models.JobEmbedFailure{},
	}
	for _, job := range jobs {
		if job.Story == "" {
			stats.FailedJobs = append(stats.FailedJobs, models.JobEmbedFailure{Code: job.Code, Reason: "no_story"})
			continue
		}

		vec := gateway.Embed(ctx, job.Name+": "+job.Story)
		if vec == nil {
			stats.FailedJobs = append(stats.FailedJobs, models.JobEmbedFailure{Code: job.Code, Reason: "embedding_failed"})
			continue
		}

		metadata := map[string]string{
			"code":  job.Code,
			"name":  job.Name,
			"team":  job.Team,
			"story": utils.Clip(job.Story, storyLimit),
		}
		if _, err := vectors.Upsert(ctx, models.NamespaceJobs, job.Code, vec, metadata); err != nil {
			logger.Error("job upsert failed", zap.String("code", job.Code), zap.Error(err))
			stats.FailedJobs = append(stats.FailedJobs, models.JobEmbedFailure{Code: job.Code, Reason: err.Error()})
			continue
		}
		stats.EmbeddedCount++
	}

	logger.Info("embedded job catalog",
		zap.Int("total", stats.TotalJobs),
		zap.Int("embedded", stats.EmbeddedCount),
		zap.Int("failed", len(stats.FailedJobs)))
	return stats, nil
}
