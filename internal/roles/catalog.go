package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/embedding"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
)

// LoadCatalogFile parses a job catalog JSON file: a top-level array of job
// objects. Entries without a code or name are rejected so a half-edited file
// cannot silently wipe the catalog.
func LoadCatalogFile(path string) ([]*models.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var jobs []*models.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, job := range jobs {
		if strings.TrimSpace(job.Code) == "" || strings.TrimSpace(job.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d missing code or name", i)
		}
	}
	return jobs, nil
}

// SyncCatalog loads the catalog file, replaces the stored catalog with its
// contents, and re-embeds every entry into the job namespace. Embedding
// failures are reported in the stats, not as errors.
func SyncCatalog(ctx context.Context, path string, store storage.Storage, vectors vector.Store, gateway *embedding.Gateway, logger *zap.Logger) (*models.JobEmbedStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	jobs, err := LoadCatalogFile(path)
	if err != nil {
		return nil, err
	}
	if err := store.ReplaceJobs(ctx, jobs); err != nil {
		return nil, fmt.Errorf("replace jobs: %w", err)
	}
	logger.Info("job catalog loaded", zap.String("path", path), zap.Int("jobs", len(jobs)))
	return EmbedJobs(ctx, store, vectors, gateway, logger)
}
