// Package storage defines the persistence interface for member profiles and
// the job catalog.
package storage

import (
	"context"
	"errors"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines profile and job-catalog persistence operations.
type Storage interface {
	// Profile operations
	UpsertProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context, offset, limit int) ([]*models.Profile, error)
	CountProfiles(ctx context.Context) (int64, error)
	SetFixedRole(ctx context.Context, id, role string) error

	// Job catalog operations
	UpsertJob(ctx context.Context, j *models.Job) error
	ReplaceJobs(ctx context.Context, jobs []*models.Job) error
	ListJobs(ctx context.Context) ([]*models.Job, error)
	GetJobByCode(ctx context.Context, code string) (*models.Job, error)
	GetJobByName(ctx context.Context, name string) (*models.Job, error)
	CountJobs(ctx context.Context) (int64, error)

	Close() error
}
