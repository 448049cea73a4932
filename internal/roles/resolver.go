package roles

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/embedding"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/generation"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/profile"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
	"github.com/williamtribe/2025FAREWELLPARTY/pkg/utils"
)

// ErrNotConfigured is returned when no embedding provider credential exists.
// It is the only hard failure role resolution raises.
var ErrNotConfigured = errors.New("embedding provider not configured")

// fallbackRoles are the safe defaults handed out when the embedding or
// vector backend is degraded. Selection is uniform and unseeded.
var fallbackRoles = []models.RoleResult{
	{Team: "시민팀", Role: "시민", Code: "citizen"},
	{Team: "시민팀", Role: "경찰", Code: "police"},
	{Team: "시민팀", Role: "의사", Code: "doctor"},
}

const fallbackReasoning = "직업 매칭 서비스를 준비 중이에요. 일단 멋진 역할을 배정해드렸어요!"

// Resolver assigns a role by fixed override, vector match against the job
// catalog, or random fallback. Every collaborator failure inside resolution
// degrades the answer instead of raising.
type Resolver struct {
	store     storage.Storage
	vectors   vector.Store
	gateway   *embedding.Gateway
	generator generation.Generator
	logger    *zap.Logger
}

// NewResolver creates a role resolver. generator may be nil, in which case
// reasoning always uses the templated fallbacks.
func NewResolver(store storage.Storage, vectors vector.Store, gateway *embedding.Gateway, generator generation.Generator, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, vectors: vectors, gateway: gateway, generator: generator, logger: logger}
}

// Resolve returns a role assignment for the profile. The only error it
// returns is ErrNotConfigured; every other failure degrades to a fallback
// assignment.
func (r *Resolver) Resolve(ctx context.Context, p *models.Profile) (*models.RoleResult, error) {
	if r.gateway == nil || !r.gateway.Configured() {
		return nil, ErrNotConfigured
	}

	profileText := profile.RoleText(p)

	if p.FixedRole != "" {
		return r.resolveFixed(ctx, p.FixedRole, profileText), nil
	}

	vec := r.gateway.Embed(ctx, profileText)
	if vec == nil {
		return r.fallback(), nil
	}

	matches, err := r.vectors.Query(ctx, models.NamespaceJobs, vec, 3)
	if err != nil {
		r.logger.Warn("job catalog query failed", zap.Error(err))
		return r.fallback(), nil
	}
	if len(matches) == 0 {
		return r.fallback(), nil
	}

	best := matches[0]
	jobName := best.Metadata["name"]
	if jobName == "" {
		jobName = "시민"
	}
	team := best.Metadata["team"]
	if team == "" {
		team = "citizen"
	}
	story := best.Metadata["story"]
	if story == "" {
		// Metadata from older upserts may lack the story; the catalog is
		// authoritative then.
		if job, err := r.store.GetJobByCode(ctx, best.ID); err == nil {
			jobName = job.Name
			if job.Team != "" {
				team = job.Team
			}
			story = job.Story
		}
	}
	teamLabel := TeamLabel(team)

	reasoning := r.reasoning(ctx, jobName, teamLabel, story, profileText,
		fmt.Sprintf("당신의 특성이 %s과(와) 잘 어울려요!", jobName))

	return &models.RoleResult{
		Team:            teamLabel,
		Role:            jobName,
		Code:            best.ID,
		Reasoning:       reasoning,
		SimilarityScore: utils.Clamp01(best.Score),
	}, nil
}

// resolveFixed handles the administrator override. It always succeeds: an
// unknown label still yields a valid answer with the baseline team.
func (r *Resolver) resolveFixed(ctx context.Context, fixedRole, profileText string) *models.RoleResult {
	job, err := r.store.GetJobByName(ctx, fixedRole)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("fixed role catalog lookup failed", zap.Error(err))
		}
		return &models.RoleResult{
			Team:            "시민팀",
			Role:            fixedRole,
			Code:            "",
			Reasoning:       "관리자가 특별히 배정한 직업: " + fixedRole,
			SimilarityScore: 1.0,
			Fixed:           true,
		}
	}

	team := job.Team
	if team == "" {
		team = "citizen"
	}
	teamLabel := TeamLabel(team)
	reasoning := r.reasoning(ctx, job.Name, teamLabel, job.Story, profileText,
		fmt.Sprintf("당신에게 특별히 배정된 직업이에요. %s으로서 멋진 활약을 기대해요!", job.Name))

	return &models.RoleResult{
		Team:            teamLabel,
		Role:            job.Name,
		Code:            job.Code,
		Reasoning:       reasoning,
		SimilarityScore: 1.0,
		Fixed:           true,
	}
}

// reasoning asks the generator for custom text, degrading to the template on
// any failure.
func (r *Resolver) reasoning(ctx context.Context, jobName, teamLabel, story, profileText, fallback string) string {
	if r.generator == nil {
		return fallback
	}
	text, err := r.generator.RoleReasoning(ctx, jobName, teamLabel, story, profileText)
	if err != nil {
		r.logger.Warn("reasoning generation failed", zap.Error(err))
		return fallback
	}
	return text
}

func (r *Resolver) fallback() *models.RoleResult {
	chosen := fallbackRoles[rand.Intn(len(fallbackRoles))]
	return &models.RoleResult{
		Team:            chosen.Team,
		Role:            chosen.Role,
		Code:            chosen.Code,
		Reasoning:       fallbackReasoning,
		SimilarityScore: 0,
	}
}
