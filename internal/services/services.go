package services

import (
	"context"
	"errors"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrEndorsementNotFound = errors.New("endorsement not found")
	ErrEmailExists         = errors.New("email already registered")
)

const (
	ProfileCollection     = "profile"
	ProjectCollection     = "project"
	EndorsementCollection = "endorsement"
)

const (
	DefaultProfileListLimit     = 25
	DefaultProjectListLimit     = 50
	DefaultEndorsementListLimit = 50
)

// ProfileReader is the read side of the profile collection used by matching.
type ProfileReader interface {
	// FindByID returns ErrProfileNotFound when no profile has the id.
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	// FindAll returns every profile ordered by created_at, then id.
	FindAll(ctx context.Context) ([]models.Profile, error)
}

type ProfileService interface {
	ProfileReader
	Create(ctx context.Context, req *models.CreateProfileRequest) (*models.Profile, error)
	List(ctx context.Context, q models.ListProfilesQuery) ([]models.Profile, error)
	Update(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error)
	// Import inserts stored profiles as-is, keeping ids and timestamps.
	// Profiles whose id or email already exists are skipped.
	Import(ctx context.Context, profiles []models.Profile) (int, error)
}

type ProjectService interface {
	Create(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, q models.ListProjectsQuery) ([]models.Project, error)
	All(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error)
	Import(ctx context.Context, projects []models.Project) (int, error)
}

type EndorsementService interface {
	Create(ctx context.Context, req *models.CreateEndorsementRequest) (*models.Endorsement, error)
	GetByID(ctx context.Context, id string) (*models.Endorsement, error)
	List(ctx context.Context, q models.ListEndorsementsQuery) ([]models.Endorsement, error)
	All(ctx context.Context) ([]models.Endorsement, error)
	Import(ctx context.Context, endorsements []models.Endorsement) (int, error)
}

// HealthChecker reports document store reachability for /api/health.
type HealthChecker interface {
	Health(ctx context.Context) models.HealthStatus
}

func limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
