package services

import (
	"context"
	"fmt"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/config"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// Backend bundles the services over one document store.
type Backend struct {
	Driver       string
	Profiles     ProfileService
	Projects     ProjectService
	Endorsements EndorsementService
	Health       HealthChecker

	close func(context.Context) error
}

// Open connects the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryBackend(), nil
	case config.DriverMongo:
		return NewMongoBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func NewMemoryBackend() *Backend {
	return &Backend{
		Driver:       config.DriverMemory,
		Profiles:     NewMemoryProfileService(),
		Projects:     NewMemoryProjectService(),
		Endorsements: NewMemoryEndorsementService(),
		Health:       memoryHealth{},
		close:        func(context.Context) error { return nil },
	}
}

func NewMongoBackend(ctx context.Context, cfg config.DatabaseConfig) (*Backend, error) {
	store, err := NewMongoStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db := store.Database()
	return &Backend{
		Driver:       config.DriverMongo,
		Profiles:     NewMongoProfileService(ctx, db),
		Projects:     NewMongoProjectService(ctx, db),
		Endorsements: NewMongoEndorsementService(ctx, db),
		Health:       store,
		close:        store.Close,
	}, nil
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

type memoryHealth struct{}

func (memoryHealth) Health(context.Context) models.HealthStatus {
	return models.HealthStatus{
		OK:          true,
		Database:    "connected",
		Driver:      config.DriverMemory,
		Collections: []string{EndorsementCollection, ProfileCollection, ProjectCollection},
	}
}

func (b *Backend) AllProfiles(ctx context.Context) ([]models.Profile, error) {
	return b.Profiles.FindAll(ctx)
}

func (b *Backend) AllProjects(ctx context.Context) ([]models.Project, error) {
	return b.Projects.All(ctx)
}

func (b *Backend) AllEndorsements(ctx context.Context) ([]models.Endorsement, error) {
	return b.Endorsements.All(ctx)
}

func (b *Backend) ImportProfiles(ctx context.Context, profiles []models.Profile) (int, error) {
	return b.Profiles.Import(ctx, profiles)
}

func (b *Backend) ImportProjects(ctx context.Context, projects []models.Project) (int, error) {
	return b.Projects.Import(ctx, projects)
}

func (b *Backend) ImportEndorsements(ctx context.Context, endorsements []models.Endorsement) (int, error) {
	return b.Endorsements.Import(ctx, endorsements)
}
