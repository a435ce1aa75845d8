package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

type MemoryProjectService struct {
	mu       sync.RWMutex
	projects map[string]*models.Project
	now      func() time.Time
}

func NewMemoryProjectService() *MemoryProjectService {
	return &MemoryProjectService{
		projects: make(map[string]*models.Project),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryProjectService) Create(_ context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.NewProject(uuid.New().String(), req, s.now())
	s.projects[p.ID] = p

	out := cloneProject(p)
	return &out, nil
}

func (s *MemoryProjectService) GetByID(_ context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.projects[id]
	if !exists {
		return nil, ErrProjectNotFound
	}
	out := cloneProject(p)
	return &out, nil
}

func (s *MemoryProjectService) List(_ context.Context, q models.ListProjectsQuery) ([]models.Project, error) {
	return s.list(q, limitOr(q.Limit, DefaultProjectListLimit)), nil
}

func (s *MemoryProjectService) All(_ context.Context) ([]models.Project, error) {
	return s.list(models.ListProjectsQuery{}, 0), nil
}

// list returns matching projects in created_at, id order. A limit of 0 means no limit.
func (s *MemoryProjectService) list(q models.ListProjectsQuery, limit int) []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, 0)
	for _, p := range s.projects {
		if q.OwnerID != "" && p.OwnerID != q.OwnerID {
			continue
		}
		if q.Q != "" && !containsFold(p.Title, q.Q) && !containsFold(p.Brief, q.Q) && !anyContainsFold(p.Tags, q.Q) {
			continue
		}
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MemoryProjectService) Update(_ context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.projects[id]
	if !exists {
		return nil, ErrProjectNotFound
	}

	req.ApplyTo(p)
	p.UpdatedAt = s.now()

	out := cloneProject(p)
	return &out, nil
}

func (s *MemoryProjectService) Import(_ context.Context, projects []models.Project) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for i := range projects {
		p := cloneProject(&projects[i])
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if _, exists := s.projects[p.ID]; exists {
			continue
		}
		s.projects[p.ID] = &p
		n++
	}
	return n, nil
}

func cloneProject(p *models.Project) models.Project {
	out := *p
	out.Tags = append([]string{}, p.Tags...)
	out.RolesNeeded = append([]string{}, p.RolesNeeded...)
	return out
}
