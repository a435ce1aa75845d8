package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// MemoryProfileService keeps profiles in process. Used for local dev and tests.
type MemoryProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile
	byEmail  map[string]string // email -> profileID
	now      func() time.Time
}

func NewMemoryProfileService() *MemoryProfileService {
	return &MemoryProfileService{
		profiles: make(map[string]*models.Profile),
		byEmail:  make(map[string]string),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryProfileService) Create(_ context.Context, req *models.CreateProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrEmailExists
	}

	p := models.NewProfile(uuid.New().String(), req, s.now())
	s.profiles[p.ID] = p
	s.byEmail[p.Email] = p.ID

	out := cloneProfile(p)
	return &out, nil
}

func (s *MemoryProfileService) FindByID(_ context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.profiles[id]
	if !exists {
		return nil, ErrProfileNotFound
	}
	out := cloneProfile(p)
	return &out, nil
}

func (s *MemoryProfileService) FindAll(_ context.Context) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(*models.Profile) bool { return true }, 0), nil
}

func (s *MemoryProfileService) List(_ context.Context, q models.ListProfilesQuery) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := func(p *models.Profile) bool {
		if q.Email != "" && p.Email != q.Email {
			return false
		}
		if q.Q != "" {
			return containsFold(p.Name, q.Q) || containsFold(p.Headline, q.Q) || anyContainsFold(p.Skills, q.Q)
		}
		return true
	}
	return s.sorted(match, limitOr(q.Limit, DefaultProfileListLimit)), nil
}

func (s *MemoryProfileService) Update(_ context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.profiles[id]
	if !exists {
		return nil, ErrProfileNotFound
	}

	req.ApplyTo(p)
	p.UpdatedAt = s.now()

	out := cloneProfile(p)
	return &out, nil
}

func (s *MemoryProfileService) Import(_ context.Context, profiles []models.Profile) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for i := range profiles {
		p := cloneProfile(&profiles[i])
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if _, exists := s.profiles[p.ID]; exists {
			continue
		}
		if _, exists := s.byEmail[p.Email]; exists {
			continue
		}
		s.profiles[p.ID] = &p
		s.byEmail[p.Email] = p.ID
		n++
	}
	return n, nil
}

// sorted returns copies of the matching profiles in created_at, id order.
// Callers must hold the read lock. A limit of 0 means no limit.
func (s *MemoryProfileService) sorted(match func(*models.Profile) bool, limit int) []models.Profile {
	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if match(p) {
			out = append(out, cloneProfile(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// cloneProfile copies p so callers never share slices with the store.
func cloneProfile(p *models.Profile) models.Profile {
	out := *p
	out.Skills = append([]string{}, p.Skills...)
	out.Interests = append([]string{}, p.Interests...)
	out.Links = append([]string{}, p.Links...)
	return out
}

func createdBefore(a time.Time, aID string, b time.Time, bID string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return aID < bID
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func anyContainsFold(values []string, substr string) bool {
	for _, v := range values {
		if containsFold(v, substr) {
			return true
		}
	}
	return false
}
