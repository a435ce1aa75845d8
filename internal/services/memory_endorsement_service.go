package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

type MemoryEndorsementService struct {
	mu           sync.RWMutex
	endorsements map[string]*models.Endorsement
	byRecipient  map[string][]string // to_user -> endorsement ids
	now          func() time.Time
}

func NewMemoryEndorsementService() *MemoryEndorsementService {
	return &MemoryEndorsementService{
		endorsements: make(map[string]*models.Endorsement),
		byRecipient:  make(map[string][]string),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryEndorsementService) Create(_ context.Context, req *models.CreateEndorsementRequest) (*models.Endorsement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := models.NewEndorsement(uuid.New().String(), req, s.now())
	s.insert(e)

	out := *e
	return &out, nil
}

func (s *MemoryEndorsementService) GetByID(_ context.Context, id string) (*models.Endorsement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.endorsements[id]
	if !exists {
		return nil, ErrEndorsementNotFound
	}
	out := *e
	return &out, nil
}

func (s *MemoryEndorsementService) List(_ context.Context, q models.ListEndorsementsQuery) ([]models.Endorsement, error) {
	return s.list(q, limitOr(q.Limit, DefaultEndorsementListLimit)), nil
}

func (s *MemoryEndorsementService) All(_ context.Context) ([]models.Endorsement, error) {
	return s.list(models.ListEndorsementsQuery{}, 0), nil
}

// list returns matching endorsements in created_at, id order. A limit of 0 means no limit.
func (s *MemoryEndorsementService) list(q models.ListEndorsementsQuery, limit int) []models.Endorsement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]*models.Endorsement, 0, len(s.endorsements))
	if q.ToUser != "" {
		for _, id := range s.byRecipient[q.ToUser] {
			candidates = append(candidates, s.endorsements[id])
		}
	} else {
		for _, e := range s.endorsements {
			candidates = append(candidates, e)
		}
	}

	out := make([]models.Endorsement, 0, len(candidates))
	for _, e := range candidates {
		if q.FromUser != "" && e.FromUser != q.FromUser {
			continue
		}
		if q.Skill != "" && e.Skill != q.Skill {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MemoryEndorsementService) Import(_ context.Context, endorsements []models.Endorsement) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for i := range endorsements {
		e := endorsements[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if _, exists := s.endorsements[e.ID]; exists {
			continue
		}
		s.insert(&e)
		n++
	}
	return n, nil
}

// insert stores e and indexes it by recipient. Callers must hold the write lock.
func (s *MemoryEndorsementService) insert(e *models.Endorsement) {
	s.endorsements[e.ID] = e
	s.byRecipient[e.ToUser] = append(s.byRecipient[e.ToUser], e.ID)
}
