// Package seed fills a backend with generated profiles, projects and endorsements
// for local development and demos.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/services"
)

var skills = []string{
	"go", "python", "rust", "typescript", "react", "sql", "design", "product",
	"marketing", "sales", "writing", "data", "ml", "devops", "security", "mobile",
}

var interests = []string{
	"climate", "education", "health", "fintech", "open source", "music", "hiking",
	"chess", "photography", "gaming", "civic tech", "robotics", "travel", "cooking",
}

var timezones = []string{
	"America/Los_Angeles", "America/New_York", "Europe/London", "Europe/Berlin",
	"Asia/Kolkata", "Asia/Tokyo", "Australia/Sydney",
}

var availability = []string{"full-time", "part-time", "weekends", "evenings"}

var projectStatuses = []models.ProjectStatus{
	models.ProjectStatusOpen, models.ProjectStatusInProgress, models.ProjectStatusCompleted,
}

// Counts reports how many records of each kind were created.
type Counts struct {
	Profiles     int
	Projects     int
	Endorsements int
}

type Seeder struct {
	backend *services.Backend
	faker   *gofakeit.Faker
	log     *zap.Logger
}

// New returns a Seeder. The same seed produces the same data set.
func New(backend *services.Backend, seed int64, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{backend: backend, faker: gofakeit.New(seed), log: log}
}

// Run creates n profiles, n/2 projects owned by them and up to 2n endorsements
// between distinct profiles.
func (s *Seeder) Run(ctx context.Context, n int) (Counts, error) {
	var counts Counts
	if n <= 0 {
		return counts, nil
	}

	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		p, err := s.backend.Profiles.Create(ctx, s.profileRequest(i))
		if err != nil {
			if errors.Is(err, services.ErrEmailExists) {
				s.log.Debug("Skipping duplicate seed email", zap.Int("index", i))
				continue
			}
			return counts, fmt.Errorf("create profile %d: %w", i, err)
		}
		profiles = append(profiles, p)
	}
	counts.Profiles = len(profiles)
	if len(profiles) == 0 {
		return counts, nil
	}

	for i := 0; i < n/2; i++ {
		owner := profiles[s.faker.Number(0, len(profiles)-1)]
		if _, err := s.backend.Projects.Create(ctx, s.projectRequest(owner)); err != nil {
			return counts, fmt.Errorf("create project %d: %w", i, err)
		}
		counts.Projects++
	}

	if len(profiles) < 2 {
		return counts, nil
	}
	for i := 0; i < 2*n; i++ {
		from := profiles[s.faker.Number(0, len(profiles)-1)]
		to := profiles[s.faker.Number(0, len(profiles)-1)]
		if from.ID == to.ID || len(to.Skills) == 0 {
			continue
		}
		if _, err := s.backend.Endorsements.Create(ctx, s.endorsementRequest(from, to)); err != nil {
			return counts, fmt.Errorf("create endorsement %d: %w", i, err)
		}
		counts.Endorsements++
	}

	s.log.Info("Seed complete",
		zap.Int("profiles", counts.Profiles),
		zap.Int("projects", counts.Projects),
		zap.Int("endorsements", counts.Endorsements),
	)
	return counts, nil
}

func (s *Seeder) profileRequest(i int) *models.CreateProfileRequest {
	first, last := s.faker.FirstName(), s.faker.LastName()
	// The index keeps generated emails unique.
	email := fmt.Sprintf("%s%s%d@%s", localPart(first), localPart(last), i, s.faker.DomainName())

	return &models.CreateProfileRequest{
		Name:            first + " " + last,
		Email:           email,
		Headline:        s.faker.JobTitle(),
		Bio:             s.faker.Sentence(12),
		Skills:          s.pick(skills, 1, 4),
		Interests:       s.pick(interests, 1, 3),
		Timezone:        s.faker.RandomString(timezones),
		Availability:    s.faker.RandomString(availability),
		Goals:           s.faker.Sentence(6),
		Links:           []string{fmt.Sprintf("https://www.%s", s.faker.DomainName())},
		Verified:        s.faker.Bool(),
		ReputationScore: float64(s.faker.Number(0, 100)),
	}
}

func (s *Seeder) projectRequest(owner *models.Profile) *models.CreateProjectRequest {
	return &models.CreateProjectRequest{
		OwnerID:     owner.ID,
		Title:       s.faker.AppName(),
		Brief:       s.faker.Sentence(10),
		Tags:        s.pick(interests, 1, 3),
		RolesNeeded: s.pick(skills, 1, 3),
		Status:      projectStatuses[s.faker.Number(0, len(projectStatuses)-1)],
		Visibility:  models.VisibilityPublic,
	}
}

func (s *Seeder) endorsementRequest(from, to *models.Profile) *models.CreateEndorsementRequest {
	weight := float64(s.faker.Number(1, 5))
	return &models.CreateEndorsementRequest{
		FromUser: from.ID,
		ToUser:   to.ID,
		Skill:    to.Skills[s.faker.Number(0, len(to.Skills)-1)],
		Comment:  s.faker.Sentence(8),
		Weight:   &weight,
	}
}

// pick returns between lo and hi distinct entries of from.
func (s *Seeder) pick(from []string, lo, hi int) []string {
	n := s.faker.Number(lo, hi)
	idx := make([]int, len(from))
	for i := range idx {
		idx[i] = i
	}
	s.faker.ShuffleAnySlice(idx)

	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, from[i])
	}
	return out
}

func localPart(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, name)
}
