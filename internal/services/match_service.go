package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/matching"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/metrics"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// FallbackWarning is returned when profile_id does not resolve.
const FallbackWarning = "profile_id not found; matched on the supplied skills and interests"

// MatchService resolves the base of a match request and ranks the profile corpus against it.
type MatchService struct {
	profiles     ProfileReader
	engine       *matching.Engine
	defaultLimit int
}

func NewMatchService(profiles ProfileReader, engine *matching.Engine, defaultLimit int) *MatchService {
	if defaultLimit <= 0 {
		defaultLimit = models.DefaultMatchLimit
	}
	return &MatchService{
		profiles:     profiles,
		engine:       engine,
		defaultLimit: defaultLimit,
	}
}

// Match scores every stored profile against the request's base. The base profile
// lookup and the corpus fetch run concurrently.
func (s *MatchService) Match(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error) {
	var (
		base   *models.Profile
		corpus []models.Profile
	)

	g, gctx := errgroup.WithContext(ctx)

	if req.ProfileID != "" {
		g.Go(func() error {
			p, err := s.profiles.FindByID(gctx, req.ProfileID)
			if err != nil {
				if errors.Is(err, ErrProfileNotFound) {
					return nil
				}
				return fmt.Errorf("find base profile: %w", err)
			}
			base = p
			return nil
		})
	}

	g.Go(func() error {
		all, err := s.profiles.FindAll(gctx)
		if err != nil {
			return fmt.Errorf("find candidates: %w", err)
		}
		corpus = all
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &models.MatchResponse{}
	var anchor matching.Base
	switch {
	case base != nil:
		anchor = matching.BaseFromProfile(base)
		metrics.ObserveMatch(metrics.AnchorProfile, len(corpus))
	case req.ProfileID != "":
		anchor = matching.BaseFromAttributes(req.Skills, req.Interests)
		resp.Warning = FallbackWarning
		metrics.ObserveMatch(metrics.AnchorFallback, len(corpus))
	default:
		anchor = matching.BaseFromAttributes(req.Skills, req.Interests)
		metrics.ObserveMatch(metrics.AnchorAttributes, len(corpus))
	}

	resp.Results = s.engine.Rank(anchor, corpus, req.EffectiveLimit(s.defaultLimit))
	return resp, nil
}
