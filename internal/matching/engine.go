// Package matching ranks candidate profiles by heuristic affinity to a base set of
// skills and interests.
//
// The score of a candidate is linear in three overlap counts:
//
//	score = w_i*|base_interests ∩ interests| + w_s*|base_skills ∩ skills| + w_c*|skills − base_skills|
//
// Shared interests weigh heaviest, shared skills next, and skills the candidate brings
// that the base lacks weigh lightly. The engine is a pure function of its inputs.
package matching

import (
	"sort"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// Weights are the coefficients of the linear score.
type Weights struct {
	SharedInterest  float64
	SharedSkill     float64
	ComplementSkill float64
}

// DefaultWeights returns 2 / 1 / 0.5.
func DefaultWeights() Weights {
	return Weights{
		SharedInterest:  2,
		SharedSkill:     1,
		ComplementSkill: 0.5,
	}
}

// Base is the anchor for scoring. ID is the anchoring profile's id, or empty
// when the attributes came from the request; a non-empty ID is excluded from results.
type Base struct {
	ID        string
	Skills    Set
	Interests Set
}

// BaseFromProfile anchors on a stored profile and excludes it from the results.
func BaseFromProfile(p *models.Profile) Base {
	return Base{
		ID:        p.ID,
		Skills:    NewSet(p.Skills),
		Interests: NewSet(p.Interests),
	}
}

// BaseFromAttributes anchors on ad-hoc skills and interests. Nil slices yield empty sets.
func BaseFromAttributes(skills, interests []string) Base {
	return Base{
		Skills:    NewSet(skills),
		Interests: NewSet(interests),
	}
}

// Breakdown holds the overlap counts behind a score.
type Breakdown struct {
	SharedInterests  int
	SharedSkills     int
	ComplementSkills int
}

// Compare computes the overlap counts of a candidate against the base.
func Compare(base Base, candidate *models.Profile) Breakdown {
	skills := NewSet(candidate.Skills)
	interests := NewSet(candidate.Interests)
	return Breakdown{
		SharedInterests:  base.Interests.IntersectCount(interests),
		SharedSkills:     base.Skills.IntersectCount(skills),
		ComplementSkills: skills.DifferenceCount(base.Skills),
	}
}

// Score applies the weights to a breakdown.
func (w Weights) Score(b Breakdown) float64 {
	return w.SharedInterest*float64(b.SharedInterests) +
		w.SharedSkill*float64(b.SharedSkills) +
		w.ComplementSkill*float64(b.ComplementSkills)
}

type Engine struct {
	weights Weights
}

func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Score returns the match score of one candidate.
func (e *Engine) Score(base Base, candidate *models.Profile) float64 {
	return e.weights.Score(Compare(base, candidate))
}

// Rank scores every candidate except the base profile and returns at most limit
// results, highest score first. Equal scores keep the order of candidates.
func (e *Engine) Rank(base Base, candidates []models.Profile, limit int) []models.MatchResult {
	if limit <= 0 || len(candidates) == 0 {
		return []models.MatchResult{}
	}

	scored := make([]models.MatchResult, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if base.ID != "" && c.ID == base.ID {
			continue
		}
		scored = append(scored, models.MatchResult{
			Profile:    *c,
			MatchScore: e.Score(base, c),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
