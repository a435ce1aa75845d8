package models

const DefaultMatchLimit = 10

// MatchRequest anchors matching on a stored profile (ProfileID) or on the supplied
// skills and interests. Goals is accepted but does not affect scoring.
type MatchRequest struct {
	ProfileID string   `json:"profile_id"`
	Goals     string   `json:"goals"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
	Limit     *int     `json:"limit"`
}

func (r *MatchRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Limit != nil && *r.Limit < 0 {
		errs["limit"] = "Limit cannot be negative"
	}
	return errs
}

// EffectiveLimit returns the requested limit or fallback when none was given.
func (r *MatchRequest) EffectiveLimit(fallback int) int {
	if r.Limit == nil {
		return fallback
	}
	return *r.Limit
}

// MatchResult is a candidate profile with its heuristic affinity score.
type MatchResult struct {
	Profile
	MatchScore float64 `json:"match_score"`
}

type MatchResponse struct {
	Results []MatchResult `json:"results"`
	// Warning is set when ProfileID did not resolve and matching fell back to
	// the request's own skills and interests.
	Warning string `json:"warning,omitempty"`
}
