package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/logger"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// Matcher ranks stored profiles against a match request.
type Matcher interface {
	Match(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error)
}

type MatchHandler struct {
	matcher Matcher
	timeout time.Duration
}

func NewMatchHandler(matcher Matcher, timeout time.Duration) *MatchHandler {
	return &MatchHandler{matcher: matcher, timeout: timeout}
}

func (h *MatchHandler) FindMatches(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.MatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp, err := h.matcher.Match(ctx, &req)
	if err != nil {
		log.Error("FindMatches failed", zap.String("profile_id", req.ProfileID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to compute matches"))
		return
	}

	if resp.Warning != "" {
		log.Info("FindMatches fell back to request attributes", zap.String("profile_id", req.ProfileID))
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(resp))
}
