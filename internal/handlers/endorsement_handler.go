package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/logger"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/services"
)

type EndorsementHandler struct {
	endorsements services.EndorsementService
	timeout      time.Duration
}

func NewEndorsementHandler(endorsements services.EndorsementService, timeout time.Duration) *EndorsementHandler {
	return &EndorsementHandler{endorsements: endorsements, timeout: timeout}
}

func (h *EndorsementHandler) CreateEndorsement(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEndorsementRequest
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

	e, err := h.endorsements.Create(ctx, &req)
	if err != nil {
		logger.FromContext(r.Context()).Error("CreateEndorsement failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create endorsement"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(e))
}

func (h *EndorsementHandler) ListEndorsements(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		return
	}

	query := r.URL.Query()
	q := models.ListEndorsementsQuery{
		FromUser: query.Get("from_user"),
		ToUser:   query.Get("to_user"),
		Skill:    query.Get("skill"),
		Limit:    limit,
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.endorsements.List(ctx, q)
	if err != nil {
		logger.FromContext(r.Context()).Error("ListEndorsements failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list endorsements"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *EndorsementHandler) GetEndorsement(w http.ResponseWriter, r *http.Request) {
	endorsementID := chi.URLParam(r, "endorsementId")

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	e, err := h.endorsements.GetByID(ctx, endorsementID)
	if err != nil {
		if errors.Is(err, services.ErrEndorsementNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Endorsement not found"))
			return
		}
		logger.FromContext(r.Context()).Error("GetEndorsement failed", zap.String("endorsement_id", endorsementID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get endorsement"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(e))
}
