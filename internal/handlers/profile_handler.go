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

type ProfileHandler struct {
	profiles services.ProfileService
	timeout  time.Duration
}

func NewProfileHandler(profiles services.ProfileService, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, timeout: timeout}
}

func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.CreateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		log.Debug("CreateProfile validation failed", zap.Any("errors", errs))
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	prof, err := h.profiles.Create(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email already registered"))
			return
		}
		log.Error("CreateProfile failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create profile"))
		return
	}

	log.Info("CreateProfile succeeded", zap.String("profile_id", prof.ID))
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(prof))
}

func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		return
	}

	q := models.ListProfilesQuery{
		Email: r.URL.Query().Get("email"),
		Q:     r.URL.Query().Get("q"),
		Limit: limit,
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	profiles, err := h.profiles.List(ctx, q)
	if err != nil {
		logger.FromContext(r.Context()).Error("ListProfiles failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list profiles"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profiles))
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileId")

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	prof, err := h.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		logger.FromContext(r.Context()).Error("GetProfile failed", zap.String("profile_id", profileID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get profile"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// UpdateProfile applies a partial patch. A payload with no fields is answered
// with {"updated": false} and the store is not touched.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileId")

	var req models.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	if req.IsEmpty() {
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.UpdateResult{Updated: false}))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	prof, err := h.profiles.Update(ctx, profileID, &req)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		logger.FromContext(r.Context()).Error("UpdateProfile failed", zap.String("profile_id", profileID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}
