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

type ProjectHandler struct {
	projects services.ProjectService
	timeout  time.Duration
}

func NewProjectHandler(projects services.ProjectService, timeout time.Duration) *ProjectHandler {
	return &ProjectHandler{projects: projects, timeout: timeout}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
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

	project, err := h.projects.Create(ctx, &req)
	if err != nil {
		logger.FromContext(r.Context()).Error("CreateProject failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create project"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(project))
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		return
	}

	q := models.ListProjectsQuery{
		OwnerID: r.URL.Query().Get("owner_id"),
		Q:       r.URL.Query().Get("q"),
		Limit:   limit,
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	projects, err := h.projects.List(ctx, q)
	if err != nil {
		logger.FromContext(r.Context()).Error("ListProjects failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list projects"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(projects))
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Project not found"))
			return
		}
		logger.FromContext(r.Context()).Error("GetProject failed", zap.String("project_id", projectID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get project"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(project))
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	var req models.UpdateProjectRequest
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

	project, err := h.projects.Update(ctx, projectID, &req)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Project not found"))
			return
		}
		logger.FromContext(r.Context()).Error("UpdateProject failed", zap.String("project_id", projectID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update project"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(project))
}
