package handlers

import (
	"net/http"
	"time"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/services"
)

type HealthHandler struct {
	checker services.HealthChecker
	timeout time.Duration
}

func NewHealthHandler(checker services.HealthChecker, timeout time.Duration) *HealthHandler {
	return &HealthHandler{checker: checker, timeout: timeout}
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{
		"message": "Networking backend is running",
	}))
}

// Liveness does not touch the document store.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readiness reports whether the document store answers and which collections exist.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := h.checker.Health(ctx)
	if !status.OK {
		writeJSON(w, http.StatusServiceUnavailable, models.NewFailureResponse("Database not connected", status))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(status))
}
