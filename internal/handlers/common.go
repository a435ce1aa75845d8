package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// DefaultRequestTimeout bounds every store call made on behalf of a request.
const DefaultRequestTimeout = 10 * time.Second

// maxBodyBytes caps request bodies; profiles and match requests are small.
const maxBodyBytes = 1 << 20

var errInvalidLimit = errors.New("limit must be a non-negative integer")

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultRequestTimeout
	}
	return context.WithTimeout(parent, d)
}

// decodeJSON reads the request body into dst. An empty body decodes as {}.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// parseLimit reads ?limit=. Missing or zero yields 0, which services treat as their default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errInvalidLimit
	}
	return n, nil
}

func writeBadBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
}
