package models

// APIResponse is the envelope of every JSON body the API writes.
// Errors maps request field names to validation messages.
type APIResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func NewErrorResponse(message string) APIResponse {
	return APIResponse{Error: message}
}

// NewFailureResponse is an error that still carries a payload, e.g. a degraded health status.
func NewFailureResponse(message string, data interface{}) APIResponse {
	return APIResponse{Error: message, Data: data}
}

func NewValidationErrorResponse(fields map[string]string) APIResponse {
	return APIResponse{Error: "Validation failed", Errors: fields}
}

// UpdateResult is returned by PUT endpoints when the payload carried no fields.
type UpdateResult struct {
	Updated bool `json:"updated"`
}

// HealthStatus reports backend and document store reachability.
type HealthStatus struct {
	OK          bool     `json:"ok"`
	Database    string   `json:"database"`
	Driver      string   `json:"driver"`
	Collections []string `json:"collections,omitempty"`
	Error       string   `json:"error,omitempty"`
}
