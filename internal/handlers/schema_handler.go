package handlers

import (
	"net/http"

	"github.com/invopop/jsonschema"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// SchemaHandler serves the JSON Schema of the create payload of every stored
// entity, keyed by collection name. Server-assigned fields are not part of it.
type SchemaHandler struct {
	schemas map[string]*jsonschema.Schema
}

func NewSchemaHandler() *SchemaHandler {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
		// Only fields tagged jsonschema:"required" are listed as required.
		RequiredFromJSONSchemaTags: true,
	}
	return &SchemaHandler{
		schemas: map[string]*jsonschema.Schema{
			"profile":      r.Reflect(&models.CreateProfileRequest{}),
			"project":      r.Reflect(&models.CreateProjectRequest{}),
			"endorsement":  r.Reflect(&models.CreateEndorsementRequest{}),
			"conversation": r.Reflect(&models.Conversation{}),
			"message":      r.Reflect(&models.Message{}),
		},
	}
}

func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.schemas))
}
