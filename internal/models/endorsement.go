package models

import (
	"time"
)

const DefaultEndorsementWeight = 1.0

// Endorsement records one profile vouching for another's skill. Neither user id is enforced.
type Endorsement struct {
	ID          string    `json:"id" bson:"_id"`
	FromUser    string    `json:"from_user" bson:"from_user"`
	ToUser      string    `json:"to_user" bson:"to_user"`
	Skill       string    `json:"skill" bson:"skill"`
	Comment     string    `json:"comment,omitempty" bson:"comment,omitempty"`
	EvidenceURL string    `json:"evidence_url,omitempty" bson:"evidence_url,omitempty"`
	Weight      float64   `json:"weight" bson:"weight"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type CreateEndorsementRequest struct {
	FromUser    string   `json:"from_user" validate:"required" jsonschema:"required,description=Endorser profile id"`
	ToUser      string   `json:"to_user" validate:"required" jsonschema:"required,description=Endorsee profile id"`
	Skill       string   `json:"skill" validate:"required" jsonschema:"required"`
	Comment     string   `json:"comment"`
	EvidenceURL string   `json:"evidence_url" validate:"omitempty,http_url" jsonschema:"format=uri"`
	Weight      *float64 `json:"weight" jsonschema:"minimum=0,default=1"`
}

func (r *CreateEndorsementRequest) Validate() map[string]string {
	errs := validateStruct(r)
	if r.Weight != nil && *r.Weight < 0 {
		errs["weight"] = "Must be greater than or equal to 0"
	}
	return errs
}

type ListEndorsementsQuery struct {
	FromUser string
	ToUser   string
	Skill    string
	Limit    int
}

func NewEndorsement(id string, req *CreateEndorsementRequest, now time.Time) *Endorsement {
	weight := DefaultEndorsementWeight
	if req.Weight != nil {
		weight = *req.Weight
	}
	return &Endorsement{
		ID:          id,
		FromUser:    req.FromUser,
		ToUser:      req.ToUser,
		Skill:       req.Skill,
		Comment:     req.Comment,
		EvidenceURL: req.EvidenceURL,
		Weight:      weight,
		CreatedAt:   now,
	}
}
