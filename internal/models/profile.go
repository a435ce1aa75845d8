package models

import "time"

// Profile is one person's networking attributes, stored in the "profile" collection.
type Profile struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Email           string    `json:"email" bson:"email"`
	Headline        string    `json:"headline,omitempty" bson:"headline,omitempty"`
	Bio             string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Skills          []string  `json:"skills" bson:"skills"`
	Interests       []string  `json:"interests" bson:"interests"`
	Timezone        string    `json:"timezone,omitempty" bson:"timezone,omitempty"`
	Availability    string    `json:"availability,omitempty" bson:"availability,omitempty"`
	Goals           string    `json:"goals,omitempty" bson:"goals,omitempty"`
	Links           []string  `json:"links" bson:"links"`
	Verified        bool      `json:"verified" bson:"verified"`
	ReputationScore float64   `json:"reputation_score" bson:"reputation_score"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateProfileRequest struct {
	Name            string   `json:"name" validate:"required" jsonschema:"required,description=Full name"`
	Email           string   `json:"email" validate:"required,email" jsonschema:"required,format=email"`
	Headline        string   `json:"headline" jsonschema:"description=Short role/summary"`
	Bio             string   `json:"bio"`
	Skills          []string `json:"skills"`
	Interests       []string `json:"interests"`
	Timezone        string   `json:"timezone" jsonschema:"description=IANA time zone such as America/Los_Angeles"`
	Availability    string   `json:"availability"`
	Goals           string   `json:"goals" jsonschema:"description=Outcomes you're seeking now"`
	Links           []string `json:"links" validate:"omitempty,dive,http_url" jsonschema:"description=http(s) URLs"`
	Verified        bool     `json:"verified"`
	ReputationScore float64  `json:"reputation_score" validate:"gte=0" jsonschema:"minimum=0"`
}

func (r *CreateProfileRequest) Validate() map[string]string {
	return validateStruct(r)
}

// UpdateProfileRequest is a field mask: nil means "leave unchanged".
// Slices use nil for "not supplied"; an explicit empty list clears the field.
type UpdateProfileRequest struct {
	Name         *string  `json:"name"`
	Headline     *string  `json:"headline"`
	Bio          *string  `json:"bio"`
	Skills       []string `json:"skills"`
	Interests    []string `json:"interests"`
	Timezone     *string  `json:"timezone"`
	Availability *string  `json:"availability"`
	Goals        *string  `json:"goals"`
	Links        []string `json:"links" validate:"omitempty,dive,http_url"`
	Verified     *bool    `json:"verified"`
}

func (r *UpdateProfileRequest) Validate() map[string]string {
	errs := validateStruct(r)
	if r.Name != nil && *r.Name == "" {
		errs["name"] = "Field cannot be empty"
	}
	return errs
}

// Changes returns the supplied fields keyed by their stored field name.
func (r *UpdateProfileRequest) Changes() map[string]interface{} {
	set := make(map[string]interface{})
	if r.Name != nil {
		set["name"] = *r.Name
	}
	if r.Headline != nil {
		set["headline"] = *r.Headline
	}
	if r.Bio != nil {
		set["bio"] = *r.Bio
	}
	if r.Skills != nil {
		set["skills"] = r.Skills
	}
	if r.Interests != nil {
		set["interests"] = r.Interests
	}
	if r.Timezone != nil {
		set["timezone"] = *r.Timezone
	}
	if r.Availability != nil {
		set["availability"] = *r.Availability
	}
	if r.Goals != nil {
		set["goals"] = *r.Goals
	}
	if r.Links != nil {
		set["links"] = r.Links
	}
	if r.Verified != nil {
		set["verified"] = *r.Verified
	}
	return set
}

func (r *UpdateProfileRequest) IsEmpty() bool {
	return len(r.Changes()) == 0
}

// ApplyTo copies the supplied fields onto p.
func (r *UpdateProfileRequest) ApplyTo(p *Profile) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Headline != nil {
		p.Headline = *r.Headline
	}
	if r.Bio != nil {
		p.Bio = *r.Bio
	}
	if r.Skills != nil {
		p.Skills = r.Skills
	}
	if r.Interests != nil {
		p.Interests = r.Interests
	}
	if r.Timezone != nil {
		p.Timezone = *r.Timezone
	}
	if r.Availability != nil {
		p.Availability = *r.Availability
	}
	if r.Goals != nil {
		p.Goals = *r.Goals
	}
	if r.Links != nil {
		p.Links = r.Links
	}
	if r.Verified != nil {
		p.Verified = *r.Verified
	}
}

// ListProfilesQuery filters GET /api/profiles.
type ListProfilesQuery struct {
	Email string
	Q     string // case-insensitive substring over name, headline and skills
	Limit int
}

// NewProfile builds a stored profile from a validated create request.
func NewProfile(id string, req *CreateProfileRequest, now time.Time) *Profile {
	return &Profile{
		ID:              id,
		Name:            req.Name,
		Email:           req.Email,
		Headline:        req.Headline,
		Bio:             req.Bio,
		Skills:          nonNil(req.Skills),
		Interests:       nonNil(req.Interests),
		Timezone:        req.Timezone,
		Availability:    req.Availability,
		Goals:           req.Goals,
		Links:           nonNil(req.Links),
		Verified:        req.Verified,
		ReputationScore: req.ReputationScore,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
