package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

type ProjectVisibility string

const (
	VisibilityPublic    ProjectVisibility = "public"
	VisibilityCommunity ProjectVisibility = "community"
	VisibilityPrivate   ProjectVisibility = "private"
)

// Project is a collaborative project. OwnerID references a profile but is not enforced.
type Project struct {
	ID          string            `json:"id" bson:"_id"`
	OwnerID     string            `json:"owner_id" bson:"owner_id"`
	Title       string            `json:"title" bson:"title"`
	Brief       string            `json:"brief" bson:"brief"`
	Tags        []string          `json:"tags" bson:"tags"`
	RolesNeeded []string          `json:"roles_needed" bson:"roles_needed"`
	Status      ProjectStatus     `json:"status" bson:"status"`
	Visibility  ProjectVisibility `json:"visibility" bson:"visibility"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

type CreateProjectRequest struct {
	OwnerID     string            `json:"owner_id" validate:"required" jsonschema:"required,description=Profile id of the owner"`
	Title       string            `json:"title" validate:"required" jsonschema:"required"`
	Brief       string            `json:"brief" validate:"required" jsonschema:"required"`
	Tags        []string          `json:"tags"`
	RolesNeeded []string          `json:"roles_needed"`
	Status      ProjectStatus     `json:"status" validate:"omitempty,oneof=open in_progress completed" jsonschema:"enum=open,enum=in_progress,enum=completed,default=open"`
	Visibility  ProjectVisibility `json:"visibility" validate:"omitempty,oneof=public community private" jsonschema:"enum=public,enum=community,enum=private,default=public"`
}

func (r *CreateProjectRequest) Validate() map[string]string {
	return validateStruct(r)
}

type UpdateProjectRequest struct {
	Title       *string            `json:"title"`
	Brief       *string            `json:"brief"`
	Tags        []string           `json:"tags"`
	RolesNeeded []string           `json:"roles_needed"`
	Status      *ProjectStatus     `json:"status" validate:"omitempty,oneof=open in_progress completed"`
	Visibility  *ProjectVisibility `json:"visibility" validate:"omitempty,oneof=public community private"`
}

func (r *UpdateProjectRequest) Validate() map[string]string {
	errs := validateStruct(r)
	if r.Title != nil && *r.Title == "" {
		errs["title"] = "Field cannot be empty"
	}
	if r.Brief != nil && *r.Brief == "" {
		errs["brief"] = "Field cannot be empty"
	}
	return errs
}

func (r *UpdateProjectRequest) Changes() map[string]interface{} {
	set := make(map[string]interface{})
	if r.Title != nil {
		set["title"] = *r.Title
	}
	if r.Brief != nil {
		set["brief"] = *r.Brief
	}
	if r.Tags != nil {
		set["tags"] = r.Tags
	}
	if r.RolesNeeded != nil {
		set["roles_needed"] = r.RolesNeeded
	}
	if r.Status != nil {
		set["status"] = *r.Status
	}
	if r.Visibility != nil {
		set["visibility"] = *r.Visibility
	}
	return set
}

func (r *UpdateProjectRequest) IsEmpty() bool {
	return len(r.Changes()) == 0
}

func (r *UpdateProjectRequest) ApplyTo(p *Project) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Brief != nil {
		p.Brief = *r.Brief
	}
	if r.Tags != nil {
		p.Tags = r.Tags
	}
	if r.RolesNeeded != nil {
		p.RolesNeeded = r.RolesNeeded
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.Visibility != nil {
		p.Visibility = *r.Visibility
	}
}

type ListProjectsQuery struct {
	OwnerID string
	Q       string // case-insensitive substring over title, brief and tags
	Limit   int
}

func NewProject(id string, req *CreateProjectRequest, now time.Time) *Project {
	status := req.Status
	if status == "" {
		status = ProjectStatusOpen
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	return &Project{
		ID:          id,
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Brief:       req.Brief,
		Tags:        nonNil(req.Tags),
		RolesNeeded: nonNil(req.RolesNeeded),
		Status:      status,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
