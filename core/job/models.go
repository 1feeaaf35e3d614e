package job

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alumniconnect/alumniconnect/core"
)

// Moderation statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Kinds
const (
	KindJob        = "job"
	KindInternship = "internship"
)

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	ApplyURL    string    `json:"apply_url,omitempty"`
	Status      string    `json:"status"`
	PostedBy    string    `json:"postedBy"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewJob contains information needed to post a new Job.
type NewJob struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=job internship"`
	Description string `json:"description" validate:"required"`
	ApplyURL    string `json:"apply_url" validate:"omitempty,url"`
}

func (nj *NewJob) Validate(validate *validator.Validate) error {
	nj.Title = core.CleanString(nj.Title)
	nj.Company = core.CleanString(nj.Company)
	nj.Location = core.CleanString(nj.Location)
	nj.Kind = core.CleanString(nj.Kind, true /* lower */)
	nj.Description = core.CleanString(nj.Description)
	nj.ApplyURL = core.CleanString(nj.ApplyURL)
	return validate.Struct(nj)
}

// StatusUpdate is the admin moderation payload.
type StatusUpdate struct {
	JobID  string `json:"jobId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return validate.Struct(su)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Kind     string `query:"kind"`
	Status   string `query:"status"`
	PostedBy string `query:"posted_by"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Kind == "" && qf.Status == "" && qf.PostedBy == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Kind = core.CleanString(qf.Kind, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
