package report

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alumniconnect/alumniconnect/core"
)

// Report statuses
const (
	StatusOpen      = "open"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)

// Reportable content types
const (
	ContentJob   = "job"
	ContentEvent = "event"
	ContentPost  = "post"
)

// Report flags a piece of user-generated content for moderation.
type Report struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	ReporterID  string    `json:"reporter_id"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewReport contains information needed to file a Report.
type NewReport struct {
	ContentType string `json:"content_type" validate:"required,oneof=job event post"`
	ContentID   string `json:"content_id" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
}

func (nr *NewReport) Validate(validate *validator.Validate) error {
	nr.ContentType = core.CleanString(nr.ContentType, true /* lower */)
	nr.Reason = core.CleanString(nr.Reason)
	return validate.Struct(nr)
}

// StatusUpdate is the admin moderation payload.
type StatusUpdate struct {
	ReportID string `json:"reportId" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=open resolved dismissed"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return validate.Struct(su)
}

type QueryFilter struct {
	ContentType string `query:"content_type"`
	Status      string `query:"status"`
	ReporterID  string `query:"reporter"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.ContentType == "" && qf.Status == "" && qf.ReporterID == ""
}

func (qf *QueryFilter) Clean() {
	qf.ContentType = core.CleanString(qf.ContentType, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
