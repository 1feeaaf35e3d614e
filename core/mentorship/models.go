package mentorship

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alumniconnect/alumniconnect/core"
)

// Request statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Request is a student's mentorship ask towards one alumni.
type Request struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	AlumniID  string    `json:"alumni_id"`
	Topic     string    `json:"topic"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewRequest contains information needed to file a mentorship Request.
type NewRequest struct {
	AlumniID string `json:"alumni_id" validate:"required"`
	Topic    string `json:"topic" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.Topic = core.CleanString(nr.Topic)
	nr.Message = core.CleanString(nr.Message)
	return validate.Struct(nr)
}

// Response is the alumni's verdict on a pending Request.
type Response struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}

func (r *Response) Validate(validate *validator.Validate) error {
	r.Status = core.CleanString(r.Status, true /* lower */)
	return validate.Struct(r)
}

type QueryFilter struct {
	StudentID string `query:"student"`
	AlumniID  string `query:"alumni"`
	Status    string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.AlumniID == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
