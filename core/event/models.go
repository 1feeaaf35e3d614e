package event

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

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"` // UTC
	CreatorID   string    `json:"creator_user_id"`
	Attendees   []string  `json:"attendees"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// HasAttendee reports whether userID already RSVP'd.
func (e Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)
	return validate.Struct(ne)
}

// StatusUpdate is the admin moderation payload.
type StatusUpdate struct {
	EventID string `json:"eventId" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return validate.Struct(su)
}

type QueryFilter struct {
	Search    string    `query:"search"`
	Status    string    `query:"status"`
	CreatorID string    `query:"creator"`
	From      time.Time `query:"from"`
	To        time.Time `query:"to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.CreatorID == "" && qf.From.IsZero() && qf.To.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
