package event

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
)

var ErrNotFound = errors.New("event not found")

type (
	Repository interface {
		CreateEvent(ctx context.Context, e Event) (Event, error)
		GetEventByID(ctx context.Context, id string) (Event, error)
		QueryEvents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Event, error)
		UpdateEventStatus(ctx context.Context, id, status string) (Event, error)
		UpdateEventAttendees(ctx context.Context, id string, attendees []string) (Event, error)
		DeleteEventsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ne NewEvent, creatorID string) (Event, error) {
	now := time.Now().UTC()
	e := Event{
		Title:       ne.Title,
		Description: ne.Description,
		Location:    ne.Location,
		StartsAt:    ne.StartsAt.UTC(),
		CreatorID:   creatorID,
		Attendees:   []string{},
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateEvent(ctx, e)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEventByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Event, error) {
	return svc.repo.QueryEvents(ctx, filter, ordering)
}

// QueryApproved is the public calendar view.
func (svc *Service) QueryApproved(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Event, error) {
	if filter == nil {
		filter = &QueryFilter{}
	}
	filter.Status = StatusApproved
	return svc.repo.QueryEvents(ctx, filter, ordering)
}

func (svc *Service) QueryPending(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryEvents(ctx, &QueryFilter{Status: StatusPending}, nil)
}

func (svc *Service) SetStatus(ctx context.Context, su StatusUpdate) (Event, error) {
	return svc.repo.UpdateEventStatus(ctx, su.EventID, su.Status)
}

// RSVP registers userID as an attendee. Attendees are kept unique: an
// RSVP from an already registered user is a no-op.
func (svc *Service) RSVP(ctx context.Context, eventID, userID string) (Event, error) {
	e, err := svc.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return Event{}, err
	}
	if e.HasAttendee(userID) {
		return e, nil
	}
	return svc.repo.UpdateEventAttendees(ctx, eventID, append(e.Attendees, userID))
}

// CancelRSVP removes userID from the attendees; unknown attendees are
// ignored.
func (svc *Service) CancelRSVP(ctx context.Context, eventID, userID string) (Event, error) {
	e, err := svc.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return Event{}, err
	}
	if !e.HasAttendee(userID) {
		return e, nil
	}
	attendees := make([]string, 0, len(e.Attendees))
	for _, id := range e.Attendees {
		if id != userID {
			attendees = append(attendees, id)
		}
	}
	return svc.repo.UpdateEventAttendees(ctx, eventID, attendees)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEventsByID(ctx, ids...)
}
