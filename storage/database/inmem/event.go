package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/event"
)

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) query() []event.Event {
	events := make([]event.Event, 0, len(repo.db.events))
	for _, e := range repo.db.events {
		events = append(events, *e)
	}
	return events
}

func (repo *eventRepository) CreateEvent(_ context.Context, e event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e.ID = uuid.New().String()
	repo.db.events[e.ID] = &e
	return e, nil
}

func (repo *eventRepository) GetEventByID(_ context.Context, id string) (event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e, ok := repo.db.events[id]; ok {
		return *e, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) QueryEvents(_ context.Context, filter *event.QueryFilter, ordering []core.DBOrdering) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := repo.query()
	if filter != nil && !filter.IsEmpty() {
		events = core.Filter(events, func(e event.Event) bool {
			if filter.Search != "" &&
				!(containsFold(e.Title, filter.Search) || containsFold(e.Description, filter.Search) || containsFold(e.Location, filter.Search)) {
				return false
			}
			if filter.Status != "" && e.Status != filter.Status {
				return false
			}
			if filter.CreatorID != "" && e.CreatorID != filter.CreatorID {
				return false
			}
			if !filter.From.IsZero() && e.StartsAt.Before(filter.From) {
				return false
			}
			if !filter.To.IsZero() && e.StartsAt.After(filter.To) {
				return false
			}
			return true
		})
	}

	sortBy(events, ordering, map[string]func(a, b event.Event) bool{
		"title":      func(a, b event.Event) bool { return a.Title < b.Title },
		"starts_at":  func(a, b event.Event) bool { return a.StartsAt.Before(b.StartsAt) },
		"created_at": func(a, b event.Event) bool { return a.CreatedAt.Before(b.CreatedAt) },
	}, func(a, b event.Event) bool { return a.StartsAt.Before(b.StartsAt) })
	return events, nil
}

func (repo *eventRepository) UpdateEventStatus(_ context.Context, id, status string) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e, ok := repo.db.events[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now().UTC()
	return *e, nil
}

func (repo *eventRepository) UpdateEventAttendees(_ context.Context, id string, attendees []string) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e, ok := repo.db.events[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	e.Attendees = attendees
	e.UpdatedAt = time.Now().UTC()
	return *e, nil
}

func (repo *eventRepository) DeleteEventsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.events, id)
	}
	return nil
}
