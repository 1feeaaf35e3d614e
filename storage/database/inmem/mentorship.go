package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/mentorship"
)

type mentorshipRepository struct {
	db *DB
}

var _ mentorship.Repository = (*mentorshipRepository)(nil)

func NewMentorshipRepository(db *DB) *mentorshipRepository {
	return &mentorshipRepository{db: db}
}

func (repo *mentorshipRepository) query() []mentorship.Request {
	reqs := make([]mentorship.Request, 0, len(repo.db.mentorships))
	for _, r := range repo.db.mentorships {
		reqs = append(reqs, *r)
	}
	return reqs
}

func (repo *mentorshipRepository) CreateRequest(_ context.Context, r mentorship.Request) (mentorship.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = uuid.New().String()
	repo.db.mentorships[r.ID] = &r
	return r, nil
}

func (repo *mentorshipRepository) GetRequestByID(_ context.Context, id string) (mentorship.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.mentorships[id]; ok {
		return *r, nil
	}
	return mentorship.Request{}, mentorship.ErrNotFound
}

func (repo *mentorshipRepository) QueryRequests(_ context.Context, filter *mentorship.QueryFilter, ordering []core.DBOrdering) ([]mentorship.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reqs := repo.query()
	if filter != nil && !filter.IsEmpty() {
		reqs = core.Filter(reqs, func(r mentorship.Request) bool {
			if filter.StudentID != "" && r.StudentID != filter.StudentID {
				return false
			}
			if filter.AlumniID != "" && r.AlumniID != filter.AlumniID {
				return false
			}
			if filter.Status != "" && r.Status != filter.Status {
				return false
			}
			return true
		})
	}

	sortBy(reqs, ordering, map[string]func(a, b mentorship.Request) bool{
		"created_at": func(a, b mentorship.Request) bool { return a.CreatedAt.Before(b.CreatedAt) },
	}, func(a, b mentorship.Request) bool { return a.CreatedAt.After(b.CreatedAt) })
	return reqs, nil
}

func (repo *mentorshipRepository) UpdateRequestStatus(_ context.Context, id, status string) (mentorship.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r, ok := repo.db.mentorships[id]
	if !ok {
		return mentorship.Request{}, mentorship.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return *r, nil
}

func (repo *mentorshipRepository) DeleteRequestsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.mentorships, id)
	}
	return nil
}
