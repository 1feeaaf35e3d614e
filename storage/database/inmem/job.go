package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/job"
)

type jobRepository struct {
	db *DB
}

var _ job.Repository = (*jobRepository)(nil)

func NewJobRepository(db *DB) *jobRepository {
	return &jobRepository{db: db}
}

func (repo *jobRepository) query() []job.Job {
	jobs := make([]job.Job, 0, len(repo.db.jobs))
	for _, j := range repo.db.jobs {
		jobs = append(jobs, *j)
	}
	return jobs
}

func (repo *jobRepository) CreateJob(_ context.Context, j job.Job) (job.Job, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	j.ID = uuid.New().String()
	repo.db.jobs[j.ID] = &j
	return j, nil
}

func (repo *jobRepository) GetJobByID(_ context.Context, id string) (job.Job, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if j, ok := repo.db.jobs[id]; ok {
		return *j, nil
	}
	return job.Job{}, job.ErrNotFound
}

func (repo *jobRepository) QueryJobs(_ context.Context, filter *job.QueryFilter, ordering []core.DBOrdering) ([]job.Job, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	jobs := repo.query()
	if filter != nil && !filter.IsEmpty() {
		jobs = core.Filter(jobs, func(j job.Job) bool {
			if filter.Search != "" &&
				!(containsFold(j.Title, filter.Search) || containsFold(j.Company, filter.Search) || containsFold(j.Location, filter.Search)) {
				return false
			}
			if filter.Kind != "" && j.Kind != filter.Kind {
				return false
			}
			if filter.Status != "" && j.Status != filter.Status {
				return false
			}
			if filter.PostedBy != "" && j.PostedBy != filter.PostedBy {
				return false
			}
			return true
		})
	}

	sortBy(jobs, ordering, map[string]func(a, b job.Job) bool{
		"title":      func(a, b job.Job) bool { return a.Title < b.Title },
		"company":    func(a, b job.Job) bool { return a.Company < b.Company },
		"created_at": func(a, b job.Job) bool { return a.CreatedAt.Before(b.CreatedAt) },
	}, func(a, b job.Job) bool { return a.CreatedAt.After(b.CreatedAt) })
	return jobs, nil
}

func (repo *jobRepository) UpdateJobStatus(_ context.Context, id, status string) (job.Job, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	j, ok := repo.db.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	j.Status = status
	j.UpdatedAt = time.Now().UTC()
	return *j, nil
}

func (repo *jobRepository) DeleteJobsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.jobs, id)
	}
	return nil
}
