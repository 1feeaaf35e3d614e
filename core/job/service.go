package job

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
)

var ErrNotFound = errors.New("job not found")

type (
	Repository interface {
		CreateJob(ctx context.Context, j Job) (Job, error)
		GetJobByID(ctx context.Context, id string) (Job, error)
		QueryJobs(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Job, error)
		UpdateJobStatus(ctx context.Context, id, status string) (Job, error)
		DeleteJobsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Post submits a new posting; it stays invisible to the boards until an
// admin approves it.
func (svc *Service) Post(ctx context.Context, nj NewJob, postedBy string) (Job, error) {
	now := time.Now().UTC()
	j := Job{
		Title:       nj.Title,
		Company:     nj.Company,
		Location:    nj.Location,
		Kind:        nj.Kind,
		Description: nj.Description,
		ApplyURL:    nj.ApplyURL,
		Status:      StatusPending,
		PostedBy:    postedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateJob(ctx, j)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Job, error) {
	return svc.repo.GetJobByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Job, error) {
	return svc.repo.QueryJobs(ctx, filter, ordering)
}

// QueryApproved is the public board view.
func (svc *Service) QueryApproved(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Job, error) {
	if filter == nil {
		filter = &QueryFilter{}
	}
	filter.Status = StatusApproved
	return svc.repo.QueryJobs(ctx, filter, ordering)
}

// QueryPending is the admin moderation queue.
func (svc *Service) QueryPending(ctx context.Context) ([]Job, error) {
	return svc.repo.QueryJobs(ctx, &QueryFilter{Status: StatusPending}, nil)
}

func (svc *Service) SetStatus(ctx context.Context, su StatusUpdate) (Job, error) {
	return svc.repo.UpdateJobStatus(ctx, su.JobID, su.Status)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteJobsByID(ctx, ids...)
}
