package report

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
)

var ErrNotFound = errors.New("report not found")

type (
	Repository interface {
		CreateReport(ctx context.Context, r Report) (Report, error)
		GetReportByID(ctx context.Context, id string) (Report, error)
		QueryReports(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Report, error)
		UpdateReportStatus(ctx context.Context, id, status string) (Report, error)
		DeleteReportsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) File(ctx context.Context, nr NewReport, reporterID string) (Report, error) {
	now := time.Now().UTC()
	return svc.repo.CreateReport(ctx, Report{
		ContentType: nr.ContentType,
		ContentID:   nr.ContentID,
		ReporterID:  reporterID,
		Reason:      nr.Reason,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Report, error) {
	return svc.repo.GetReportByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Report, error) {
	return svc.repo.QueryReports(ctx, filter, ordering)
}

// QueryOpen is the admin moderation queue.
func (svc *Service) QueryOpen(ctx context.Context) ([]Report, error) {
	return svc.repo.QueryReports(ctx, &QueryFilter{Status: StatusOpen}, nil)
}

func (svc *Service) SetStatus(ctx context.Context, su StatusUpdate) (Report, error) {
	return svc.repo.UpdateReportStatus(ctx, su.ReportID, su.Status)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteReportsByID(ctx, ids...)
}
