package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/report"
)

type reportRepository struct {
	db *DB
}

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db}
}

func (repo *reportRepository) query() []report.Report {
	reports := make([]report.Report, 0, len(repo.db.reports))
	for _, r := range repo.db.reports {
		reports = append(reports, *r)
	}
	return reports
}

func (repo *reportRepository) CreateReport(_ context.Context, r report.Report) (report.Report, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = uuid.New().String()
	repo.db.reports[r.ID] = &r
	return r, nil
}

func (repo *reportRepository) GetReportByID(_ context.Context, id string) (report.Report, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.reports[id]; ok {
		return *r, nil
	}
	return report.Report{}, report.ErrNotFound
}

func (repo *reportRepository) QueryReports(_ context.Context, filter *report.QueryFilter, ordering []core.DBOrdering) ([]report.Report, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reports := repo.query()
	if filter != nil && !filter.IsEmpty() {
		reports = core.Filter(reports, func(r report.Report) bool {
			if filter.ContentType != "" && r.ContentType != filter.ContentType {
				return false
			}
			if filter.Status != "" && r.Status != filter.Status {
				return false
			}
			if filter.ReporterID != "" && r.ReporterID != filter.ReporterID {
				return false
			}
			return true
		})
	}

	sortBy(reports, ordering, map[string]func(a, b report.Report) bool{
		"created_at": func(a, b report.Report) bool { return a.CreatedAt.Before(b.CreatedAt) },
		"status":     func(a, b report.Report) bool { return a.Status < b.Status },
	}, func(a, b report.Report) bool { return a.CreatedAt.After(b.CreatedAt) })
	return reports, nil
}

func (repo *reportRepository) UpdateReportStatus(_ context.Context, id, status string) (report.Report, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r, ok := repo.db.reports[id]
	if !ok {
		return report.Report{}, report.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return *r, nil
}

func (repo *reportRepository) DeleteReportsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.reports, id)
	}
	return nil
}
