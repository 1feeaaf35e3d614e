package sqlxrepos

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/report"
)

type reportRepository struct {
	db *sqlx.DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *sqlx.DB) *reportRepository {
	return &reportRepository{db: db}
}

type reportRow struct {
	ID          string      `db:"id"`
	ContentType string      `db:"content_type"`
	ContentID   string      `db:"content_id"`
	ReporterID  null.String `db:"reporter_id"`
	Reason      string      `db:"reason"`
	Status      string      `db:"status"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r reportRow) toReport() report.Report {
	return report.Report{
		ID:          r.ID,
		ContentType: r.ContentType,
		ContentID:   r.ContentID,
		ReporterID:  r.ReporterID.String,
		Reason:      r.Reason,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const reportCols = `id, content_type, content_id, reporter_id, reason, status, created_at, updated_at`

func (repo reportRepository) CreateReport(ctx context.Context, r report.Report) (report.Report, error) {
	r.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO report (id, content_type, content_id, reporter_id, reason, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.ContentType, r.ContentID, null.NewString(r.ReporterID, r.ReporterID != ""),
		r.Reason, r.Status, r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
	)
	if err != nil {
		return report.Report{}, errors.Wrap(err, "inserting report")
	}
	return r, nil
}

func (repo reportRepository) GetReportByID(ctx context.Context, id string) (report.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return report.Report{}, report.ErrNotFound
	}
	var row reportRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+reportCols+` FROM report WHERE id = $1`, id); err != nil {
		return report.Report{}, trapNoRowsErr(err, report.ErrNotFound, "getting report")
	}
	return row.toReport(), nil
}

var reportOrderCols = map[string]string{
	"status":     "status",
	"created_at": "created_at",
}

func (repo reportRepository) QueryReports(ctx context.Context, filter *report.QueryFilter, ordering []core.DBOrdering) ([]report.Report, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}

	if filter != nil {
		if filter.ContentType != "" {
			conds = append(conds, `content_type = `+arg(filter.ContentType))
		}
		if filter.Status != "" {
			conds = append(conds, `status = `+arg(filter.Status))
		}
		if filter.ReporterID != "" {
			conds = append(conds, `reporter_id = `+arg(filter.ReporterID))
		}
	}

	query := `SELECT ` + reportCols + ` FROM report`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += orderClause(ordering, reportOrderCols, `created_at DESC`)

	var rows []reportRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying reports")
	}
	reports := make([]report.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.toReport())
	}
	return reports, nil
}

func (repo reportRepository) UpdateReportStatus(ctx context.Context, id, status string) (report.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return report.Report{}, report.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE report SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return report.Report{}, errors.Wrap(err, "updating report status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return report.Report{}, report.ErrNotFound
	}
	return repo.GetReportByID(ctx, id)
}

func (repo reportRepository) DeleteReportsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM report WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting reports")
}
