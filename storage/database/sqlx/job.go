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
	"github.com/alumniconnect/alumniconnect/core/job"
)

type jobRepository struct {
	db *sqlx.DB
}

var _ job.Repository = (*jobRepository)(nil) // interface compliance check

func NewJobRepository(db *sqlx.DB) *jobRepository {
	return &jobRepository{db: db}
}

type jobRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Company     string      `db:"company"`
	Location    string      `db:"location"`
	Kind        string      `db:"kind"`
	Description string      `db:"description"`
	ApplyURL    null.String `db:"apply_url"`
	Status      string      `db:"status"`
	PostedBy    null.String `db:"posted_by"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r jobRow) toJob() job.Job {
	return job.Job{
		ID:          r.ID,
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		Kind:        r.Kind,
		Description: r.Description,
		ApplyURL:    r.ApplyURL.String,
		Status:      r.Status,
		PostedBy:    r.PostedBy.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const jobCols = `id, title, company, location, kind, description, apply_url, status, posted_by, created_at, updated_at`

func (repo jobRepository) CreateJob(ctx context.Context, j job.Job) (job.Job, error) {
	j.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO job (id, title, company, location, kind, description, apply_url, status, posted_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		j.ID, j.Title, j.Company, j.Location, j.Kind, j.Description,
		null.NewString(j.ApplyURL, j.ApplyURL != ""), j.Status,
		null.NewString(j.PostedBy, j.PostedBy != ""), j.CreatedAt.UTC(), j.UpdatedAt.UTC(),
	)
	if err != nil {
		return job.Job{}, errors.Wrap(err, "inserting job")
	}
	return j, nil
}

func (repo jobRepository) GetJobByID(ctx context.Context, id string) (job.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return job.Job{}, job.ErrNotFound
	}
	var row jobRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+jobCols+` FROM job WHERE id = $1`, id); err != nil {
		return job.Job{}, trapNoRowsErr(err, job.ErrNotFound, "getting job")
	}
	return row.toJob(), nil
}

var jobOrderCols = map[string]string{
	"title":      "title",
	"company":    "company",
	"status":     "status",
	"created_at": "created_at",
}

func (repo jobRepository) QueryJobs(ctx context.Context, filter *job.QueryFilter, ordering []core.DBOrdering) ([]job.Job, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, `(title ILIKE `+p+` OR company ILIKE `+p+` OR location ILIKE `+p+`)`)
		}
		if filter.Kind != "" {
			conds = append(conds, `kind = `+arg(filter.Kind))
		}
		if filter.Status != "" {
			conds = append(conds, `status = `+arg(filter.Status))
		}
		if filter.PostedBy != "" {
			conds = append(conds, `posted_by = `+arg(filter.PostedBy))
		}
	}

	query := `SELECT ` + jobCols + ` FROM job`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += orderClause(ordering, jobOrderCols, `created_at DESC`)

	var rows []jobRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying jobs")
	}
	jobs := make([]job.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, row.toJob())
	}
	return jobs, nil
}

func (repo jobRepository) UpdateJobStatus(ctx context.Context, id, status string) (job.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return job.Job{}, job.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE job SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return job.Job{}, errors.Wrap(err, "updating job status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return job.Job{}, job.ErrNotFound
	}
	return repo.GetJobByID(ctx, id)
}

func (repo jobRepository) DeleteJobsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM job WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting jobs")
}
