package sqlxrepos

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/mentorship"
)

type mentorshipRepository struct {
	db *sqlx.DB
}

var _ mentorship.Repository = (*mentorshipRepository)(nil) // interface compliance check

func NewMentorshipRepository(db *sqlx.DB) *mentorshipRepository {
	return &mentorshipRepository{db: db}
}

type requestRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	AlumniID  string    `db:"alumni_id"`
	Topic     string    `db:"topic"`
	Message   string    `db:"message"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r requestRow) toRequest() mentorship.Request {
	return mentorship.Request{
		ID:        r.ID,
		StudentID: r.StudentID,
		AlumniID:  r.AlumniID,
		Topic:     r.Topic,
		Message:   r.Message,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const requestCols = `id, student_id, alumni_id, topic, message, status, created_at, updated_at`

func (repo mentorshipRepository) CreateRequest(ctx context.Context, r mentorship.Request) (mentorship.Request, error) {
	r.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO mentorship_request (id, student_id, alumni_id, topic, message, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.StudentID, r.AlumniID, r.Topic, r.Message, r.Status, r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
	)
	if err != nil {
		return mentorship.Request{}, errors.Wrap(err, "inserting mentorship request")
	}
	return r, nil
}

func (repo mentorshipRepository) GetRequestByID(ctx context.Context, id string) (mentorship.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return mentorship.Request{}, mentorship.ErrNotFound
	}
	var row requestRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+requestCols+` FROM mentorship_request WHERE id = $1`, id); err != nil {
		return mentorship.Request{}, trapNoRowsErr(err, mentorship.ErrNotFound, "getting mentorship request")
	}
	return row.toRequest(), nil
}

var requestOrderCols = map[string]string{
	"status":     "status",
	"created_at": "created_at",
}

func (repo mentorshipRepository) QueryRequests(ctx context.Context, filter *mentorship.QueryFilter, ordering []core.DBOrdering) ([]mentorship.Request, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}

	if filter != nil {
		if filter.StudentID != "" {
			conds = append(conds, `student_id = `+arg(filter.StudentID))
		}
		if filter.AlumniID != "" {
			conds = append(conds, `alumni_id = `+arg(filter.AlumniID))
		}
		if filter.Status != "" {
			conds = append(conds, `status = `+arg(filter.Status))
		}
	}

	query := `SELECT ` + requestCols + ` FROM mentorship_request`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += orderClause(ordering, requestOrderCols, `created_at DESC`)

	var rows []requestRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying mentorship requests")
	}
	reqs := make([]mentorship.Request, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.toRequest())
	}
	return reqs, nil
}

func (repo mentorshipRepository) UpdateRequestStatus(ctx context.Context, id, status string) (mentorship.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return mentorship.Request{}, mentorship.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE mentorship_request SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return mentorship.Request{}, errors.Wrap(err, "updating mentorship request status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mentorship.Request{}, mentorship.ErrNotFound
	}
	return repo.GetRequestByID(ctx, id)
}

func (repo mentorshipRepository) DeleteRequestsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM mentorship_request WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting mentorship requests")
}
