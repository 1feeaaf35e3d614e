package sqlxrepos

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/event"
)

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

type eventRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Location    string         `db:"location"`
	StartsAt    time.Time      `db:"starts_at"`
	CreatorID   null.String    `db:"creator_id"`
	Attendees   pq.StringArray `db:"attendees"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r eventRow) toEvent() event.Event {
	return event.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartsAt:    r.StartsAt,
		CreatorID:   r.CreatorID.String,
		Attendees:   r.Attendees,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const eventCols = `id, title, description, location, starts_at, creator_id, attendees, status, created_at, updated_at`

func (repo eventRepository) CreateEvent(ctx context.Context, e event.Event) (event.Event, error) {
	e.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO event (id, title, description, location, starts_at, creator_id, attendees, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.Title, e.Description, e.Location, e.StartsAt.UTC(),
		null.NewString(e.CreatorID, e.CreatorID != ""), pq.Array(e.Attendees), e.Status,
		e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return e, nil
}

func (repo eventRepository) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return event.Event{}, event.ErrNotFound
	}
	var row eventRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+eventCols+` FROM event WHERE id = $1`, id); err != nil {
		return event.Event{}, trapNoRowsErr(err, event.ErrNotFound, "getting event")
	}
	return row.toEvent(), nil
}

var eventOrderCols = map[string]string{
	"title":      "title",
	"starts_at":  "starts_at",
	"status":     "status",
	"created_at": "created_at",
}

func (repo eventRepository) QueryEvents(ctx context.Context, filter *event.QueryFilter, ordering []core.DBOrdering) ([]event.Event, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, `(title ILIKE `+p+` OR description ILIKE `+p+` OR location ILIKE `+p+`)`)
		}
		if filter.Status != "" {
			conds = append(conds, `status = `+arg(filter.Status))
		}
		if filter.CreatorID != "" {
			conds = append(conds, `creator_id = `+arg(filter.CreatorID))
		}
		if !filter.From.IsZero() {
			conds = append(conds, `starts_at >= `+arg(filter.From.UTC()))
		}
		if !filter.To.IsZero() {
			conds = append(conds, `starts_at <= `+arg(filter.To.UTC()))
		}
	}

	query := `SELECT ` + eventCols + ` FROM event`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += orderClause(ordering, eventOrderCols, `starts_at ASC`)

	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toEvent())
	}
	return events, nil
}

func (repo eventRepository) UpdateEventStatus(ctx context.Context, id, status string) (event.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return event.Event{}, event.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE event SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return repo.GetEventByID(ctx, id)
}

func (repo eventRepository) UpdateEventAttendees(ctx context.Context, id string, attendees []string) (event.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return event.Event{}, event.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE event SET attendees = $1, updated_at = $2 WHERE id = $3`, pq.Array(attendees), time.Now().UTC(), id)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event attendees")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return repo.GetEventByID(ctx, id)
}

func (repo eventRepository) DeleteEventsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM event WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting events")
}
