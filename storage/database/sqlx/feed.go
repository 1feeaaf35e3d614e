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
	"github.com/alumniconnect/alumniconnect/core/feed"
)

type feedRepository struct {
	db *sqlx.DB
}

var _ feed.Repository = (*feedRepository)(nil) // interface compliance check

func NewFeedRepository(db *sqlx.DB) *feedRepository {
	return &feedRepository{db: db}
}

type postRow struct {
	ID        string      `db:"id"`
	AuthorID  null.String `db:"author_id"`
	Body      string      `db:"body"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r postRow) toPost() feed.Post {
	return feed.Post{
		ID:        r.ID,
		AuthorID:  r.AuthorID.String,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const postCols = `id, author_id, body, created_at, updated_at`

func (repo feedRepository) CreatePost(ctx context.Context, p feed.Post) (feed.Post, error) {
	p.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO feed_post (id, author_id, body, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, null.NewString(p.AuthorID, p.AuthorID != ""), p.Body, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return feed.Post{}, errors.Wrap(err, "inserting post")
	}
	return p, nil
}

func (repo feedRepository) GetPostByID(ctx context.Context, id string) (feed.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return feed.Post{}, feed.ErrNotFound
	}
	var row postRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+postCols+` FROM feed_post WHERE id = $1`, id); err != nil {
		return feed.Post{}, trapNoRowsErr(err, feed.ErrNotFound, "getting post")
	}
	return row.toPost(), nil
}

var postOrderCols = map[string]string{
	"created_at": "created_at",
}

func (repo feedRepository) QueryPosts(ctx context.Context, filter *feed.QueryFilter, ordering []core.DBOrdering) ([]feed.Post, error) {
	var conds []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}

	if filter != nil {
		if filter.AuthorID != "" {
			conds = append(conds, `author_id = `+arg(filter.AuthorID))
		}
		if filter.Search != "" {
			conds = append(conds, `body ILIKE `+arg("%"+filter.Search+"%"))
		}
	}

	query := `SELECT ` + postCols + ` FROM feed_post`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += orderClause(ordering, postOrderCols, `created_at DESC`)

	var rows []postRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	posts := make([]feed.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toPost())
	}
	return posts, nil
}

func (repo feedRepository) DeletePostsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM feed_post WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting posts")
}
