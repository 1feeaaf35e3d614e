package feed

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alumniconnect/alumniconnect/core"
)

// Post is one community feed entry.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewPost contains information needed to publish a Post.
type NewPost struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func (np *NewPost) Validate(validate *validator.Validate) error {
	np.Body = core.CleanString(np.Body)
	return validate.Struct(np)
}

type QueryFilter struct {
	AuthorID string `query:"author"`
	Search   string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.AuthorID == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
