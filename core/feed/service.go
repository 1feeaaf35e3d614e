package feed

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
)

var ErrNotFound = errors.New("post not found")

type (
	Repository interface {
		CreatePost(ctx context.Context, p Post) (Post, error)
		GetPostByID(ctx context.Context, id string) (Post, error)
		QueryPosts(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Post, error)
		DeletePostsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Publish(ctx context.Context, np NewPost, authorID string) (Post, error) {
	now := time.Now().UTC()
	return svc.repo.CreatePost(ctx, Post{
		AuthorID:  authorID,
		Body:      np.Body,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Post, error) {
	return svc.repo.GetPostByID(ctx, id)
}

// Query lists posts, newest first unless another ordering is given.
func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Post, error) {
	if ordering == nil {
		ordering = []core.DBOrdering{{Field: "created_at", Ascending: false}}
	}
	return svc.repo.QueryPosts(ctx, filter, ordering)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeletePostsByID(ctx, ids...)
}
