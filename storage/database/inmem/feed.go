package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/feed"
)

type feedRepository struct {
	db *DB
}

var _ feed.Repository = (*feedRepository)(nil)

func NewFeedRepository(db *DB) *feedRepository {
	return &feedRepository{db: db}
}

func (repo *feedRepository) query() []feed.Post {
	posts := make([]feed.Post, 0, len(repo.db.posts))
	for _, p := range repo.db.posts {
		posts = append(posts, *p)
	}
	return posts
}

func (repo *feedRepository) CreatePost(_ context.Context, p feed.Post) (feed.Post, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = uuid.New().String()
	repo.db.posts[p.ID] = &p
	return p, nil
}

func (repo *feedRepository) GetPostByID(_ context.Context, id string) (feed.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.posts[id]; ok {
		return *p, nil
	}
	return feed.Post{}, feed.ErrNotFound
}

func (repo *feedRepository) QueryPosts(_ context.Context, filter *feed.QueryFilter, ordering []core.DBOrdering) ([]feed.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	posts := repo.query()
	if filter != nil && !filter.IsEmpty() {
		posts = core.Filter(posts, func(p feed.Post) bool {
			if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
				return false
			}
			if filter.Search != "" && !containsFold(p.Body, filter.Search) {
				return false
			}
			return true
		})
	}

	sortBy(posts, ordering, map[string]func(a, b feed.Post) bool{
		"created_at": func(a, b feed.Post) bool { return a.CreatedAt.Before(b.CreatedAt) },
	}, func(a, b feed.Post) bool { return a.CreatedAt.After(b.CreatedAt) })
	return posts, nil
}

func (repo *feedRepository) DeletePostsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.posts, id)
	}
	return nil
}
