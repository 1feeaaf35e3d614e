// Package sessionstore provides session.Store backends. Redis backs
// production; the in-memory store backs tests.
package sessionstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/session"
)

const keyPrefix = "session:"

type redisStore struct {
	client *redis.Client
}

var _ session.Store = (*redisStore)(nil)

func NewRedisStore(conf *core.Config) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &redisStore{client: client}, nil
}

func (store *redisStore) Close() error {
	return store.client.Close()
}

// Save writes the session with a TTL matching its expiry so stale keys
// drop out of redis without a reaper.
func (store *redisStore) Save(ctx context.Context, sess session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "marshalling session")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return session.ErrExpired
	}
	if err := store.client.Set(ctx, keyPrefix+sess.Token, data, ttl).Err(); err != nil {
		return errors.Wrap(err, "saving session")
	}
	return nil
}

func (store *redisStore) Get(ctx context.Context, token string) (session.Session, error) {
	data, err := store.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "unmarshalling session")
	}
	return sess, nil
}

func (store *redisStore) Delete(ctx context.Context, token string) error {
	if err := store.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
