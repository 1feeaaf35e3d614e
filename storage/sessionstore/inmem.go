package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/alumniconnect/alumniconnect/core/session"
)

type inmemStore struct {
	mutex    sync.RWMutex
	sessions map[string]session.Session
}

var _ session.Store = (*inmemStore)(nil)

func NewInmemStore() *inmemStore {
	return &inmemStore{sessions: make(map[string]session.Session)}
}

func (store *inmemStore) Save(_ context.Context, sess session.Session) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.sessions[sess.Token] = sess
	return nil
}

func (store *inmemStore) Get(_ context.Context, token string) (session.Session, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	sess, ok := store.sessions[token]
	if !ok || sess.Expired(time.Now().UTC()) {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (store *inmemStore) Delete(_ context.Context, token string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	delete(store.sessions, token)
	return nil
}
