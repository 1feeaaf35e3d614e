// Package session holds the server side of the portal's authentication
// contract: opaque cookie tokens mapped to short user records in a
// pluggable store. Identity probes re-derive "who is logged in" from
// this store on every request; nothing identity-related is trusted
// from the client beyond the token itself.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/user"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session is a single authenticated browsing session.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"` // UTC
	ExpiresAt time.Time `json:"expires_at"` // UTC
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type (
	// Store persists sessions; implementations must treat an expired
	// session identically to a missing one.
	Store interface {
		Save(ctx context.Context, sess Session) error
		Get(ctx context.Context, token string) (Session, error)
		Delete(ctx context.Context, token string) error
	}

	Service struct {
		conf    *core.Config
		store   Store
		userSvc user.ServiceInterface
	}
)

func NewService(conf *core.Config, store Store, userSvc user.ServiceInterface) *Service {
	return &Service{conf: conf, store: store, userSvc: userSvc}
}

// Open creates a fresh session for the given user.
func (svc *Service) Open(ctx context.Context, usr user.User) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		Token:     uuid.New().String(),
		UserID:    usr.ID,
		Roles:     usr.Roles,
		CreatedAt: now,
		ExpiresAt: now.Add(svc.conf.Server.SessionDuration),
	}
	if err := svc.store.Save(ctx, sess); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return sess, nil
}

// Resolve maps a cookie token back to its user. Unknown, expired or
// otherwise broken sessions all resolve to ErrNotFound so callers fail
// closed; an expired session is purged on sight.
func (svc *Service) Resolve(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, ErrNotFound
	}

	sess, err := svc.store.Get(ctx, token)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return user.User{}, ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting session")
	}
	if sess.Expired(time.Now().UTC()) {
		_ = svc.store.Delete(ctx, token)
		return user.User{}, ErrNotFound
	}

	usr, err := svc.userSvc.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			_ = svc.store.Delete(ctx, token)
			return user.User{}, ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding session user")
	}
	if usr.IsActive != nil && !*usr.IsActive {
		_ = svc.store.Delete(ctx, token)
		return user.User{}, ErrNotFound
	}
	return usr, nil
}

// Close terminates the session; closing an unknown session is a no-op.
func (svc *Service) Close(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := svc.store.Delete(ctx, token); err != nil && errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
