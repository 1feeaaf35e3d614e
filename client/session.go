package client

import (
	"context"
	"sync"

	"github.com/alumniconnect/alumniconnect/core/user"
)

// State is the session store's snapshot. The student and alumni halves
// are mutually exclusive: a resolution always replaces the whole state,
// never merges into it.
type State struct {
	Loading         bool
	StudentLoggedIn bool
	Student         *user.User
	AlumniLoggedIn  bool
	Alumni          *user.User
}

func (s State) LoggedIn() bool { return s.StudentLoggedIn || s.AlumniLoggedIn }

// Store resolves and holds the current session identity. Every
// CheckAuth call gets a monotonic sequence number; a resolution only
// commits if no newer call has committed first, so a stale in-flight
// probe can never clobber fresher state.
type Store struct {
	client *Client

	mu          sync.Mutex
	state       State
	nextSeq     uint64
	appliedSeq  uint64
	subscribers []func(State)
}

func NewStore(client *Client) *Store {
	return &Store{
		client: client,
		state:  State{Loading: true},
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run on every committed state change. The
// initial state is not replayed.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// commit replaces the state if seq is still the newest resolution;
// subscribers are notified exactly once per committed call.
func (s *Store) commit(seq uint64, next State) {
	s.mu.Lock()
	if seq < s.appliedSeq {
		s.mu.Unlock()
		return
	}
	s.appliedSeq = seq
	s.state = next
	subs := make([]func(State), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// CheckAuth re-derives "who is logged in" from the backend. The student
// probe runs first; only if it rejects is the alumni probe attempted.
// Any failure, network errors included, resolves to logged out.
func (s *Store) CheckAuth(ctx context.Context) State {
	seq := s.begin()

	var next State
	if usr, err := s.client.StudentMe(ctx); err == nil {
		next = State{StudentLoggedIn: true, Student: &usr}
	} else if usr, err := s.client.AlumniMe(ctx); err == nil {
		next = State{AlumniLoggedIn: true, Alumni: &usr}
	} else {
		next = State{}
	}

	s.commit(seq, next)
	return s.Snapshot()
}

// LoginStudent authenticates against the student portal then re-runs
// CheckAuth so the store reflects the server's view, not the login
// response.
func (s *Store) LoginStudent(ctx context.Context, email, password string) (State, error) {
	if _, err := s.client.LoginStudent(ctx, email, password); err != nil {
		return s.Snapshot(), err
	}
	return s.CheckAuth(ctx), nil
}

func (s *Store) LoginAlumni(ctx context.Context, email, password string) (State, error) {
	if _, err := s.client.LoginAlumni(ctx, email, password); err != nil {
		return s.Snapshot(), err
	}
	return s.CheckAuth(ctx), nil
}

// Logout closes whichever session is active, then re-runs CheckAuth.
// The logout call failing does not keep the user logged in locally.
func (s *Store) Logout(ctx context.Context) State {
	state := s.Snapshot()
	switch {
	case state.StudentLoggedIn:
		_ = s.client.LogoutStudent(ctx)
	case state.AlumniLoggedIn:
		_ = s.client.LogoutAlumni(ctx)
	}
	return s.CheckAuth(ctx)
}
