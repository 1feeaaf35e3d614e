package client

import (
	"encoding/json"
	"time"
)

// Verdict is a route guard's decision.
type Verdict int

const (
	// VerdictPending means identity is still resolving; render nothing.
	VerdictPending Verdict = iota
	// VerdictAllow lets the route render.
	VerdictAllow
	// VerdictRedirect sends the visitor to Verdict's RedirectTo.
	VerdictRedirect
)

type GuardResult struct {
	Verdict    Verdict
	RedirectTo string
}

const (
	loginPath      = "/login"
	adminLoginPath = "/admin/login"
)

// SessionGuard guards the student/alumni dashboards off the session
// store. While the store is loading nothing renders; an unauthenticated
// state redirects to the login page. There is no authenticated-but-
// denied branch: identity failures always fail closed to logged out.
func SessionGuard(state State, requireStudent, requireAlumni bool) GuardResult {
	if state.Loading {
		return GuardResult{Verdict: VerdictPending}
	}
	if requireStudent && state.StudentLoggedIn {
		return GuardResult{Verdict: VerdictAllow}
	}
	if requireAlumni && state.AlumniLoggedIn {
		return GuardResult{Verdict: VerdictAllow}
	}
	return GuardResult{Verdict: VerdictRedirect, RedirectTo: loginPath}
}

// AdminToken is the persisted `{value, expiry}` pair; Expiry is in
// epoch milliseconds.
type AdminToken struct {
	Value  string `json:"value"`
	Expiry int64  `json:"expiry"`
}

func (t AdminToken) Expired(now time.Time) bool {
	return t.Expiry <= now.UnixMilli()
}

// AdminGuard guards the admin dashboard off durable storage. The token
// must be present, well-formed and unexpired; any other outcome,
// inspection errors included, purges both storage keys and redirects to
// the admin login. The purge is idempotent: running the guard twice on
// the same bad state is safe.
func AdminGuard(storage *Storage, now time.Time) GuardResult {
	denied := GuardResult{Verdict: VerdictRedirect, RedirectTo: adminLoginPath}

	var raw json.RawMessage
	found, err := storage.Get(StorageKeyAdminToken, &raw)
	if err != nil || !found {
		purgeAdminState(storage)
		return denied
	}

	var token AdminToken
	if err := json.Unmarshal(raw, &token); err != nil || token.Value == "" {
		purgeAdminState(storage)
		return denied
	}
	if token.Expired(now) {
		purgeAdminState(storage)
		return denied
	}
	return GuardResult{Verdict: VerdictAllow}
}

// SaveAdminLogin persists the admin token and flag after a successful
// admin login. The flag is the string "true", the format the dashboard
// storage has always carried.
func SaveAdminLogin(storage *Storage, token AdminToken) error {
	if err := storage.Set(StorageKeyAdminToken, token); err != nil {
		return err
	}
	return storage.Set(StorageKeyAdminLoggedIn, "true")
}

func purgeAdminState(storage *Storage) {
	_ = storage.Delete(StorageKeyAdminToken, StorageKeyAdminLoggedIn)
}
