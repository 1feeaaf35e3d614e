package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumniconnect/alumniconnect/core/user"
)

func TestSessionGuard(t *testing.T) {
	student := State{StudentLoggedIn: true, Student: &user.User{ID: "s1"}}
	alumni := State{AlumniLoggedIn: true, Alumni: &user.User{ID: "a1"}}

	tests := []struct {
		name                          string
		state                         State
		requireStudent, requireAlumni bool
		want                          GuardResult
	}{
		{"loading renders nothing", State{Loading: true}, true, false,
			GuardResult{Verdict: VerdictPending}},
		{"student allowed on student route", student, true, false,
			GuardResult{Verdict: VerdictAllow}},
		{"alumni allowed on alumni route", alumni, false, true,
			GuardResult{Verdict: VerdictAllow}},
		{"student redirected off alumni route", student, false, true,
			GuardResult{Verdict: VerdictRedirect, RedirectTo: loginPath}},
		{"alumni redirected off student route", alumni, true, false,
			GuardResult{Verdict: VerdictRedirect, RedirectTo: loginPath}},
		{"logged out redirected", State{}, true, true,
			GuardResult{Verdict: VerdictRedirect, RedirectTo: loginPath}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionGuard(tt.state, tt.requireStudent, tt.requireAlumni))
		})
	}
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(filepath.Join(t.TempDir(), "storage.json"))
}

func assertAdminStatePurged(t *testing.T, st *Storage) {
	t.Helper()
	var raw interface{}
	found, err := st.Get(StorageKeyAdminToken, &raw)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = st.Get(StorageKeyAdminLoggedIn, &raw)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdminGuard(t *testing.T) {
	now := time.Now()
	denied := GuardResult{Verdict: VerdictRedirect, RedirectTo: adminLoginPath}

	t.Run("valid token allows", func(t *testing.T) {
		st := newTestStorage(t)
		token := AdminToken{Value: "tok", Expiry: now.Add(time.Hour).UnixMilli()}
		require.NoError(t, SaveAdminLogin(st, token))

		assert.Equal(t, GuardResult{Verdict: VerdictAllow}, AdminGuard(st, now))

		// an allowed check leaves the stored state alone
		var got AdminToken
		found, err := st.Get(StorageKeyAdminToken, &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, token, got)

		// the companion flag is persisted as the string "true"
		var flag string
		found, err = st.Get(StorageKeyAdminLoggedIn, &flag)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "true", flag)
	})

	t.Run("absent token denies", func(t *testing.T) {
		st := newTestStorage(t)
		assert.Equal(t, denied, AdminGuard(st, now))
		assertAdminStatePurged(t, st)
	})

	t.Run("expired token denies and purges", func(t *testing.T) {
		st := newTestStorage(t)
		require.NoError(t, SaveAdminLogin(st, AdminToken{Value: "tok", Expiry: now.Add(-time.Minute).UnixMilli()}))

		assert.Equal(t, denied, AdminGuard(st, now))
		assertAdminStatePurged(t, st)
	})

	t.Run("expiry equal to now denies", func(t *testing.T) {
		st := newTestStorage(t)
		require.NoError(t, SaveAdminLogin(st, AdminToken{Value: "tok", Expiry: now.UnixMilli()}))
		assert.Equal(t, denied, AdminGuard(st, now))
	})

	t.Run("malformed token denies and purges", func(t *testing.T) {
		st := newTestStorage(t)
		require.NoError(t, st.Set(StorageKeyAdminToken, "not-an-object"))
		require.NoError(t, st.Set(StorageKeyAdminLoggedIn, true))

		assert.Equal(t, denied, AdminGuard(st, now))
		assertAdminStatePurged(t, st)
	})

	t.Run("empty token value denies and purges", func(t *testing.T) {
		st := newTestStorage(t)
		require.NoError(t, SaveAdminLogin(st, AdminToken{Value: "", Expiry: now.Add(time.Hour).UnixMilli()}))

		assert.Equal(t, denied, AdminGuard(st, now))
		assertAdminStatePurged(t, st)
	})

	t.Run("purge is idempotent", func(t *testing.T) {
		st := newTestStorage(t)
		require.NoError(t, SaveAdminLogin(st, AdminToken{Value: "tok", Expiry: now.Add(-time.Minute).UnixMilli()}))

		assert.Equal(t, denied, AdminGuard(st, now))
		assert.Equal(t, denied, AdminGuard(st, now))
		assertAdminStatePurged(t, st)
	})
}

func TestStorage_roundTrip(t *testing.T) {
	st := newTestStorage(t)

	// missing key
	var s string
	found, err := st.Get("nope", &s)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, st.Set("greeting", "hello"))
	found, err = st.Get("greeting", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", s)

	// deleting absent keys alongside present ones is a no-op
	require.NoError(t, st.Delete("greeting", "nope"))
	found, err = st.Get("greeting", &s)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStorage_corruptFileBehavesAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0o600))
	st := NewStorage(path)

	var s string
	found, err := st.Get("key", &s)
	require.NoError(t, err)
	assert.False(t, found)

	// writes replace the corrupt file
	require.NoError(t, st.Set("key", "value"))
	found, err = st.Get("key", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", s)
}
