package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumniconnect/alumniconnect/core"
)

func tokenTestService(timeout time.Duration) *service {
	return NewService(&core.Config{
		SecretKey: "poq5-wer$#1",
		Server:    core.ServerConfig{PasswordResetTimeout: timeout},
	}, nil, nil)
}

func TestMakeToken(t *testing.T) {
	svc := tokenTestService(3 * 24 * time.Hour)
	defer func() { NowFunc = time.Now }()

	usr := User{ID: "c7c6c1fb-dbc2-41fc-b30a-830a63d5c9ae", Name: "Hero", Email: "hero@test.cd"}
	require.NoError(t, usr.SetPassword("LokitaNa123"))

	token, err := svc.MakeToken(usr)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NoError(t, svc.verifyToken(usr, token))

	t.Run("single use", func(t *testing.T) {
		// a password change invalidates outstanding tokens
		changed := usr
		require.NoError(t, changed.SetPassword("Sentima456"))
		assert.Equal(t, errInvalidToken, svc.verifyToken(changed, token))

		// so does logging in
		loggedIn := usr
		loggedIn.LastLogin = time.Now().UTC()
		assert.Equal(t, errInvalidToken, svc.verifyToken(loggedIn, token))
	})

	t.Run("tampered", func(t *testing.T) {
		assert.Equal(t, errInvalidToken, svc.verifyToken(usr, ""))
		assert.Equal(t, errInvalidToken, svc.verifyToken(usr, "no-dash"))
		assert.Equal(t, errInvalidToken, svc.verifyToken(usr, token+"x"))

		other := usr
		other.ID = "e34ff6e2-4838-4b74-bbb0-2d6ffa5bd44a"
		assert.Equal(t, errInvalidToken, svc.verifyToken(other, token))
	})

	t.Run("expires", func(t *testing.T) {
		// still valid on the last allowed day
		NowFunc = func() time.Time { return time.Now().Add(3 * 24 * time.Hour) }
		assert.NoError(t, svc.verifyToken(usr, token))

		NowFunc = func() time.Time { return time.Now().Add(4 * 24 * time.Hour) }
		assert.Equal(t, errTokenExpired, svc.verifyToken(usr, token))
	})
}

func TestEncodeUID(t *testing.T) {
	usr := User{ID: "c7c6c1fb-dbc2-41fc-b30a-830a63d5c9ae"}
	uid := EncodeUID(usr)
	require.NotEmpty(t, uid)

	id, err := decodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, id)

	_, err = decodeUID("%%%")
	assert.Error(t, err)
}
