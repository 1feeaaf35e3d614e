package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/alumniconnect/alumniconnect/apps/api/echo"
	"github.com/alumniconnect/alumniconnect/core/user"
	testutil "github.com/alumniconnect/alumniconnect/tests"
)

func Test_userApi_register(t *testing.T) {
	db.Reset()

	body := func(name, email, pwd, pwd2 string, gradYear int, degree string) []byte {
		return marchallObj(t, map[string]interface{}{
			"name": name, "email": email, "password": pwd, "password_confirm": pwd2,
			"grad_year": gradYear, "degree": degree,
		})
	}

	tests := []httpTest{
		{
			name: "student registered", method: http.MethodPost, path: "/api/student/register",
			body: body("Awe Riri", "awe@test.cd", "s3cr3tword", "s3cr3tword", 2027, "CS"), wantCode: http.StatusCreated,
		},
		{
			name: "alumni registered", method: http.MethodPost, path: "/api/alumni/register",
			body: body("King Kaka", "king@test.cd", "s3cr3tword", "s3cr3tword", 2015, "EE"), wantCode: http.StatusCreated,
		},
		{
			name: "missing fields -> field errors", method: http.MethodPost, path: "/api/student/register",
			body: body("", "not-an-email", "", "", 0, ""), wantCode: http.StatusBadRequest,
			extra: []string{"name", "email", "password", "grad_year", "degree"},
		},
		{
			name: "password mismatch", method: http.MethodPost, path: "/api/student/register",
			body: body("Awe Riri", "awe2@test.cd", "s3cr3tword", "nope", 2027, "CS"), wantCode: http.StatusBadRequest,
			extra: []string{"password_confirm"},
		},
		{
			name: "duplicate email", method: http.MethodPost, path: "/api/student/register",
			body: body("Awe Clone", "awe@test.cd", "s3cr3tword", "s3cr3tword", 2027, "CS"), wantCode: http.StatusBadRequest,
			extra: []string{"email"},
		},
		{
			name: "grad year out of range", method: http.MethodPost, path: "/api/alumni/register",
			body: body("Old Timer", "old@test.cd", "s3cr3tword", "s3cr3tword", 1800, "CS"), wantCode: http.StatusBadRequest,
			extra: []string{"grad_year"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if wantParams, ok := tt.extra.([]string); ok {
				var res fieldErrs
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("unmarshalling field errors: %v", err)
				}
				gotParams := make([]string, 0, len(res.Errors))
				for _, fe := range res.Errors {
					gotParams = append(gotParams, fe.Field)
				}
				for _, param := range wantParams {
					assert.Contains(t, gotParams, param)
				}
			}
		})
	}

	// a registered student carries the student role only
	usr, err := usrRepo.GetUser(context.Background(), user.GetFilter{Email: "awe@test.cd"})
	if err != nil {
		t.Fatalf("GetUser(): %v", err)
	}
	assert.True(t, usr.IsStudent())
	assert.False(t, usr.IsAlumni())
}

func Test_userApi_login(t *testing.T) {
	db.Reset()

	student := testutil.CreateStudent(t, usrRepo, "Hero", "hero@test.cd", "s3cr3tword")
	alumni := testutil.CreateAlumni(t, usrRepo, "Awe", "awe@test.cd", "s3cr3tword")
	testutil.CreateAdmin(t, usrRepo, "Boss", "boss@test.cd", "s3cr3tword")
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.cd", "s3cr3tword", []string{user.RoleStudent}, false)
	_ = naughty

	body := func(email, pwd string) []byte {
		return marchallObj(t, map[string]string{"email": email, "password": pwd})
	}
	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{name: "student login ok", path: "/api/student/login", body: body(student.Email, "s3cr3tword"), wantCode: http.StatusOK},
		{name: "alumni login ok", path: "/api/alumni/login", body: body(alumni.Email, "s3cr3tword"), wantCode: http.StatusOK},
		{name: "bad password", path: "/api/student/login", body: body(student.Email, "nope"), wantCode: http.StatusBadRequest, wantData: authFailed},
		{name: "unknown email", path: "/api/student/login", body: body("ghost@test.cd", "s3cr3tword"), wantCode: http.StatusBadRequest, wantData: authFailed},
		// portals reject each other's accounts with the same error as bad credentials
		{name: "alumni on student portal", path: "/api/student/login", body: body(alumni.Email, "s3cr3tword"), wantCode: http.StatusBadRequest, wantData: authFailed},
		{name: "student on alumni portal", path: "/api/alumni/login", body: body(student.Email, "s3cr3tword"), wantCode: http.StatusBadRequest, wantData: authFailed},
		{name: "student on admin portal", path: "/api/admin/login", body: body(student.Email, "s3cr3tword"), wantCode: http.StatusBadRequest, wantData: authFailed},
		{
			name: "deactivated account", path: "/api/student/login", body: body("ndog@test.cd", "s3cr3tword"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				cookie := findCookie(rec, conf.Server.SessionCookieName)
				if cookie == nil || cookie.Value == "" {
					t.Error("expected a session cookie on successful login")
				}
			}
		})
	}
}

func Test_userApi_adminLogin(t *testing.T) {
	db.Reset()

	testutil.CreateAdmin(t, usrRepo, "Boss", "boss@test.cd", "s3cr3tword")

	req, rec := newRequest(http.MethodPost, "/api/admin/login",
		marchallObj(t, map[string]string{"email": "boss@test.cd", "password": "s3cr3tword"}))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}

	var res echoapi.AdminLoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	assert.NotEmpty(t, res.Token.Value)
	assert.Greater(t, res.Token.Expiry, time.Now().UnixMilli())

	claims, err := echoapi.ParseAdminToken(conf, res.Token.Value)
	if err != nil {
		t.Fatalf("ParseAdminToken(): %v", err)
	}
	assert.Equal(t, res.User.ID, claims.Subject)
}

func Test_userApi_me(t *testing.T) {
	db.Reset()

	student := testutil.CreateStudent(t, usrRepo, "Hero", "hero@test.cd", "")
	alumni := testutil.CreateAlumni(t, usrRepo, "Awe", "awe@test.cd", "")
	admin := testutil.CreateAdmin(t, usrRepo, "Boss", "boss@test.cd", "")

	studentSess := openSession(t, student)
	alumniSess := openSession(t, alumni)
	adminSess := openSession(t, admin)

	unauthed := marchallObj(t, errNotAuthenticated)
	denied := marchallObj(t, errPermissionDenied)

	tests := []httpTest{
		{name: "student me", path: "/api/student/me", session: studentSess, wantCode: http.StatusOK, wantData: marchallObj(t, student)},
		{name: "alumni me", path: "/api/alumni/me", session: alumniSess, wantCode: http.StatusOK, wantData: marchallObj(t, alumni)},
		{name: "admin me", path: "/api/admin/me", session: adminSess, wantCode: http.StatusOK, wantData: marchallObj(t, admin)},
		// the student probe rejects an alumni session and vice versa, so
		// a client probing student-then-alumni resolves exactly one role
		{name: "student probe vs alumni session", path: "/api/student/me", session: alumniSess, wantCode: http.StatusForbidden, wantData: denied},
		{name: "alumni probe vs student session", path: "/api/alumni/me", session: studentSess, wantCode: http.StatusForbidden, wantData: denied},
		{name: "admin probe vs student session", path: "/api/admin/me", session: studentSess, wantCode: http.StatusForbidden, wantData: denied},
		// fail closed
		{name: "no cookie", path: "/api/student/me", wantCode: http.StatusUnauthorized, wantData: unauthed},
		{name: "bogus cookie", path: "/api/student/me", session: "not-a-session", wantCode: http.StatusUnauthorized, wantData: unauthed},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.session)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			// a rejected session purges the cookie
			if tt.wantCode == http.StatusUnauthorized && tt.session != "" {
				cookie := findCookie(rec, conf.Server.SessionCookieName)
				if cookie == nil || cookie.MaxAge != -1 {
					t.Error("expected the session cookie to be purged")
				}
			}
		})
	}
}

func Test_userApi_logout(t *testing.T) {
	db.Reset()

	student := testutil.CreateStudent(t, usrRepo, "Hero", "hero@test.cd", "")
	sessToken := openSession(t, student)

	// logout closes the session
	req, rec := newAuthRequest(http.MethodPost, "/api/student/logout", sessToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}

	// the token no longer resolves
	req, rec = newAuthRequest(http.MethodGet, "/api/student/me", sessToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusUnauthorized)
	}

	// logging out an already-dead session is still unauthorized, not an error
	req, rec = newAuthRequest(http.MethodPost, "/api/student/logout", sessToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusUnauthorized)
	}
}

func findCookie(rec interface{ Result() *http.Response }, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
