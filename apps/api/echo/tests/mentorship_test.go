package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alumniconnect/alumniconnect/core/mentorship"
	emailsvc "github.com/alumniconnect/alumniconnect/services/email"
	testutil "github.com/alumniconnect/alumniconnect/tests"
)

func Test_mentorshipApi_lifecycle(t *testing.T) {
	db.Reset()
	emailsvc.ClearSentMessages()

	student := testutil.CreateStudent(t, usrRepo, "Hero", "hero@test.cd", "")
	mentor := testutil.CreateAlumni(t, usrRepo, "Awe", "awe@test.cd", "")
	otherAlumni := testutil.CreateAlumni(t, usrRepo, "Other", "other@test.cd", "")

	studentSess := openSession(t, student)
	mentorSess := openSession(t, mentor)
	otherSess := openSession(t, otherAlumni)

	// only students can file requests
	req, rec := newAuthRequest(http.MethodPost, "/api/mentorship", mentorSess, marchallObj(t, mentorship.NewRequest{
		AlumniID: mentor.ID, Topic: "Career", Message: "Hi",
	}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the mentor must be an alumni
	req, rec = newAuthRequest(http.MethodPost, "/api/mentorship", studentSess, marchallObj(t, mentorship.NewRequest{
		AlumniID: student.ID, Topic: "Career", Message: "Hi",
	}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var ferrs fieldErrs
	if err := json.Unmarshal(rec.Body.Bytes(), &ferrs); err != nil {
		t.Fatalf("unmarshalling errors: %v", err)
	}
	if assert.Len(t, ferrs.Errors, 1) {
		assert.Equal(t, "alumni_id", ferrs.Errors[0].Field)
	}

	// file a valid request; the mentor is notified by email
	req, rec = newAuthRequest(http.MethodPost, "/api/mentorship", studentSess, marchallObj(t, mentorship.NewRequest{
		AlumniID: mentor.ID, Topic: "Career advice", Message: "Could you mentor me?",
	}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var mreq mentorship.Request
	if err := json.Unmarshal(rec.Body.Bytes(), &mreq); err != nil {
		t.Fatalf("unmarshalling request: %v", err)
	}
	assert.Equal(t, mentorship.StatusPending, mreq.Status)
	assert.Equal(t, student.ID, mreq.StudentID)
	assert.Equal(t, mentor.ID, mreq.AlumniID)
	if assert.Len(t, emailsvc.SentMessages, 1) {
		assert.Equal(t, mentor.Email, emailsvc.SentMessages[0].To[0].Address)
	}

	// the student sees it under /mine
	req, rec = newAuthRequest(http.MethodGet, "/api/mentorship/mine", studentSess)
	app.ServeHTTP(rec, req)
	var mine []mentorship.Request
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatalf("unmarshalling requests: %v", err)
	}
	assert.Len(t, mine, 1)

	// an unrelated alumni has an empty inbox and cannot respond
	req, rec = newAuthRequest(http.MethodGet, "/api/mentorship/requests", otherSess)
	app.ServeHTTP(rec, req)
	assert.Equal(t, "[]", string(assertBodyTrimmed(rec.Body.Bytes())))

	req, rec = newAuthRequest(http.MethodPut, "/api/mentorship/"+mreq.ID+"/respond", otherSess,
		marchallObj(t, mentorship.Response{Status: mentorship.StatusAccepted}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the addressed alumni accepts
	req, rec = newAuthRequest(http.MethodPut, "/api/mentorship/"+mreq.ID+"/respond", mentorSess,
		marchallObj(t, mentorship.Response{Status: mentorship.StatusAccepted}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var responded mentorship.Request
	if err := json.Unmarshal(rec.Body.Bytes(), &responded); err != nil {
		t.Fatalf("unmarshalling request: %v", err)
	}
	assert.Equal(t, mentorship.StatusAccepted, responded.Status)

	// a request can only be responded to once
	req, rec = newAuthRequest(http.MethodPut, "/api/mentorship/"+mreq.ID+"/respond", mentorSess,
		marchallObj(t, mentorship.Response{Status: mentorship.StatusDeclined}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the student sees the final status
	req, rec = newAuthRequest(http.MethodGet, "/api/mentorship/mine", studentSess)
	app.ServeHTTP(rec, req)
	mine = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatalf("unmarshalling requests: %v", err)
	}
	if assert.Len(t, mine, 1) {
		assert.Equal(t, mentorship.StatusAccepted, mine[0].Status)
	}
}

func Test_mentorshipApi_guards(t *testing.T) {
	db.Reset()

	student := testutil.CreateStudent(t, usrRepo, "Hero", "hero@test.cd", "")
	studentSess := openSession(t, student)

	tests := []httpTest{
		{name: "create: auth required", method: http.MethodPost, path: "/api/mentorship",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{name: "mine: auth required", method: http.MethodGet, path: "/api/mentorship/mine",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{name: "inbox: alumni only", method: http.MethodGet, path: "/api/mentorship/requests", session: studentSess,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)},
		{name: "respond: alumni only", method: http.MethodPut, path: "/api/mentorship/abc/respond", session: studentSess,
			body:     marchallObj(t, mentorship.Response{Status: mentorship.StatusAccepted}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.session, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
