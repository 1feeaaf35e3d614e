package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alumniconnect/alumniconnect/core/job"
	testutil "github.com/alumniconnect/alumniconnect/tests"
)

func Test_jobApi_moderationFlow(t *testing.T) {
	db.Reset()

	student := testutil.CreateStudent(t, usrRepo, "Hero", "hero@test.cd", "")
	alumni := testutil.CreateAlumni(t, usrRepo, "Awe", "awe@test.cd", "")
	admin := testutil.CreateAdmin(t, usrRepo, "Boss", "boss@test.cd", "")

	studentSess := openSession(t, student)
	alumniSess := openSession(t, alumni)
	adminSess := openSession(t, admin)

	newJob := marchallObj(t, job.NewJob{
		Title: "Backend Engineer", Company: "ACME", Location: "Kinshasa",
		Kind: job.KindJob, Description: "Build things.",
	})

	// the moderation queue starts out empty; an empty list, not null
	req, rec := newAuthRequest(http.MethodGet, "/api/jobs/admin/pending", adminSess)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	assert.Equal(t, "[]", string(assertBodyTrimmed(rec.Body.Bytes())))

	// only alumni post jobs
	req, rec = newAuthRequest(http.MethodPost, "/api/jobs", studentSess, newJob)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/api/jobs", alumniSess, newJob)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var posted job.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &posted); err != nil {
		t.Fatalf("unmarshalling job: %v", err)
	}
	assert.Equal(t, job.StatusPending, posted.Status)
	assert.Equal(t, alumni.ID, posted.PostedBy)

	// a pending job is invisible on the public board
	req, rec = newRequest(http.MethodGet, "/api/jobs")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(assertBodyTrimmed(rec.Body.Bytes())))

	// but shows in the owner's list
	req, rec = newAuthRequest(http.MethodGet, "/api/jobs/mine", alumniSess)
	app.ServeHTTP(rec, req)
	var mine []job.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatalf("unmarshalling jobs: %v", err)
	}
	assert.Len(t, mine, 1)

	// and in the moderation queue
	req, rec = newAuthRequest(http.MethodGet, "/api/jobs/admin/pending", adminSess)
	app.ServeHTTP(rec, req)
	var pending []job.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &pending); err != nil {
		t.Fatalf("unmarshalling jobs: %v", err)
	}
	assert.Len(t, pending, 1)

	// approve it
	req, rec = newAuthRequest(http.MethodPut, "/api/jobs/admin/status", adminSess,
		marchallObj(t, job.StatusUpdate{JobID: posted.ID, Status: job.StatusApproved}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}

	// now public
	req, rec = newRequest(http.MethodGet, "/api/jobs")
	app.ServeHTTP(rec, req)
	var board []job.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &board); err != nil {
		t.Fatalf("unmarshalling jobs: %v", err)
	}
	assert.Len(t, board, 1)
	assert.Equal(t, job.StatusApproved, board[0].Status)
}

func Test_jobApi_adminGuard(t *testing.T) {
	db.Reset()

	student := testutil.CreateStudent(t, usrRepo, "Hero", "hero@test.cd", "")
	alumni := testutil.CreateAlumni(t, usrRepo, "Awe", "awe@test.cd", "")

	studentSess := openSession(t, student)
	alumniSess := openSession(t, alumni)

	unauthed := marchallObj(t, errNotAuthenticated)
	denied := marchallObj(t, errPermissionDenied)

	tests := []httpTest{
		{name: "pending: auth required", method: http.MethodGet, path: "/api/jobs/admin/pending", wantCode: http.StatusUnauthorized, wantData: unauthed},
		{name: "pending: admin required (student)", method: http.MethodGet, path: "/api/jobs/admin/pending", session: studentSess, wantCode: http.StatusForbidden, wantData: denied},
		{name: "pending: admin required (alumni)", method: http.MethodGet, path: "/api/jobs/admin/pending", session: alumniSess, wantCode: http.StatusForbidden, wantData: denied},
		{name: "status: auth required", method: http.MethodPut, path: "/api/jobs/admin/status", wantCode: http.StatusUnauthorized, wantData: unauthed},
		{name: "status: admin required", method: http.MethodPut, path: "/api/jobs/admin/status", session: alumniSess, wantCode: http.StatusForbidden, wantData: denied},
		{
			name: "status: unknown job", method: http.MethodPut, path: "/api/jobs/admin/status",
			session: openSession(t, testutil.CreateAdmin(t, usrRepo, "Boss", "boss@test.cd", "")),
			body:    marchallObj(t, job.StatusUpdate{JobID: "b5bd4a66-f97a-4f22-a24d-68267d04b1e8", Status: job.StatusApproved}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.session, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func assertBodyTrimmed(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
