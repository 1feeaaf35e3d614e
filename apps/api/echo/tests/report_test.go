package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alumniconnect/alumniconnect/core/report"
	testutil "github.com/alumniconnect/alumniconnect/tests"
)

func Test_reportApi_moderationQueue(t *testing.T) {
	db.Reset()

	reporter := testutil.CreateStudent(t, usrRepo, "Hero", "hero@test.cd", "")
	admin := testutil.CreateAdmin(t, usrRepo, "Boss", "boss@test.cd", "")
	reporterSess := openSession(t, reporter)
	adminSess := openSession(t, admin)

	// filing requires a session
	req, rec := newRequest(http.MethodPost, "/api/reports", marchallObj(t, report.NewReport{
		ContentType: report.ContentPost, ContentID: "abc", Reason: "spam",
	}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// unknown content types are rejected
	req, rec = newAuthRequest(http.MethodPost, "/api/reports", reporterSess, marchallObj(t, report.NewReport{
		ContentType: "comment", ContentID: "abc", Reason: "spam",
	}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// any logged-in member can flag content
	req, rec = newAuthRequest(http.MethodPost, "/api/reports", reporterSess, marchallObj(t, report.NewReport{
		ContentType: report.ContentPost, ContentID: "abc", Reason: "spam",
	}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var rpt report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rpt); err != nil {
		t.Fatalf("unmarshalling report: %v", err)
	}
	assert.Equal(t, report.StatusOpen, rpt.Status)
	assert.Equal(t, reporter.ID, rpt.ReporterID)

	// the admin queue lists open reports only
	req, rec = newAuthRequest(http.MethodGet, "/api/reports/admin", adminSess)
	app.ServeHTTP(rec, req)
	var queue []report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &queue); err != nil {
		t.Fatalf("unmarshalling reports: %v", err)
	}
	if assert.Len(t, queue, 1) {
		assert.Equal(t, rpt.ID, queue[0].ID)
	}

	// resolving removes it from the queue
	req, rec = newAuthRequest(http.MethodPut, "/api/reports/admin/status", adminSess,
		marchallObj(t, report.StatusUpdate{ReportID: rpt.ID, Status: report.StatusResolved}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resolved report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &resolved); err != nil {
		t.Fatalf("unmarshalling report: %v", err)
	}
	assert.Equal(t, report.StatusResolved, resolved.Status)
	assert.False(t, resolved.UpdatedAt.Before(rpt.UpdatedAt))

	req, rec = newAuthRequest(http.MethodGet, "/api/reports/admin", adminSess)
	app.ServeHTTP(rec, req)
	assert.Equal(t, "[]", string(assertBodyTrimmed(rec.Body.Bytes())))
}

func Test_reportApi_adminGuard(t *testing.T) {
	db.Reset()

	member := testutil.CreateAlumni(t, usrRepo, "Awe", "awe@test.cd", "")
	admin := testutil.CreateAdmin(t, usrRepo, "Boss", "boss@test.cd", "")
	memberSess := openSession(t, member)
	adminSess := openSession(t, admin)

	tests := []httpTest{
		{name: "queue: auth required", method: http.MethodGet, path: "/api/reports/admin",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{name: "queue: admin only", method: http.MethodGet, path: "/api/reports/admin", session: memberSess,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)},
		{name: "status: admin only", method: http.MethodPut, path: "/api/reports/admin/status", session: memberSess,
			body:     marchallObj(t, report.StatusUpdate{ReportID: "abc", Status: report.StatusDismissed}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)},
		{name: "status: unknown report", method: http.MethodPut, path: "/api/reports/admin/status", session: adminSess,
			body:     marchallObj(t, report.StatusUpdate{ReportID: "nope", Status: report.StatusDismissed}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.session, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
