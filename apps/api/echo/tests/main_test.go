package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/alumniconnect/alumniconnect/apps/api/echo"
	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/event"
	"github.com/alumniconnect/alumniconnect/core/feed"
	"github.com/alumniconnect/alumniconnect/core/job"
	"github.com/alumniconnect/alumniconnect/core/mentorship"
	"github.com/alumniconnect/alumniconnect/core/report"
	"github.com/alumniconnect/alumniconnect/core/session"
	"github.com/alumniconnect/alumniconnect/core/user"
	appfs "github.com/alumniconnect/alumniconnect/fs"
	emailsvc "github.com/alumniconnect/alumniconnect/services/email"
	logsvc "github.com/alumniconnect/alumniconnect/services/logger"
	inmemdb "github.com/alumniconnect/alumniconnect/storage/database/inmem"
	"github.com/alumniconnect/alumniconnect/storage/sessionstore"
)

var (
	conf    *core.Config
	app     echoapi.Server
	db      *inmemdb.DB
	usrRepo user.Repository
	sessSvc *session.Service

	errNotAuthenticated = httpErr{Error: "not authenticated"}
	errPermissionDenied = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		TestMode:         true,
		AppName:          "AlumniConnect",
		SecretKey:        "secret",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: "noreply@test.cd",
		ContactEmail:     "contact@test.cd",
		Server: core.ServerConfig{
			SessionCookieName:    "ac_session",
			SessionDuration:      time.Hour,
			AdminTokenDuration:   time.Hour,
			PasswordResetTimeout: time.Hour,
		},
	}

	db = inmemdb.NewDB()
	usrRepo = inmemdb.NewUserRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	if err := core.InitEmailTemplates(appfs.FS, "templates/email"); err != nil {
		log.Fatalf("parsing email templates: %v", err)
	}

	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	sessSvc = session.NewService(conf, sessionstore.NewInmemStore(), usrSvc)
	jobSvc := job.NewService(inmemdb.NewJobRepository(db))
	eventSvc := event.NewService(inmemdb.NewEventRepository(db))
	mentorshipSvc := mentorship.NewService(inmemdb.NewMentorshipRepository(db), usrSvc, mailSvc)
	feedSvc := feed.NewService(inmemdb.NewFeedRepository(db))
	reportSvc := report.NewService(inmemdb.NewReportRepository(db))

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	app = echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		DisableReqLogs: true,
		Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
		Validate:       validate,
		Translator:     translator,
		MailSvc:        mailSvc,
		UserSvc:        usrSvc,
		SessionSvc:     sessSvc,
		JobSvc:         jobSvc,
		EventSvc:       eventSvc,
		MentorshipSvc:  mentorshipSvc,
		FeedSvc:        feedSvc,
		ReportSvc:      reportSvc,
	})

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type fieldErrs struct {
	Errors []core.FieldError `json:"errors"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	session  string
	wantCode int
	wantData []byte
	extra    interface{}
}

// openSession logs usr in server-side and returns the cookie token.
func openSession(t *testing.T, usr user.User) string {
	t.Helper()
	sess, err := sessSvc.Open(context.Background(), usr)
	if err != nil {
		t.Fatalf("openSession(): %v", err)
	}
	return sess.Token
}

func newAuthRequest(method, path, sessToken string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if sessToken != "" {
		req.AddCookie(&http.Cookie{Name: conf.Server.SessionCookieName, Value: sessToken})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if l1, ok := j1.([]interface{}); ok {
		if l2, ok := j2.([]interface{}); ok {
			return assert.ElementsMatch(t, l1, l2), nil
		}
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
