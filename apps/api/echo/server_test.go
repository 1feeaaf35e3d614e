package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/alumniconnect/alumniconnect/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestServer_shutdownSignal(t *testing.T) {
	conf := &core.Config{
		TestMode: true,
		Server:   core.ServerConfig{SessionCookieName: "ac_session"},
	}
	srv := NewServer(&Options{Conf: conf, DisableReqLogs: true, Logger: nopLogger{}}).(*server)

	serveErr := func(err error) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		srv.app.HTTPErrorHandler(err, srv.app.NewContext(req, rec))
		return rec
	}

	// an ordinary server error does not ask for a shutdown
	rec := serveErr(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	select {
	case <-srv.ShutdownSignal():
		t.Fatal("unexpected shutdown signal")
	default:
	}

	// an integrity error does, and the signal is readable by main
	rec = serveErr(core.NewShutdownError("integrity error"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	select {
	case <-srv.ShutdownSignal():
	default:
		t.Fatal("expected a shutdown signal")
	}

	// signalling twice never blocks the handler
	serveErr(core.NewShutdownError("integrity error"))
	serveErr(core.NewShutdownError("integrity error"))
}
