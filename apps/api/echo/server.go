// Package echoapi wires the portal's REST surface on echo: public
// registration/login, cookie-session endpoints for the student and
// alumni dashboards, and session-verified admin moderation.
package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/event"
	"github.com/alumniconnect/alumniconnect/core/feed"
	"github.com/alumniconnect/alumniconnect/core/job"
	"github.com/alumniconnect/alumniconnect/core/mentorship"
	"github.com/alumniconnect/alumniconnect/core/report"
	"github.com/alumniconnect/alumniconnect/core/session"
	"github.com/alumniconnect/alumniconnect/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		Address        string
		DisableReqLogs bool

		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		MailSvc    core.EmailService

		UserSvc       user.ServiceInterface
		SessionSvc    *session.Service
		JobSvc        *job.Service
		EventSvc      *event.Service
		MentorshipSvc *mentorship.Service
		FeedSvc       *feed.Service
		ReportSvc     *report.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
		// ShutdownSignal fires when a handler reports an integrity
		// error the app cannot recover from; main selects on it to
		// stop the server gracefully.
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) ShutdownSignal() <-chan struct{} { return s.shutdown }

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	sessionMW := sessionMiddleware(conf, s.opts.SessionSvc)

	registerUserAPI(api, sessionMW, s.opts)
	registerJobAPI(api, sessionMW, s.opts)
	registerEventAPI(api, sessionMW, s.opts)
	registerMentorshipAPI(api, sessionMW, s.opts)
	registerFeedAPI(api, sessionMW, s.opts)
	registerReportAPI(api, sessionMW, s.opts)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to AlumniConnect API!")
}
