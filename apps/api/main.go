package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

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
	"github.com/alumniconnect/alumniconnect/storage/database"
	sqlxrepos "github.com/alumniconnect/alumniconnect/storage/database/sqlx"
	"github.com/alumniconnect/alumniconnect/storage/sessionstore"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig(".")

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// set up session store
	sessStore, err := sessionstore.NewRedisStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up session store: %v", err), err)
	}
	defer func() {
		if err = sessStore.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing session store: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(conf, sqlxrepos.NewUserRepository(dbx), mailSvc)
	sessSvc := session.NewService(conf, sessStore, usrSvc)
	jobSvc := job.NewService(sqlxrepos.NewJobRepository(dbx))
	eventSvc := event.NewService(sqlxrepos.NewEventRepository(dbx))
	mentorshipSvc := mentorship.NewService(sqlxrepos.NewMentorshipRepository(dbx), usrSvc, mailSvc)
	feedSvc := feed.NewService(sqlxrepos.NewFeedRepository(dbx))
	reportSvc := report.NewService(sqlxrepos.NewReportRepository(dbx))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	if err = core.InitEmailTemplates(appfs.FS, "templates/email"); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Conf:          conf,
		Address:       conf.Server.Address(),
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		MailSvc:       mailSvc,
		UserSvc:       usrSvc,
		SessionSvc:    sessSvc,
		JobSvc:        jobSvc,
		EventSvc:      eventSvc,
		MentorshipSvc: mentorshipSvc,
		FeedSvc:       feedSvc,
		ReportSvc:     reportSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API listening on " + conf.Server.Address())
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case <-server.ShutdownSignal():
		logger.Info("integrity error: Start shutdown...")
		stopServer(server, conf, logger)

	case sig := <-quit:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		stopServer(server, conf, logger)
	}
}

// stopServer gives outstanding requests a deadline for completion.
func stopServer(server echoapi.Server, conf *core.Config, logger core.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
