package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/tmbraz/rotacheck/apps/api/echo"
	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/evaluation"
	"github.com/tmbraz/rotacheck/core/question"
	"github.com/tmbraz/rotacheck/core/route"
	"github.com/tmbraz/rotacheck/core/team"
	"github.com/tmbraz/rotacheck/core/user"
	"github.com/tmbraz/rotacheck/core/vehicle"
	emailsvc "github.com/tmbraz/rotacheck/services/email"
	logsvc "github.com/tmbraz/rotacheck/services/logger"
	"github.com/tmbraz/rotacheck/storage/database"
	inmemdb "github.com/tmbraz/rotacheck/storage/database/inmem"
	sqlxrepos "github.com/tmbraz/rotacheck/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %+v", err)
	}

	logger := newLogger(conf)

	// set up stores: postgres primary (unless offline) + local JSON spool
	var db *sql.DB
	var sdb *sqlx.DB
	if !conf.Offline {
		if db, err = setUpDB(conf); err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				logger.Error("failed to close database", err)
			}
		}()
		sdb = sqlx.NewDb(db, "postgres")
	}

	local, err := inmemdb.Open(conf.DataDir)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening local store: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var (
		usrRepo      user.Repository
		questionRepo question.Repository
		teamRepo     team.Repository
		routeRepo    route.Repository
		vehicleRepo  vehicle.Repository
		evalPrimary  evaluation.Repository // nil offline
	)
	if sdb != nil {
		usrRepo = sqlxrepos.NewUserRepository(sdb)
		questionRepo = sqlxrepos.NewQuestionRepository(sdb)
		teamRepo = sqlxrepos.NewTeamRepository(sdb)
		routeRepo = sqlxrepos.NewRouteRepository(sdb)
		vehicleRepo = sqlxrepos.NewVehicleRepository(sdb)
		evalPrimary = sqlxrepos.NewEvaluationRepository(sdb)
	} else {
		usrRepo = inmemdb.NewUserRepository(local)
		questionRepo = inmemdb.NewQuestionRepository(local)
		teamRepo = inmemdb.NewTeamRepository(local)
		routeRepo = inmemdb.NewRouteRepository(local)
		vehicleRepo = inmemdb.NewVehicleRepository(local)
	}

	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	questionSvc := question.NewService(questionRepo)
	evalSvc := evaluation.NewService(
		conf, evalPrimary, inmemdb.NewEvaluationRepository(local), questionSvc, mailSvc, logger)
	teamSvc := team.NewService(teamRepo)
	routeSvc := route.NewService(routeRepo)
	vehicleSvc := vehicle.NewService(vehicleRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:        conf.Server.Address(),
		Conf:           conf,
		Logger:         logger,
		DB:             db,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		QuestionSvc:    questionSvc,
		EvaluationSvc:  evalSvc,
		TeamSvc:        teamSvc,
		RouteSvc:       routeSvc,
		VehicleSvc:     vehicleSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func newLogger(conf *core.Config) core.Logger {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if conf.Debug || conf.RollbarToken == "" {
		return logsvc.NewStdLogger(std)
	}
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(true)
	return logger
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
