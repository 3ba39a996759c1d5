package echoapi

import (
	"context"
	"database/sql"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/evaluation"
	"github.com/tmbraz/rotacheck/core/question"
	"github.com/tmbraz/rotacheck/core/route"
	"github.com/tmbraz/rotacheck/core/team"
	"github.com/tmbraz/rotacheck/core/user"
	"github.com/tmbraz/rotacheck/core/vehicle"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf           *core.Config
		Logger         core.Logger
		DB             *sql.DB // nil in offline mode
		SignalShutdown func()

		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc       *user.Service
		QuestionSvc   *question.Service
		EvaluationSvc *evaluation.Service
		TeamSvc       *team.Service
		RouteSvc      *route.Service
		VehicleSvc    *vehicle.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	initJWTConfig(opts.Conf)
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
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
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.Server.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	s.app.Use(noCacheMiddleware)
	s.app.Use(timeoutMiddleware(conf.Server.RequestTimeout))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerHealthAPI(v1, jwt, s.opts)
	registerUserAPI(v1, jwt, s.opts)
	registerQuestionAPI(v1, jwt, s.opts)
	registerEvaluationAPI(v1, jwt, s.opts)
	registerTeamAPI(v1, jwt, s.opts)
	registerRouteAPI(v1, jwt, s.opts)
	registerVehicleAPI(v1, jwt, s.opts)
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
	return ctx.String(http.StatusOK, "Welcome to RotaCheck API!")
}
