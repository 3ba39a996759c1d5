package echoapi

import (
	"net/http"
	"os"
	"runtime"

	"github.com/labstack/echo/v4"
)

type healthApi struct {
	opts *Options
}

func registerHealthAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := healthApi{opts: opts}

	g.GET("/health", api.health)
	g.GET("/debug/info", api.info, jwt, adminMiddleware())
}

// health reports readiness. With a primary store configured an unreachable
// database makes the service not ready.
func (api *healthApi) health(ctx echo.Context) error {
	mode := "online"
	if api.opts.Conf.Offline {
		mode = "offline"
	}

	if api.opts.DB != nil {
		if err := api.opts.DB.Ping(); err != nil {
			return ctx.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "db unavailable", Mode: mode})
		}
	}
	return ctx.JSON(http.StatusOK, HealthResponse{Status: "ok", Mode: mode})
}

// info is the admin diagnostics probe: runtime stats, presence of the
// required env vars (values never echoed back) and a live database ping.
func (api *healthApi) info(ctx echo.Context) error {
	host, _ := os.Hostname()

	db := "not configured (offline)"
	if api.opts.DB != nil {
		db = "ok"
		if err := api.opts.DB.Ping(); err != nil {
			db = "unreachable: " + err.Error()
		}
	}

	return ctx.JSON(http.StatusOK, InfoResponse{
		App:      api.opts.Conf.AppName,
		Env:      api.opts.Conf.Env,
		Build:    api.opts.Conf.Build,
		Host:     host,
		GoVer:    runtime.Version(),
		NumCPU:   runtime.NumCPU(),
		Routines: runtime.NumGoroutine(),
		Database: db,
		EnvVars: map[string]bool{
			"DATABASE_URL":     os.Getenv("DATABASE_URL") != "",
			"ROLLBAR_TOKEN":    api.opts.Conf.RollbarToken != "",
			"SENDGRID_API_KEY": api.opts.Conf.SendgridAPIKey != "",
			"ALERT_EMAIL":      api.opts.Conf.AlertEmail != "",
		},
	})
}

type (
	HealthResponse struct {
		Status string `json:"status"`
		Mode   string `json:"mode"`
	}

	InfoResponse struct {
		App      string          `json:"app"`
		Env      string          `json:"env"`
		Build    string          `json:"build"`
		Host     string          `json:"host"`
		GoVer    string          `json:"go_version"`
		NumCPU   int             `json:"num_cpu"`
		Routines int             `json:"goroutines"`
		Database string          `json:"database"`
		EnvVars  map[string]bool `json:"env_vars"`
	}
)
