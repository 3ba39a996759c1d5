package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/evaluation"
	"github.com/tmbraz/rotacheck/core/question"
)

type evaluationApi struct {
	svc         *evaluation.Service
	questionSvc *question.Service
	validate    *validator.Validate
}

func registerEvaluationAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := evaluationApi{
		svc:         opts.EvaluationSvc,
		questionSvc: opts.QuestionSvc,
		validate:    opts.Validate,
	}

	eg := g.Group("/evaluations", jwt)
	eg.POST("", api.submit)
	eg.GET("", api.query, gestorMiddleware())
	eg.GET("/export.csv", api.exportCSV, gestorMiddleware())
	eg.POST("/sync", api.sync, gestorMiddleware())
	eg.GET("/:id", api.retrieve)
}

// submit records today's checklist for a teammate. The evaluator is always
// the authenticated user.
func (api *evaluationApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data evaluation.NewEvaluation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvaluation")
	}

	catalog, err := api.questionSvc.Catalog()
	if err != nil {
		return errors.Wrap(err, "loading question catalog")
	}
	if err := data.Validate(api.validate, catalog); err != nil {
		return err
	}

	ev, err := api.svc.Submit(claims.Username, data)
	if err != nil {
		return errors.Wrap(err, "submitting evaluation")
	}
	return ctx.JSON(http.StatusCreated, ev)
}

func (api *evaluationApi) query(ctx echo.Context) error {
	filter := new(evaluation.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []evaluation.Evaluation{})
	}
	filter.Clean()

	evs, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying evaluations")
	}
	if evs == nil {
		evs = []evaluation.Evaluation{}
	}
	return ctx.JSON(http.StatusOK, evs)
}

// retrieve returns one evaluation. Colaboradores may only read their own
// submissions or evaluations about them.
func (api *evaluationApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ev, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == evaluation.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding evaluation by ID")
	}

	if !(claims.IsAdmin || claims.IsGestor) &&
		ev.Evaluator != claims.Username && ev.Evaluated != claims.Username {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *evaluationApi) exportCSV(ctx echo.Context) error {
	filter := new(evaluation.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		filter = new(evaluation.QueryFilter)
	}
	filter.Clean()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="evaluations.csv"`)
	res.WriteHeader(http.StatusOK)

	return errors.Wrap(api.svc.ExportCSV(res, *filter), "exporting evaluations")
}

func (api *evaluationApi) sync(ctx echo.Context) error {
	synced, err := api.svc.SyncQueued()
	if err != nil {
		if errors.Cause(err) == evaluation.ErrNoPrimary {
			return echo.NewHTTPError(http.StatusConflict, "no primary store to sync to")
		}
		return errors.Wrap(err, "syncing queued evaluations")
	}
	return ctx.JSON(http.StatusOK, SyncResponse{
		Synced:  synced,
		Message: fmt.Sprintf("%d evaluation(s) pushed", synced),
	})
}

type SyncResponse struct {
	Synced  int    `json:"synced"`
	Message string `json:"message"`
}
