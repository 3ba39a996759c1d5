package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/question"
)

type questionApi struct {
	svc      *question.Service
	validate *validator.Validate
}

func registerQuestionAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := questionApi{
		svc:      opts.QuestionSvc,
		validate: opts.Validate,
	}

	qg := g.Group("/questions", jwt)
	qg.GET("", api.query)
	qg.POST("", api.create, adminMiddleware())
	qg.GET("/:id", api.retrieve)
	qg.PUT("/:id", api.update, adminMiddleware())
	qg.DELETE("/:id", api.destroy, adminMiddleware())
}

// query returns the catalog in checklist order. Every authenticated user needs
// it to render the daily form.
func (api *questionApi) query(ctx echo.Context) error {
	questions, err := api.svc.Catalog()
	if err != nil {
		return errors.Wrap(err, "loading question catalog")
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api *questionApi) create(ctx echo.Context) error {
	var data question.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *questionApi) retrieve(ctx echo.Context) error {
	q, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *questionApi) update(ctx echo.Context) error {
	q, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	var data question.UpdateQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuestion")
	}
	if err := data.Validate(q, api.validate); err != nil {
		return err
	}

	q, err = api.svc.Update(q.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *questionApi) destroy(ctx echo.Context) error {
	q, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(q.ID); err != nil {
		return errors.Wrap(err, "deleting question")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *questionApi) getObject(ctx echo.Context) (question.Question, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return question.Question{}, errHttpNotFound
	}
	q, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == question.ErrNotFound {
			return question.Question{}, errHttpNotFound
		}
		return question.Question{}, errors.Wrap(err, "finding question by ID")
	}
	return q, nil
}
