package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/team"
)

type teamApi struct {
	svc      *team.Service
	validate *validator.Validate
}

func registerTeamAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := teamApi{
		svc:      opts.TeamSvc,
		validate: opts.Validate,
	}

	tg := g.Group("/teams", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create, gestorMiddleware())
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update, gestorMiddleware())
	tg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *teamApi) query(ctx echo.Context) error {
	teams, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying teams")
	}
	if teams == nil {
		teams = []team.Team{}
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api *teamApi) create(ctx echo.Context) error {
	var data team.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating team")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teamApi) retrieve(ctx echo.Context) error {
	t, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) update(ctx echo.Context) error {
	t, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	var data team.UpdateTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeam")
	}
	if err := data.Validate(t, api.validate); err != nil {
		return err
	}

	t, err = api.svc.Update(t.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating team")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) destroy(ctx echo.Context) error {
	t, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(t.ID); err != nil {
		return errors.Wrap(err, "deleting team")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *teamApi) getObject(ctx echo.Context) (team.Team, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return team.Team{}, errHttpNotFound
	}
	t, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == team.ErrNotFound {
			return team.Team{}, errHttpNotFound
		}
		return team.Team{}, errors.Wrap(err, "finding team by ID")
	}
	return t, nil
}
