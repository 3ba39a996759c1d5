package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/route"
)

type routeApi struct {
	svc      *route.Service
	validate *validator.Validate
}

func registerRouteAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := routeApi{
		svc:      opts.RouteSvc,
		validate: opts.Validate,
	}

	rg := g.Group("/routes", jwt)
	rg.GET("", api.query)
	rg.POST("", api.create, gestorMiddleware())
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update, gestorMiddleware())
	rg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *routeApi) query(ctx echo.Context) error {
	routes, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying routes")
	}
	if routes == nil {
		routes = []route.Route{}
	}
	return ctx.JSON(http.StatusOK, routes)
}

func (api *routeApi) create(ctx echo.Context) error {
	var data route.NewRoute
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoute")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating route")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *routeApi) retrieve(ctx echo.Context) error {
	r, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *routeApi) update(ctx echo.Context) error {
	r, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	var data route.UpdateRoute
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRoute")
	}
	if err := data.Validate(r, api.validate); err != nil {
		return err
	}

	r, err = api.svc.Update(r.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating route")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *routeApi) destroy(ctx echo.Context) error {
	r, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(r.ID); err != nil {
		return errors.Wrap(err, "deleting route")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *routeApi) getObject(ctx echo.Context) (route.Route, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return route.Route{}, errHttpNotFound
	}
	r, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == route.ErrNotFound {
			return route.Route{}, errHttpNotFound
		}
		return route.Route{}, errors.Wrap(err, "finding route by ID")
	}
	return r, nil
}
