package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/vehicle"
)

type vehicleApi struct {
	svc      *vehicle.Service
	validate *validator.Validate
}

func registerVehicleAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := vehicleApi{
		svc:      opts.VehicleSvc,
		validate: opts.Validate,
	}

	vg := g.Group("/vehicles", jwt)
	vg.GET("", api.query)
	vg.POST("", api.create, gestorMiddleware())
	vg.GET("/:id", api.retrieve)
	vg.PUT("/:id", api.update, gestorMiddleware())
	vg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *vehicleApi) query(ctx echo.Context) error {
	vehicles, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying vehicles")
	}
	if vehicles == nil {
		vehicles = []vehicle.Vehicle{}
	}
	return ctx.JSON(http.StatusOK, vehicles)
}

func (api *vehicleApi) create(ctx echo.Context) error {
	var data vehicle.NewVehicle
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVehicle")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	v, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating vehicle")
	}
	return ctx.JSON(http.StatusCreated, v)
}

func (api *vehicleApi) retrieve(ctx echo.Context) error {
	v, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, v)
}

func (api *vehicleApi) update(ctx echo.Context) error {
	v, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	var data vehicle.UpdateVehicle
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateVehicle")
	}
	if err := data.Validate(v, api.validate); err != nil {
		return err
	}

	v, err = api.svc.Update(v.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating vehicle")
	}
	return ctx.JSON(http.StatusOK, v)
}

func (api *vehicleApi) destroy(ctx echo.Context) error {
	v, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(v.ID); err != nil {
		return errors.Wrap(err, "deleting vehicle")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *vehicleApi) getObject(ctx echo.Context) (vehicle.Vehicle, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return vehicle.Vehicle{}, errHttpNotFound
	}
	v, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == vehicle.ErrNotFound {
			return vehicle.Vehicle{}, errHttpNotFound
		}
		return vehicle.Vehicle{}, errors.Wrap(err, "finding vehicle by ID")
	}
	return v, nil
}
