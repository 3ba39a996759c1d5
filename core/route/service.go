package route

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core"
)

var (
	ErrNotFound = errors.New("route not found")

	// valid status transitions: formation → active → completed
	transitions = map[string]string{
		StatusFormation: StatusActive,
		StatusActive:    StatusCompleted,
	}
)

type (
	Repository interface {
		CreateRoute(r Route) (Route, error)
		QueryAllRoutes() ([]Route, error)
		GetRouteByID(id int) (Route, error)
		UpdateRoute(r Route) (Route, error)
		DeleteRoutesByID(ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nr NewRoute) (Route, error) {
	now := time.Now().UTC()
	return svc.repo.CreateRoute(Route{
		Cities:    nr.Cities,
		TeamID:    nr.TeamID,
		VehicleID: nr.VehicleID,
		StartDate: nr.StartDate,
		Status:    StatusFormation,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryAll() ([]Route, error) {
	return svc.repo.QueryAllRoutes()
}

func (svc *Service) GetByID(id int) (Route, error) {
	return svc.repo.GetRouteByID(id)
}

func (svc *Service) Update(id int, ur UpdateRoute) (Route, error) {
	orig, err := svc.repo.GetRouteByID(id)
	if err != nil {
		return Route{}, err
	}
	if ur.Status != orig.Status && transitions[orig.Status] != ur.Status {
		return Route{}, core.NewValidationError(
			errors.Errorf("cannot move route from %s to %s", orig.Status, ur.Status),
			core.FieldError{Field: "status", Error: "invalid status transition"},
		)
	}
	return svc.repo.UpdateRoute(Route{
		ID:        id,
		Cities:    ur.Cities,
		TeamID:    ur.TeamID,
		VehicleID: ur.VehicleID,
		StartDate: *ur.StartDate,
		EndDate:   ur.EndDate,
		Status:    ur.Status,
		UpdatedAt: time.Now().UTC(),
	})
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteRoutesByID(ids...)
}
