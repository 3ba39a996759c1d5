package vehicle

import (
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("vehicle not found")

type (
	Repository interface {
		CreateVehicle(v Vehicle) (Vehicle, error)
		QueryAllVehicles() ([]Vehicle, error)
		GetVehicleByID(id int) (Vehicle, error)
		UpdateVehicle(v Vehicle, isActive *bool) (Vehicle, error)
		DeleteVehiclesByID(ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nv NewVehicle) (Vehicle, error) {
	now := time.Now().UTC()
	return svc.repo.CreateVehicle(Vehicle{
		Plate:     nv.Plate,
		Model:     nv.Model,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryAll() ([]Vehicle, error) {
	return svc.repo.QueryAllVehicles()
}

func (svc *Service) GetByID(id int) (Vehicle, error) {
	return svc.repo.GetVehicleByID(id)
}

func (svc *Service) Update(id int, uv UpdateVehicle) (Vehicle, error) {
	return svc.repo.UpdateVehicle(Vehicle{
		ID:        id,
		Plate:     uv.Plate,
		Model:     uv.Model,
		UpdatedAt: time.Now().UTC(),
	}, uv.IsActive)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteVehiclesByID(ids...)
}
