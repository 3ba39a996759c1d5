package inmemdb

import (
	"sort"

	"github.com/tmbraz/rotacheck/core/vehicle"
)

type vehicleRepository struct {
	db *DB
}

var _ vehicle.Repository = (*vehicleRepository)(nil) // interface compliance check

func NewVehicleRepository(db *DB) vehicle.Repository {
	return &vehicleRepository{db: db}
}

func (repo *vehicleRepository) query() []vehicle.Vehicle {
	vehicles := make([]vehicle.Vehicle, 0, len(repo.db.vehicle.table))
	for _, v := range repo.db.vehicle.table {
		vehicles = append(vehicles, *v)
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].ID < vehicles[j].ID })
	return vehicles
}

func (repo *vehicleRepository) persist() {
	repo.db.saveKey(keyVehicles, repo.query())
}

func (repo *vehicleRepository) CreateVehicle(v vehicle.Vehicle) (vehicle.Vehicle, error) {
	repo.db.vehicle.Lock()
	defer repo.db.vehicle.Unlock()

	repo.db.vehicle.seq++
	v.ID = repo.db.vehicle.seq
	repo.db.vehicle.table[v.ID] = &v
	repo.persist()
	return v, nil
}

func (repo *vehicleRepository) QueryAllVehicles() ([]vehicle.Vehicle, error) {
	repo.db.vehicle.RLock()
	defer repo.db.vehicle.RUnlock()
	return repo.query(), nil
}

func (repo *vehicleRepository) GetVehicleByID(id int) (vehicle.Vehicle, error) {
	repo.db.vehicle.RLock()
	defer repo.db.vehicle.RUnlock()

	if v, ok := repo.db.vehicle.table[id]; ok {
		return *v, nil
	}
	return vehicle.Vehicle{}, vehicle.ErrNotFound
}

func (repo *vehicleRepository) UpdateVehicle(v vehicle.Vehicle, isActive *bool) (vehicle.Vehicle, error) {
	repo.db.vehicle.Lock()
	defer repo.db.vehicle.Unlock()

	orig, ok := repo.db.vehicle.table[v.ID]
	if !ok {
		return vehicle.Vehicle{}, vehicle.ErrNotFound
	}
	if v.Plate != "" {
		orig.Plate = v.Plate
	}
	if v.Model != "" {
		orig.Model = v.Model
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = v.UpdatedAt

	repo.db.vehicle.table[v.ID] = orig
	repo.persist()
	return *orig, nil
}

func (repo *vehicleRepository) DeleteVehiclesByID(ids ...int) error {
	repo.db.vehicle.Lock()
	defer repo.db.vehicle.Unlock()
	for _, id := range ids {
		delete(repo.db.vehicle.table, id)
	}
	repo.persist()
	return nil
}
