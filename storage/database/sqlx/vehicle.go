package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/vehicle"
)

type vehicleRepository struct {
	db *sqlx.DB
}

var _ vehicle.Repository = (*vehicleRepository)(nil) // interface compliance check

func NewVehicleRepository(db *sqlx.DB) vehicle.Repository {
	return &vehicleRepository{db: db}
}

func (repo *vehicleRepository) CreateVehicle(v vehicle.Vehicle) (vehicle.Vehicle, error) {
	err := repo.db.QueryRow(
		`INSERT INTO vehicles (plate, model, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		v.Plate, v.Model, v.IsActive, v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
	return v, errors.Wrap(err, "creating vehicle")
}

func (repo *vehicleRepository) QueryAllVehicles() ([]vehicle.Vehicle, error) {
	var vehicles []vehicle.Vehicle
	err := repo.db.Select(&vehicles, "SELECT * FROM vehicles ORDER BY id")
	return vehicles, errors.Wrap(err, "querying vehicles")
}

func (repo *vehicleRepository) GetVehicleByID(id int) (vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	err := repo.db.Get(&v, "SELECT * FROM vehicles WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return vehicle.Vehicle{}, vehicle.ErrNotFound
	}
	return v, errors.Wrap(err, "getting vehicle")
}

func (repo *vehicleRepository) UpdateVehicle(v vehicle.Vehicle, isActive *bool) (vehicle.Vehicle, error) {
	var sets []string
	var args []interface{}
	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if v.Plate != "" {
		set("plate", v.Plate)
	}
	if v.Model != "" {
		set("model", v.Model)
	}
	if isActive != nil {
		set("is_active", *isActive)
	}
	if !v.UpdatedAt.IsZero() {
		set("updated_at", v.UpdatedAt)
	}
	if sets == nil {
		return repo.GetVehicleByID(v.ID)
	}

	args = append(args, v.ID)
	q := fmt.Sprintf("UPDATE vehicles SET %s WHERE id = $%d RETURNING *", strings.Join(sets, ", "), len(args))

	res := vehicle.Vehicle{}
	err := repo.db.Get(&res, q, args...)
	if err == sql.ErrNoRows {
		return vehicle.Vehicle{}, vehicle.ErrNotFound
	}
	return res, errors.Wrap(err, "updating vehicle")
}

func (repo *vehicleRepository) DeleteVehiclesByID(ids ...int) error {
	_, err := repo.db.Exec("DELETE FROM vehicles WHERE id = ANY($1)", pq.Array(ids))
	return errors.Wrap(err, "deleting vehicles")
}
