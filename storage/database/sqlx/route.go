package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/route"
)

const routeColumns = "id, cities, team_id, vehicle_id, start_date, end_date, status, created_at, updated_at"

type routeRepository struct {
	db *sqlx.DB
}

var _ route.Repository = (*routeRepository)(nil) // interface compliance check

func NewRouteRepository(db *sqlx.DB) route.Repository {
	return &routeRepository{db: db}
}

func scanRoute(row rowScanner) (route.Route, error) {
	var r route.Route
	var teamID, vehicleID sql.NullInt64
	var endDate sql.NullTime
	err := row.Scan(
		&r.ID, pq.Array(&r.Cities), &teamID, &vehicleID,
		&r.StartDate, &endDate, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return route.Route{}, route.ErrNotFound
	}
	if err != nil {
		return route.Route{}, errors.Wrap(err, "scanning route")
	}
	if teamID.Valid {
		id := int(teamID.Int64)
		r.TeamID = &id
	}
	if vehicleID.Valid {
		id := int(vehicleID.Int64)
		r.VehicleID = &id
	}
	if endDate.Valid {
		r.EndDate = &endDate.Time
	}
	return r, nil
}

func (repo *routeRepository) CreateRoute(r route.Route) (route.Route, error) {
	err := repo.db.QueryRow(
		`INSERT INTO routes (cities, team_id, vehicle_id, start_date, end_date, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		pq.Array(r.Cities), r.TeamID, r.VehicleID, r.StartDate, r.EndDate, r.Status, r.CreatedAt, r.UpdatedAt,
	).Scan(&r.ID)
	return r, errors.Wrap(err, "creating route")
}

func (repo *routeRepository) QueryAllRoutes() ([]route.Route, error) {
	q := fmt.Sprintf("SELECT %s FROM routes ORDER BY id", routeColumns)
	rows, err := repo.db.Query(q)
	if err != nil {
		return nil, errors.Wrap(err, "querying routes")
	}
	defer func() { _ = rows.Close() }()

	var routes []route.Route
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, errors.Wrap(rows.Err(), "querying routes")
}

func (repo *routeRepository) GetRouteByID(id int) (route.Route, error) {
	q := fmt.Sprintf("SELECT %s FROM routes WHERE id = $1", routeColumns)
	return scanRoute(repo.db.QueryRow(q, id))
}

func (repo *routeRepository) UpdateRoute(r route.Route) (route.Route, error) {
	q := fmt.Sprintf(
		`UPDATE routes SET cities = $1, team_id = $2, vehicle_id = $3, start_date = $4,
		 end_date = $5, status = $6, updated_at = $7 WHERE id = $8 RETURNING %s`, routeColumns)
	return scanRoute(repo.db.QueryRow(q,
		pq.Array(r.Cities), r.TeamID, r.VehicleID, r.StartDate, r.EndDate, r.Status, r.UpdatedAt, r.ID))
}

func (repo *routeRepository) DeleteRoutesByID(ids ...int) error {
	_, err := repo.db.Exec("DELETE FROM routes WHERE id = ANY($1)", pq.Array(ids))
	return errors.Wrap(err, "deleting routes")
}
