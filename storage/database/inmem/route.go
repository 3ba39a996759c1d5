package inmemdb

import (
	"sort"

	"github.com/tmbraz/rotacheck/core/route"
)

type routeRepository struct {
	db *DB
}

var _ route.Repository = (*routeRepository)(nil) // interface compliance check

func NewRouteRepository(db *DB) route.Repository {
	return &routeRepository{db: db}
}

func (repo *routeRepository) query() []route.Route {
	routes := make([]route.Route, 0, len(repo.db.route.table))
	for _, r := range repo.db.route.table {
		routes = append(routes, *r)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })
	return routes
}

func (repo *routeRepository) persist() {
	repo.db.saveKey(keyRoutes, repo.query())
}

func (repo *routeRepository) CreateRoute(r route.Route) (route.Route, error) {
	repo.db.route.Lock()
	defer repo.db.route.Unlock()

	repo.db.route.seq++
	r.ID = repo.db.route.seq
	repo.db.route.table[r.ID] = &r
	repo.persist()
	return r, nil
}

func (repo *routeRepository) QueryAllRoutes() ([]route.Route, error) {
	repo.db.route.RLock()
	defer repo.db.route.RUnlock()
	return repo.query(), nil
}

func (repo *routeRepository) GetRouteByID(id int) (route.Route, error) {
	repo.db.route.RLock()
	defer repo.db.route.RUnlock()

	if r, ok := repo.db.route.table[id]; ok {
		return *r, nil
	}
	return route.Route{}, route.ErrNotFound
}

func (repo *routeRepository) UpdateRoute(r route.Route) (route.Route, error) {
	repo.db.route.Lock()
	defer repo.db.route.Unlock()

	orig, ok := repo.db.route.table[r.ID]
	if !ok {
		return route.Route{}, route.ErrNotFound
	}
	orig.Cities = r.Cities
	orig.TeamID = r.TeamID
	orig.VehicleID = r.VehicleID
	orig.StartDate = r.StartDate
	orig.EndDate = r.EndDate
	orig.Status = r.Status
	orig.UpdatedAt = r.UpdatedAt

	repo.db.route.table[r.ID] = orig
	repo.persist()
	return *orig, nil
}

func (repo *routeRepository) DeleteRoutesByID(ids ...int) error {
	repo.db.route.Lock()
	defer repo.db.route.Unlock()
	for _, id := range ids {
		delete(repo.db.route.table, id)
	}
	repo.persist()
	return nil
}
