package route

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core"
)

type memRepo struct {
	seq    int
	routes map[int]Route
}

var _ Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{routes: map[int]Route{}}
}

func (repo *memRepo) CreateRoute(r Route) (Route, error) {
	repo.seq++
	r.ID = repo.seq
	repo.routes[r.ID] = r
	return r, nil
}

func (repo *memRepo) QueryAllRoutes() ([]Route, error) {
	rs := make([]Route, 0, len(repo.routes))
	for _, r := range repo.routes {
		rs = append(rs, r)
	}
	return rs, nil
}

func (repo *memRepo) GetRouteByID(id int) (Route, error) {
	if r, ok := repo.routes[id]; ok {
		return r, nil
	}
	return Route{}, ErrNotFound
}

func (repo *memRepo) UpdateRoute(r Route) (Route, error) {
	if _, ok := repo.routes[r.ID]; !ok {
		return Route{}, ErrNotFound
	}
	repo.routes[r.ID] = r
	return r, nil
}

func (repo *memRepo) DeleteRoutesByID(ids ...int) error {
	for _, id := range ids {
		delete(repo.routes, id)
	}
	return nil
}

func createRoute(t *testing.T, svc *Service, status string) Route {
	t.Helper()
	r, err := svc.Create(NewRoute{Cities: []string{"Campinas", "Jundiaí"}, StartDate: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	for r.Status != status {
		next := transitions[r.Status]
		if r, err = update(svc, r, UpdateRoute{Status: next}); err != nil {
			t.Fatalf("Update() to %s failed: %v", next, err)
		}
	}
	return r
}

// update validates against the current route before applying, the way the
// HTTP handler does. Update expects every field filled in.
func update(svc *Service, orig Route, ur UpdateRoute) (Route, error) {
	validate, _ := core.NewValidator()
	if err := ur.Validate(orig, validate); err != nil {
		return Route{}, err
	}
	return svc.Update(orig.ID, ur)
}

func TestService_Create_startsInFormation(t *testing.T) {
	svc := NewService(newMemRepo())

	r, err := svc.Create(NewRoute{Cities: []string{"Campinas"}, StartDate: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if r.Status != StatusFormation {
		t.Errorf("status = %v; want %v", r.Status, StatusFormation)
	}
}

func TestService_Update_statusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{name: "formation to active", from: StatusFormation, to: StatusActive},
		{name: "active to completed", from: StatusActive, to: StatusCompleted},
		{name: "formation stays formation", from: StatusFormation, to: StatusFormation},
		{name: "formation straight to completed", from: StatusFormation, to: StatusCompleted, wantErr: true},
		{name: "active back to formation", from: StatusActive, to: StatusFormation, wantErr: true},
		{name: "completed reactivated", from: StatusCompleted, to: StatusActive, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMemRepo())
			r := createRoute(t, svc, tt.from)

			updated, err := update(svc, r, UpdateRoute{Status: tt.to})
			if tt.wantErr {
				if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
					t.Fatalf("Update() err = %v; want a ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() failed: %v", err)
			}
			if updated.Status != tt.to {
				t.Errorf("status = %v; want %v", updated.Status, tt.to)
			}
		})
	}
}

func TestService_Update_keepsUnsetFields(t *testing.T) {
	svc := NewService(newMemRepo())
	r := createRoute(t, svc, StatusFormation)

	teamID := 7
	updated, err := update(svc, r, UpdateRoute{TeamID: &teamID})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.TeamID == nil || *updated.TeamID != teamID {
		t.Errorf("teamID = %v; want %d", updated.TeamID, teamID)
	}
	if len(updated.Cities) != len(r.Cities) {
		t.Errorf("cities = %v; want original %v", updated.Cities, r.Cities)
	}
	if updated.Status != r.Status {
		t.Errorf("status = %v; want unchanged %v", updated.Status, r.Status)
	}
}
