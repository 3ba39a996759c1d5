package inmemdb

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/user"
	"github.com/tmbraz/rotacheck/core/vehicle"
)

func openDB(t *testing.T, dir string) *DB {
	t.Helper()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return db
}

func TestUserRepository_roundTrip(t *testing.T) {
	repo := NewUserRepository(openDB(t, ""))

	usr, err := repo.CreateUser(user.User{
		Name:     "Joao Motorista",
		Username: "11987654321",
		Email:    "joao@test.br",
		Roles:    []string{user.RoleColaborador},
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if usr.ID == 0 {
		t.Fatal("CreateUser() did not assign an ID")
	}

	got, err := repo.GetUserByID(usr.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if got.Username != usr.Username {
		t.Errorf("username = %v; want %v", got.Username, usr.Username)
	}

	// partial update: only the name changes
	updated, err := repo.UpdateUser(user.User{ID: usr.ID, Name: "Joao M. Silva"}, nil)
	if err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	if updated.Name != "Joao M. Silva" {
		t.Errorf("name = %v; want Joao M. Silva", updated.Name)
	}
	if updated.Username != usr.Username || updated.Email != usr.Email || !updated.IsActive {
		t.Errorf("unset fields changed: %+v", updated)
	}

	// deactivation via the isActive pointer
	inactive := false
	if updated, err = repo.UpdateUser(user.User{ID: usr.ID}, &inactive); err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	if updated.IsActive {
		t.Error("isActive = true; want false")
	}

	if err = repo.DeleteUsersByID(usr.ID); err != nil {
		t.Fatalf("DeleteUsersByID() failed: %v", err)
	}
	if _, err = repo.GetUserByID(usr.ID); errors.Cause(err) != user.ErrNotFound {
		t.Errorf("GetUserByID() err = %v; want %v", err, user.ErrNotFound)
	}
}

func TestUserRepository_uniqueness(t *testing.T) {
	repo := NewUserRepository(openDB(t, ""))

	usr, err := repo.CreateUser(user.User{Username: "11987654321", Email: "joao@test.br"})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	if err = repo.CheckUsernameUniqueness("11987654321", ""); err != user.ErrUsernameExists {
		t.Errorf("CheckUsernameUniqueness() = %v; want %v", err, user.ErrUsernameExists)
	}
	if err = repo.CheckUsernameUniqueness("11900000000", "joao@test.br"); err != user.ErrEmailExists {
		t.Errorf("CheckUsernameUniqueness() = %v; want %v", err, user.ErrEmailExists)
	}
	// the user itself is excluded on self-update
	if err = repo.CheckUsernameUniqueness("11987654321", "joao@test.br", usr); err != nil {
		t.Errorf("CheckUsernameUniqueness() = %v; want nil with exclusion", err)
	}
}

func TestDB_snapshotReload(t *testing.T) {
	dir := t.TempDir()

	db := openDB(t, dir)
	usr, err := NewUserRepository(db).CreateUser(user.User{
		Name: "Gestora", Username: "11900002222", IsActive: true, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	vcl, err := NewVehicleRepository(db).CreateVehicle(vehicle.Vehicle{Plate: "ABC1D23", Model: "Sprinter 416", IsActive: true})
	if err != nil {
		t.Fatalf("CreateVehicle() failed: %v", err)
	}

	// reopen from the same dir: snapshots must come back
	reloaded := openDB(t, dir)

	gotUsr, err := NewUserRepository(reloaded).GetUserByUsername(usr.Username)
	if err != nil {
		t.Fatalf("GetUserByUsername() after reload failed: %v", err)
	}
	if gotUsr.ID != usr.ID || gotUsr.Name != usr.Name {
		t.Errorf("reloaded user = %+v; want %+v", gotUsr, usr)
	}

	gotVcl, err := NewVehicleRepository(reloaded).GetVehicleByID(vcl.ID)
	if err != nil {
		t.Fatalf("GetVehicleByID() after reload failed: %v", err)
	}
	if gotVcl.Plate != vcl.Plate {
		t.Errorf("reloaded vehicle = %+v; want %+v", gotVcl, vcl)
	}

	// sequences continue past reloaded rows
	next, err := NewUserRepository(reloaded).CreateUser(user.User{Username: "11933334444"})
	if err != nil {
		t.Fatalf("CreateUser() after reload failed: %v", err)
	}
	if next.ID <= usr.ID {
		t.Errorf("new ID = %d; want > %d", next.ID, usr.ID)
	}
}
