package route

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tmbraz/rotacheck/core"
)

// Statuses
const (
	StatusFormation = "formation"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Route is a delivery itinerary over one or more cities, optionally assigned
// a team and a vehicle while in formation.
type Route struct {
	ID        int        `json:"id" db:"id"`
	Cities    []string   `json:"cities"`
	TeamID    *int       `json:"team_id" db:"team_id"`
	VehicleID *int       `json:"vehicle_id" db:"vehicle_id"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date" db:"end_date"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"` // UTC
}

// NewRoute contains information needed to create a new Route. Routes start in
// formation.
type NewRoute struct {
	Cities    []string  `json:"cities" validate:"required,min=1,dive,required"`
	TeamID    *int      `json:"team_id"`
	VehicleID *int      `json:"vehicle_id"`
	StartDate time.Time `json:"start_date" validate:"required"`
}

func (nr *NewRoute) Validate(validate *validator.Validate) error {
	for i, c := range nr.Cities {
		nr.Cities[i] = core.CleanString(c)
	}
	return validate.Struct(nr)
}

// UpdateRoute defines what information may be provided to modify a Route.
type UpdateRoute struct {
	Cities    []string   `json:"cities" validate:"omitempty,min=1,dive,required"`
	TeamID    *int       `json:"team_id"`
	VehicleID *int       `json:"vehicle_id"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Status    string     `json:"status" validate:"omitempty,oneof=formation active completed"`
}

func (ur *UpdateRoute) Validate(orig Route, validate *validator.Validate) error {
	if ur.Cities == nil {
		ur.Cities = orig.Cities
	} else {
		for i, c := range ur.Cities {
			ur.Cities[i] = core.CleanString(c)
		}
	}
	if ur.TeamID == nil {
		ur.TeamID = orig.TeamID
	}
	if ur.VehicleID == nil {
		ur.VehicleID = orig.VehicleID
	}
	if ur.StartDate == nil {
		ur.StartDate = &orig.StartDate
	}
	if ur.EndDate == nil {
		ur.EndDate = orig.EndDate
	}
	if ur.Status == "" {
		ur.Status = orig.Status
	}
	return validate.Struct(ur)
}
