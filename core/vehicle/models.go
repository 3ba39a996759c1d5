package vehicle

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tmbraz/rotacheck/core"
)

// Vehicle is a truck or van assignable to routes.
type Vehicle struct {
	ID        int       `json:"id" db:"id"`
	Plate     string    `json:"plate" db:"plate"`
	Model     string    `json:"model" db:"model"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewVehicle contains information needed to register a Vehicle.
type NewVehicle struct {
	Plate string `json:"plate" validate:"required"`
	Model string `json:"model"`
}

func (nv *NewVehicle) Validate(validate *validator.Validate) error {
	nv.Plate = strings.ToUpper(core.CleanString(nv.Plate))
	nv.Model = core.CleanString(nv.Model)
	return validate.Struct(nv)
}

// UpdateVehicle defines what information may be provided to modify a Vehicle.
type UpdateVehicle struct {
	Plate    string `json:"plate"`
	Model    string `json:"model"`
	IsActive *bool  `json:"is_active"`
}

func (uv *UpdateVehicle) Validate(orig Vehicle, validate *validator.Validate) error {
	if plate := strings.ToUpper(core.CleanString(uv.Plate)); plate != "" {
		uv.Plate = plate
	} else {
		uv.Plate = orig.Plate
	}
	if model := core.CleanString(uv.Model); model != "" {
		uv.Model = model
	} else {
		uv.Model = orig.Model
	}
	return validate.Struct(uv)
}
