package team

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core"
)

// MaxAssistants per team.
const MaxAssistants = 2

// Team pairs a driver with up to two assistants. Members are referenced by
// username; assignment happens on the admin surface.
type Team struct {
	ID         int       `json:"id" db:"id"`
	Driver     string    `json:"driver" db:"driver"`
	Assistants []string  `json:"assistants"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Members returns driver + assistants.
func (t Team) Members() []string {
	return append([]string{t.Driver}, t.Assistants...)
}

// NewTeam contains information needed to create a new Team.
type NewTeam struct {
	Driver     string   `json:"driver" validate:"required"`
	Assistants []string `json:"assistants" validate:"omitempty,max=2"`
}

func (nt *NewTeam) Validate(validate *validator.Validate) error {
	nt.Driver = core.CleanString(nt.Driver, true /* lower */)
	for i, a := range nt.Assistants {
		nt.Assistants[i] = core.CleanString(a, true /* lower */)
	}
	if err := validate.Struct(nt); err != nil {
		return err
	}
	return checkDistinctMembers(nt.Driver, nt.Assistants)
}

// UpdateTeam defines what information may be provided to modify a Team.
// A nil Assistants leaves the current ones untouched; an empty slice clears them.
type UpdateTeam struct {
	Driver     string    `json:"driver"`
	Assistants *[]string `json:"assistants" validate:"omitempty,max=2"`
}

func (ut *UpdateTeam) Validate(orig Team, validate *validator.Validate) error {
	if driver := core.CleanString(ut.Driver, true /* lower */); driver != "" {
		ut.Driver = driver
	} else {
		ut.Driver = orig.Driver
	}
	if ut.Assistants == nil {
		ut.Assistants = &orig.Assistants
	} else {
		for i, a := range *ut.Assistants {
			(*ut.Assistants)[i] = core.CleanString(a, true /* lower */)
		}
	}
	if err := validate.Struct(ut); err != nil {
		return err
	}
	return checkDistinctMembers(ut.Driver, *ut.Assistants)
}

func checkDistinctMembers(driver string, assistants []string) error {
	seen := map[string]bool{driver: true}
	for _, a := range assistants {
		if a == "" {
			return core.NewValidationError(errors.New("assistant username cannot be empty"),
				core.FieldError{Field: "assistants", Error: "assistant username cannot be empty"})
		}
		if seen[a] {
			return core.NewValidationError(errors.New("team members must be distinct"),
				core.FieldError{Field: "assistants", Error: "team members must be distinct"})
		}
		seen[a] = true
	}
	return nil
}
