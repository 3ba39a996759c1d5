package question

import (
	"github.com/go-playground/validator/v10"

	"github.com/tmbraz/rotacheck/core"
)

// RequireReasonWhen policies: when a free-text justification is mandatory.
const (
	ReasonWhenYes   = "yes"
	ReasonWhenNo    = "no"
	ReasonWhenNever = "never"
)

// Question is one item of the fixed daily checklist. The catalog is static
// reference data: seeded once, rarely mutated.
type Question struct {
	ID int `json:"id" db:"id"`
	// Text is the question as shown to the evaluator.
	Text string `json:"text" db:"text"`
	// Order is the sort key. A float so that new questions can be slotted
	// between existing ones without renumbering the catalog.
	Order float64 `json:"order" db:"sort_order"`
	// GoodWhenYes tells which boolean answer counts towards the score.
	GoodWhenYes bool `json:"good_when_yes" db:"good_when_yes"`
	// RequireReasonWhen is one of yes|no|never.
	RequireReasonWhen string `json:"require_reason_when" db:"require_reason_when"`
}

// ReasonRequired reports whether a justification is mandatory for the given
// boolean answer to this question.
func (q Question) ReasonRequired(answer bool) bool {
	switch q.RequireReasonWhen {
	case ReasonWhenYes:
		return answer
	case ReasonWhenNo:
		return !answer
	}
	return false
}

// NewQuestion contains information needed to add a Question to the catalog.
type NewQuestion struct {
	Text              string  `json:"text" validate:"required"`
	Order             float64 `json:"order"`
	GoodWhenYes       bool    `json:"good_when_yes"`
	RequireReasonWhen string  `json:"require_reason_when" validate:"omitempty,oneof=yes no never"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Text = core.CleanString(nq.Text)
	if nq.RequireReasonWhen == "" {
		nq.RequireReasonWhen = ReasonWhenNever
	}
	return validate.Struct(nq)
}

// UpdateQuestion defines what information may be provided to modify a Question.
type UpdateQuestion struct {
	Text              string   `json:"text"`
	Order             *float64 `json:"order"`
	GoodWhenYes       *bool    `json:"good_when_yes"`
	RequireReasonWhen string   `json:"require_reason_when" validate:"omitempty,oneof=yes no never"`
}

func (uq *UpdateQuestion) Validate(orig Question, validate *validator.Validate) error {
	if text := core.CleanString(uq.Text); text != "" {
		uq.Text = text
	} else {
		uq.Text = orig.Text
	}
	if uq.Order == nil {
		uq.Order = &orig.Order
	}
	if uq.GoodWhenYes == nil {
		uq.GoodWhenYes = &orig.GoodWhenYes
	}
	if uq.RequireReasonWhen == "" {
		uq.RequireReasonWhen = orig.RequireReasonWhen
	}
	return validate.Struct(uq)
}
