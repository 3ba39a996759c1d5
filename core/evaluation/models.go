package evaluation

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/question"
)

// Statuses
const (
	// StatusQueued marks an evaluation persisted locally but not yet
	// acknowledged by the primary store.
	StatusQueued = "queued"
	StatusSynced = "synced"
)

// Answer is one yes/no reply to a catalog question, optionally justified.
type Answer struct {
	QuestionID int    `json:"question_id" db:"question_id"`
	Value      bool   `json:"value" db:"value"`
	Reason     string `json:"reason,omitempty" db:"reason"`
}

// Evaluation is one filled daily checklist: evaluator scored evaluated on
// dateRef (the evaluator's local calendar day). At most one evaluation may
// exist per (evaluator, evaluated, dateRef).
type Evaluation struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	DateRef   string    `json:"date_ref" db:"date_ref"`     // YYYY-MM-DD
	Evaluator string    `json:"evaluator" db:"evaluator"`   // username
	Evaluated string    `json:"evaluated" db:"evaluated"`   // username
	// RouteID ties the checklist to the route being worked that day, when the
	// evaluator picks one.
	RouteID *int     `json:"route_id" db:"route_id"`
	Answers []Answer `json:"answers"`
	Score   float64  `json:"score" db:"score"` // 0..1, 2 decimals
	Status  string   `json:"status" db:"status"`
}

// NewEvaluation contains information needed to submit an Evaluation.
// The evaluator comes from the authenticated session, not the payload.
type NewEvaluation struct {
	Evaluated string   `json:"evaluated" validate:"required"`
	RouteID   *int     `json:"route_id"`
	Answers   []Answer `json:"answers"`
}

// Validate checks the submitted answers against the question catalog: every
// question must be answered exactly once, and a reason is mandatory whenever
// the question's policy matches the given answer.
func (ne *NewEvaluation) Validate(validate *validator.Validate, catalog []question.Question) error {
	ne.Evaluated = core.CleanString(ne.Evaluated, true /* lower */)
	if err := validate.Struct(ne); err != nil {
		return err
	}

	var flds []core.FieldError
	byID := make(map[int]Answer, len(ne.Answers))
	for _, a := range ne.Answers {
		if _, dup := byID[a.QuestionID]; dup {
			flds = append(flds, core.FieldError{
				Field: fmt.Sprintf("question_%d", a.QuestionID),
				Error: "duplicate answer for this question",
			})
			continue
		}
		byID[a.QuestionID] = a
	}

	for _, q := range catalog {
		ans, ok := byID[q.ID]
		if !ok {
			flds = append(flds, core.FieldError{
				Field: fmt.Sprintf("question_%d", q.ID),
				Error: "an answer is required",
			})
			continue
		}
		if q.ReasonRequired(ans.Value) && core.CleanString(ans.Reason) == "" {
			flds = append(flds, core.FieldError{
				Field: fmt.Sprintf("question_%d", q.ID),
				Error: "a reason is required for this answer",
			})
		}
	}
	if flds != nil {
		return core.NewValidationError(errors.New("incomplete checklist"), flds...)
	}
	return nil
}

// QueryFilter fields are ANDed. Dates are dateRef strings (YYYY-MM-DD),
// compared inclusively.
type QueryFilter struct {
	DateFrom  string `query:"date_from"`
	DateTo    string `query:"date_to"`
	Evaluator string `query:"evaluator"`
	Evaluated string `query:"evaluated"`
	RouteID   *int   `query:"route_id"`
	Status    string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.DateFrom == "" && qf.DateTo == "" && qf.Evaluator == "" && qf.Evaluated == "" &&
		qf.RouteID == nil && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.DateFrom = core.CleanString(qf.DateFrom)
	qf.DateTo = core.CleanString(qf.DateTo)
	qf.Evaluator = core.CleanString(qf.Evaluator, true /* lower */)
	qf.Evaluated = core.CleanString(qf.Evaluated, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

// Match reports whether the evaluation satisfies every set filter field.
func (qf *QueryFilter) Match(ev Evaluation) bool {
	if qf.DateFrom != "" && ev.DateRef < qf.DateFrom {
		return false
	}
	if qf.DateTo != "" && ev.DateRef > qf.DateTo {
		return false
	}
	if qf.Evaluator != "" && ev.Evaluator != qf.Evaluator {
		return false
	}
	if qf.Evaluated != "" && ev.Evaluated != qf.Evaluated {
		return false
	}
	if qf.RouteID != nil && (ev.RouteID == nil || *ev.RouteID != *qf.RouteID) {
		return false
	}
	if qf.Status != "" && ev.Status != qf.Status {
		return false
	}
	return true
}
