package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/evaluation"
)

const evaluationColumns = "id, created_at, date_ref, evaluator, evaluated, route_id, answers, score, status"

type evaluationRepository struct {
	db *sqlx.DB
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *sqlx.DB) evaluation.Repository {
	return &evaluationRepository{db: db}
}

func scanEvaluation(row rowScanner) (evaluation.Evaluation, error) {
	var ev evaluation.Evaluation
	var routeID sql.NullInt64
	var answers []byte
	err := row.Scan(
		&ev.ID, &ev.CreatedAt, &ev.DateRef, &ev.Evaluator, &ev.Evaluated,
		&routeID, &answers, &ev.Score, &ev.Status,
	)
	if err == sql.ErrNoRows {
		return evaluation.Evaluation{}, evaluation.ErrNotFound
	}
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "scanning evaluation")
	}
	if routeID.Valid {
		id := int(routeID.Int64)
		ev.RouteID = &id
	}
	if err = json.Unmarshal(answers, &ev.Answers); err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "decoding answers")
	}
	return ev, nil
}

func (repo *evaluationRepository) CreateEvaluation(ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	answers, err := json.Marshal(ev.Answers)
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "encoding answers")
	}

	_, err = repo.db.Exec(
		`INSERT INTO evaluations (id, created_at, date_ref, evaluator, evaluated, route_id, answers, score, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ev.ID, ev.CreatedAt, ev.DateRef, ev.Evaluator, ev.Evaluated, ev.RouteID, answers, ev.Score, ev.Status,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return evaluation.Evaluation{}, evaluation.ErrDuplicate
	}
	return ev, errors.Wrap(err, "creating evaluation")
}

func (repo *evaluationRepository) queryWhere(cond string, args ...interface{}) ([]evaluation.Evaluation, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM evaluations WHERE %s ORDER BY created_at DESC", evaluationColumns, cond)
	rows, err := repo.db.Query(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying evaluations")
	}
	defer func() { _ = rows.Close() }()

	var evs []evaluation.Evaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}
	return evs, errors.Wrap(rows.Err(), "querying evaluations")
}

func (repo *evaluationRepository) QueryAllEvaluations() ([]evaluation.Evaluation, error) {
	return repo.queryWhere("TRUE")
}

func (repo *evaluationRepository) GetEvaluationByID(id string) (evaluation.Evaluation, error) {
	q := fmt.Sprintf("SELECT %s FROM evaluations WHERE id = $1", evaluationColumns)
	return scanEvaluation(repo.db.QueryRow(q, id))
}

func (repo *evaluationRepository) FilterEvaluations(filter evaluation.QueryFilter) ([]evaluation.Evaluation, error) {
	var conds []string
	var args []interface{}
	cond := func(expr string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter.DateFrom != "" {
		cond("date_ref >= $%d", filter.DateFrom)
	}
	if filter.DateTo != "" {
		cond("date_ref <= $%d", filter.DateTo)
	}
	if filter.Evaluator != "" {
		cond("evaluator = $%d", filter.Evaluator)
	}
	if filter.Evaluated != "" {
		cond("evaluated = $%d", filter.Evaluated)
	}
	if filter.RouteID != nil {
		cond("route_id = $%d", *filter.RouteID)
	}
	if filter.Status != "" {
		cond("status = $%d", filter.Status)
	}

	if conds == nil {
		conds = append(conds, "TRUE")
	}
	return repo.queryWhere(strings.Join(conds, " AND "), args...)
}

func (repo *evaluationRepository) UpdateEvaluationStatus(id, status string) (evaluation.Evaluation, error) {
	q := fmt.Sprintf(
		"UPDATE evaluations SET status = $1 WHERE id = $2 RETURNING %s", evaluationColumns)
	return scanEvaluation(repo.db.QueryRow(q, status, id))
}

func (repo *evaluationRepository) DeleteEvaluationsByID(ids ...string) error {
	_, err := repo.db.Exec("DELETE FROM evaluations WHERE id = ANY($1::uuid[])", pq.Array(ids))
	return errors.Wrap(err, "deleting evaluations")
}
