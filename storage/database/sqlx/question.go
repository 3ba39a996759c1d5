package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/question"
)

type questionRepository struct {
	db *sqlx.DB
}

var _ question.Repository = (*questionRepository)(nil) // interface compliance check

func NewQuestionRepository(db *sqlx.DB) question.Repository {
	return &questionRepository{db: db}
}

func (repo *questionRepository) CreateQuestion(q question.Question) (question.Question, error) {
	err := repo.db.QueryRow(
		`INSERT INTO questions (text, sort_order, good_when_yes, require_reason_when)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		q.Text, q.Order, q.GoodWhenYes, q.RequireReasonWhen,
	).Scan(&q.ID)
	return q, errors.Wrap(err, "creating question")
}

func (repo *questionRepository) QueryAllQuestions() ([]question.Question, error) {
	var questions []question.Question
	err := repo.db.Select(&questions, "SELECT * FROM questions ORDER BY sort_order, id")
	return questions, errors.Wrap(err, "querying questions")
}

func (repo *questionRepository) GetQuestionByID(id int) (question.Question, error) {
	var q question.Question
	err := repo.db.Get(&q, "SELECT * FROM questions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return question.Question{}, question.ErrNotFound
	}
	return q, errors.Wrap(err, "getting question")
}

func (repo *questionRepository) UpdateQuestion(q question.Question) (question.Question, error) {
	res := question.Question{}
	err := repo.db.Get(&res,
		`UPDATE questions SET text = $1, sort_order = $2, good_when_yes = $3, require_reason_when = $4
		 WHERE id = $5 RETURNING *`,
		q.Text, q.Order, q.GoodWhenYes, q.RequireReasonWhen, q.ID,
	)
	if err == sql.ErrNoRows {
		return question.Question{}, question.ErrNotFound
	}
	return res, errors.Wrap(err, "updating question")
}

func (repo *questionRepository) DeleteQuestionsByID(ids ...int) error {
	_, err := repo.db.Exec("DELETE FROM questions WHERE id = ANY($1)", pq.Array(ids))
	return errors.Wrap(err, "deleting questions")
}
