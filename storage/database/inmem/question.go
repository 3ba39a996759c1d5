package inmemdb

import (
	"sort"

	"github.com/tmbraz/rotacheck/core/question"
)

type questionRepository struct {
	db *DB
}

var _ question.Repository = (*questionRepository)(nil) // interface compliance check

func NewQuestionRepository(db *DB) question.Repository {
	return &questionRepository{db: db}
}

func (repo *questionRepository) query() []question.Question {
	qs := make([]question.Question, 0, len(repo.db.question.table))
	for _, q := range repo.db.question.table {
		qs = append(qs, *q)
	}
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	return qs
}

func (repo *questionRepository) persist() {
	repo.db.saveKey(keyQuestions, repo.query())
}

func (repo *questionRepository) CreateQuestion(q question.Question) (question.Question, error) {
	repo.db.question.Lock()
	defer repo.db.question.Unlock()

	repo.db.question.seq++
	q.ID = repo.db.question.seq
	repo.db.question.table[q.ID] = &q
	repo.persist()
	return q, nil
}

func (repo *questionRepository) QueryAllQuestions() ([]question.Question, error) {
	repo.db.question.RLock()
	defer repo.db.question.RUnlock()
	return repo.query(), nil
}

func (repo *questionRepository) GetQuestionByID(id int) (question.Question, error) {
	repo.db.question.RLock()
	defer repo.db.question.RUnlock()

	if q, ok := repo.db.question.table[id]; ok {
		return *q, nil
	}
	return question.Question{}, question.ErrNotFound
}

func (repo *questionRepository) UpdateQuestion(q question.Question) (question.Question, error) {
	repo.db.question.Lock()
	defer repo.db.question.Unlock()

	if _, ok := repo.db.question.table[q.ID]; !ok {
		return question.Question{}, question.ErrNotFound
	}
	repo.db.question.table[q.ID] = &q
	repo.persist()
	return q, nil
}

func (repo *questionRepository) DeleteQuestionsByID(ids ...int) error {
	repo.db.question.Lock()
	defer repo.db.question.Unlock()
	for _, id := range ids {
		delete(repo.db.question.table, id)
	}
	repo.persist()
	return nil
}
