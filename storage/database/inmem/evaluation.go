package inmemdb

import (
	"sort"

	"github.com/tmbraz/rotacheck/core/evaluation"
)

type evaluationRepository struct {
	db *DB
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *DB) evaluation.Repository {
	return &evaluationRepository{db: db}
}

func (repo *evaluationRepository) query() []evaluation.Evaluation {
	evs := make([]evaluation.Evaluation, 0, len(repo.db.evaluation.table))
	for _, ev := range repo.db.evaluation.table {
		evs = append(evs, *ev)
	}
	// newest first, stable for equal timestamps
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].CreatedAt.After(evs[j].CreatedAt) })
	return evs
}

func (repo *evaluationRepository) persist() {
	repo.db.saveKey(keyEvaluations, repo.query())
}

func (repo *evaluationRepository) CreateEvaluation(ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.db.evaluation.Lock()
	defer repo.db.evaluation.Unlock()

	repo.db.evaluation.table[ev.ID] = &ev
	repo.persist()
	return ev, nil
}

func (repo *evaluationRepository) QueryAllEvaluations() ([]evaluation.Evaluation, error) {
	repo.db.evaluation.RLock()
	defer repo.db.evaluation.RUnlock()
	return repo.query(), nil
}

func (repo *evaluationRepository) GetEvaluationByID(id string) (evaluation.Evaluation, error) {
	repo.db.evaluation.RLock()
	defer repo.db.evaluation.RUnlock()

	if ev, ok := repo.db.evaluation.table[id]; ok {
		return *ev, nil
	}
	return evaluation.Evaluation{}, evaluation.ErrNotFound
}

func (repo *evaluationRepository) FilterEvaluations(filter evaluation.QueryFilter) ([]evaluation.Evaluation, error) {
	repo.db.evaluation.RLock()
	defer repo.db.evaluation.RUnlock()

	var evs []evaluation.Evaluation
	for _, ev := range repo.query() {
		if filter.Match(ev) {
			evs = append(evs, ev)
		}
	}
	return evs, nil
}

func (repo *evaluationRepository) UpdateEvaluationStatus(id, status string) (evaluation.Evaluation, error) {
	repo.db.evaluation.Lock()
	defer repo.db.evaluation.Unlock()

	ev, ok := repo.db.evaluation.table[id]
	if !ok {
		return evaluation.Evaluation{}, evaluation.ErrNotFound
	}
	ev.Status = status
	repo.persist()
	return *ev, nil
}

func (repo *evaluationRepository) DeleteEvaluationsByID(ids ...string) error {
	repo.db.evaluation.Lock()
	defer repo.db.evaluation.Unlock()
	for _, id := range ids {
		delete(repo.db.evaluation.table, id)
	}
	repo.persist()
	return nil
}
