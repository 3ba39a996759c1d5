package inmemdb

import (
	"sort"

	"github.com/tmbraz/rotacheck/core/team"
)

type teamRepository struct {
	db *DB
}

var _ team.Repository = (*teamRepository)(nil) // interface compliance check

func NewTeamRepository(db *DB) team.Repository {
	return &teamRepository{db: db}
}

func (repo *teamRepository) query() []team.Team {
	teams := make([]team.Team, 0, len(repo.db.team.table))
	for _, t := range repo.db.team.table {
		teams = append(teams, *t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams
}

func (repo *teamRepository) persist() {
	repo.db.saveKey(keyTeams, repo.query())
}

func (repo *teamRepository) CreateTeam(t team.Team) (team.Team, error) {
	repo.db.team.Lock()
	defer repo.db.team.Unlock()

	repo.db.team.seq++
	t.ID = repo.db.team.seq
	repo.db.team.table[t.ID] = &t
	repo.persist()
	return t, nil
}

func (repo *teamRepository) QueryAllTeams() ([]team.Team, error) {
	repo.db.team.RLock()
	defer repo.db.team.RUnlock()
	return repo.query(), nil
}

func (repo *teamRepository) GetTeamByID(id int) (team.Team, error) {
	repo.db.team.RLock()
	defer repo.db.team.RUnlock()

	if t, ok := repo.db.team.table[id]; ok {
		return *t, nil
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) UpdateTeam(t team.Team) (team.Team, error) {
	repo.db.team.Lock()
	defer repo.db.team.Unlock()

	orig, ok := repo.db.team.table[t.ID]
	if !ok {
		return team.Team{}, team.ErrNotFound
	}
	orig.Driver = t.Driver
	orig.Assistants = t.Assistants
	orig.UpdatedAt = t.UpdatedAt

	repo.db.team.table[t.ID] = orig
	repo.persist()
	return *orig, nil
}

func (repo *teamRepository) DeleteTeamsByID(ids ...int) error {
	repo.db.team.Lock()
	defer repo.db.team.Unlock()
	for _, id := range ids {
		delete(repo.db.team.table, id)
	}
	repo.persist()
	return nil
}
