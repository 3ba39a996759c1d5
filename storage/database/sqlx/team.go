package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/team"
)

const teamColumns = "id, driver, assistants, created_at, updated_at"

type teamRepository struct {
	db *sqlx.DB
}

var _ team.Repository = (*teamRepository)(nil) // interface compliance check

func NewTeamRepository(db *sqlx.DB) team.Repository {
	return &teamRepository{db: db}
}

func scanTeam(row rowScanner) (team.Team, error) {
	var t team.Team
	err := row.Scan(&t.ID, &t.Driver, pq.Array(&t.Assistants), &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return team.Team{}, team.ErrNotFound
	}
	return t, errors.Wrap(err, "scanning team")
}

func (repo *teamRepository) CreateTeam(t team.Team) (team.Team, error) {
	err := repo.db.QueryRow(
		`INSERT INTO teams (driver, assistants, created_at, updated_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		t.Driver, pq.Array(t.Assistants), t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	return t, errors.Wrap(err, "creating team")
}

func (repo *teamRepository) QueryAllTeams() ([]team.Team, error) {
	q := fmt.Sprintf("SELECT %s FROM teams ORDER BY id", teamColumns)
	rows, err := repo.db.Query(q)
	if err != nil {
		return nil, errors.Wrap(err, "querying teams")
	}
	defer func() { _ = rows.Close() }()

	var teams []team.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, errors.Wrap(rows.Err(), "querying teams")
}

func (repo *teamRepository) GetTeamByID(id int) (team.Team, error) {
	q := fmt.Sprintf("SELECT %s FROM teams WHERE id = $1", teamColumns)
	return scanTeam(repo.db.QueryRow(q, id))
}

func (repo *teamRepository) UpdateTeam(t team.Team) (team.Team, error) {
	q := fmt.Sprintf(
		`UPDATE teams SET driver = $1, assistants = $2, updated_at = $3
		 WHERE id = $4 RETURNING %s`, teamColumns)
	return scanTeam(repo.db.QueryRow(q, t.Driver, pq.Array(t.Assistants), t.UpdatedAt, t.ID))
}

func (repo *teamRepository) DeleteTeamsByID(ids ...int) error {
	_, err := repo.db.Exec("DELETE FROM teams WHERE id = ANY($1)", pq.Array(ids))
	return errors.Wrap(err, "deleting teams")
}
