package inmemdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/evaluation"
	"github.com/tmbraz/rotacheck/core/question"
	"github.com/tmbraz/rotacheck/core/route"
	"github.com/tmbraz/rotacheck/core/team"
	"github.com/tmbraz/rotacheck/core/user"
	"github.com/tmbraz/rotacheck/core/vehicle"
)

// Fixed snapshot keys, one JSON document per entity.
const (
	keyUsers       = "users.json"
	keyQuestions   = "questions.json"
	keyEvaluations = "evaluations.json"
	keyTeams       = "teams.json"
	keyRoutes      = "routes.json"
	keyVehicles    = "vehicles.json"
)

type (
	// DB is the local keyed store: in-memory map tables, optionally snapshot
	// to per-entity JSON files after every write. It backs offline/dev runs
	// and the evaluation spool.
	DB struct {
		dir string // "" disables persistence

		user       *userTable
		question   *questionTable
		evaluation *evaluationTable
		team       *teamTable
		route      *routeTable
		vehicle    *vehicleTable
	}

	userTable struct {
		sync.RWMutex
		seq   int
		table map[int]*user.User
	}
	questionTable struct {
		sync.RWMutex
		seq   int
		table map[int]*question.Question
	}
	evaluationTable struct {
		sync.RWMutex
		table map[string]*evaluation.Evaluation
	}
	teamTable struct {
		sync.RWMutex
		seq   int
		table map[int]*team.Team
	}
	routeTable struct {
		sync.RWMutex
		seq   int
		table map[int]*route.Route
	}
	vehicleTable struct {
		sync.RWMutex
		seq   int
		table map[int]*vehicle.Vehicle
	}
)

// Open initializes the store, loading existing JSON snapshots from `dir` when
// one is given.
func Open(dir string) (*DB, error) {
	db := &DB{
		dir:        dir,
		user:       &userTable{table: make(map[int]*user.User)},
		question:   &questionTable{table: make(map[int]*question.Question)},
		evaluation: &evaluationTable{table: make(map[string]*evaluation.Evaluation)},
		team:       &teamTable{table: make(map[int]*team.Team)},
		route:      &routeTable{table: make(map[int]*route.Route)},
		vehicle:    &vehicleTable{table: make(map[int]*vehicle.Vehicle)},
	}
	if dir == "" {
		return db, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	if err := db.load(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) load() error {
	var users []user.User
	if err := db.loadKey(keyUsers, &users); err != nil {
		return err
	}
	for i := range users {
		db.user.table[users[i].ID] = &users[i]
		if users[i].ID > db.user.seq {
			db.user.seq = users[i].ID
		}
	}

	var questions []question.Question
	if err := db.loadKey(keyQuestions, &questions); err != nil {
		return err
	}
	for i := range questions {
		db.question.table[questions[i].ID] = &questions[i]
		if questions[i].ID > db.question.seq {
			db.question.seq = questions[i].ID
		}
	}

	var evaluations []evaluation.Evaluation
	if err := db.loadKey(keyEvaluations, &evaluations); err != nil {
		return err
	}
	for i := range evaluations {
		db.evaluation.table[evaluations[i].ID] = &evaluations[i]
	}

	var teams []team.Team
	if err := db.loadKey(keyTeams, &teams); err != nil {
		return err
	}
	for i := range teams {
		db.team.table[teams[i].ID] = &teams[i]
		if teams[i].ID > db.team.seq {
			db.team.seq = teams[i].ID
		}
	}

	var routes []route.Route
	if err := db.loadKey(keyRoutes, &routes); err != nil {
		return err
	}
	for i := range routes {
		db.route.table[routes[i].ID] = &routes[i]
		if routes[i].ID > db.route.seq {
			db.route.seq = routes[i].ID
		}
	}

	var vehicles []vehicle.Vehicle
	if err := db.loadKey(keyVehicles, &vehicles); err != nil {
		return err
	}
	for i := range vehicles {
		db.vehicle.table[vehicles[i].ID] = &vehicles[i]
		if vehicles[i].ID > db.vehicle.seq {
			db.vehicle.seq = vehicles[i].ID
		}
	}
	return nil
}

func (db *DB) loadKey(key string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(db.dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "reading %s", key)
	}
	return errors.Wrapf(json.Unmarshal(data, v), "decoding %s", key)
}

// saveKey snapshots one entity list. Best effort: a failed snapshot does not
// fail the write that triggered it.
func (db *DB) saveKey(key string, v interface{}) {
	if db.dir == "" {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(db.dir, key), data, 0o644)
}
