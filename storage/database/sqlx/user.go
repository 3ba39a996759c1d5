package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core/user"
)

const userColumns = "id, name, username, email, cpf, cargo, is_active, roles, password_hash, created_at, updated_at, last_login"

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (user.User, error) {
	var usr user.User
	err := row.Scan(
		&usr.ID, &usr.Name, &usr.Username, &usr.Email, &usr.CPF, &usr.Cargo,
		&usr.IsActive, pq.Array(&usr.Roles), &usr.PasswordHash,
		&usr.CreatedAt, &usr.UpdatedAt, &usr.LastLogin,
	)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "scanning user")
}

func (repo *userRepository) getWhere(cond string, args ...interface{}) (user.User, error) {
	q := fmt.Sprintf("SELECT %s FROM users WHERE %s", userColumns, cond)
	return scanUser(repo.db.QueryRow(q, args...))
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	excluded := make(map[int]bool, len(excludedUsers))
	for _, u := range excludedUsers {
		excluded[u.ID] = true
	}

	rows, err := repo.db.Query(
		"SELECT id, username, email FROM users WHERE username = $1 OR (email <> '' AND email = $2)",
		username, email,
	)
	if err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int
		var uname, mail string
		if err = rows.Scan(&id, &uname, &mail); err != nil {
			return errors.Wrap(err, "checking uniqueness")
		}
		if excluded[id] {
			continue
		}
		if uname == username {
			return user.ErrUsernameExists
		}
		if email != "" && mail == email {
			return user.ErrEmailExists
		}
	}
	return errors.Wrap(rows.Err(), "checking uniqueness")
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	err := repo.db.QueryRow(
		`INSERT INTO users (name, username, email, cpf, cargo, is_active, roles, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		usr.Name, usr.Username, usr.Email, usr.CPF, usr.Cargo, usr.IsActive,
		pq.Array(usr.Roles), usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	).Scan(&usr.ID)
	return usr, errors.Wrap(err, "creating user")
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	return repo.queryWhere("TRUE")
}

func (repo *userRepository) queryWhere(cond string, args ...interface{}) ([]user.User, error) {
	q := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY id", userColumns, cond)
	rows, err := repo.db.Query(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	defer func() { _ = rows.Close() }()

	var users []user.User
	for rows.Next() {
		usr, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, usr)
	}
	return users, errors.Wrap(rows.Err(), "querying users")
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	return repo.getWhere("id = $1", id)
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	return repo.getWhere("username = $1", username)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.getWhere("email <> '' AND email = $1", email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	return repo.getWhere("username = $1 OR (email <> '' AND email = $1)", username)
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	var conds []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR username ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if len(filter.Roles) > 0 {
		var roleConds []string
		for _, role := range filter.Roles {
			args = append(args, role+"%")
			roleConds = append(roleConds, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(roles) AS r WHERE r LIKE $%d)", len(args)))
		}
		conds = append(conds, "("+strings.Join(roleConds, " OR ")+")")
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if !filter.CreatedFrom.IsZero() {
		args = append(args, filter.CreatedFrom.UTC())
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !filter.CreatedTo.IsZero() {
		args = append(args, filter.CreatedTo.UTC())
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if conds == nil {
		conds = append(conds, "TRUE")
	}
	return repo.queryWhere(strings.Join(conds, " AND "), args...)
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	var sets []string
	var args []interface{}
	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	// only save set fields
	if usr.Name != "" {
		set("name", usr.Name)
	}
	if usr.Username != "" {
		set("username", usr.Username)
	}
	if usr.Email != "" {
		set("email", usr.Email)
	}
	if usr.CPF != "" {
		set("cpf", usr.CPF)
	}
	if usr.Cargo != "" {
		set("cargo", usr.Cargo)
	}
	if usr.Roles != nil {
		set("roles", pq.Array(usr.Roles))
	}
	if usr.PasswordHash != nil {
		set("password_hash", usr.PasswordHash)
	}
	if isActive != nil {
		set("is_active", *isActive)
	}
	if !usr.LastLogin.IsZero() {
		set("last_login", usr.LastLogin)
	}
	if !usr.UpdatedAt.IsZero() {
		set("updated_at", usr.UpdatedAt)
	}
	if sets == nil {
		return repo.GetUserByID(usr.ID)
	}

	args = append(args, usr.ID)
	q := fmt.Sprintf(
		"UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns,
	)
	return scanUser(repo.db.QueryRow(q, args...))
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	_, err := repo.db.Exec("DELETE FROM users WHERE id = ANY($1)", pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}
