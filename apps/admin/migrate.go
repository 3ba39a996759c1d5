package main

import (
	"errors"

	"github.com/tmbraz/rotacheck/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate() error {
	if cli.db == nil {
		return errors.New("migrate requires a database (unset OFFLINE)")
	}
	return migrateFunc(cli.db)
}
