package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/question"
	"github.com/tmbraz/rotacheck/core/user"
	emailsvc "github.com/tmbraz/rotacheck/services/email"
	"github.com/tmbraz/rotacheck/storage/database"
	inmemdb "github.com/tmbraz/rotacheck/storage/database/inmem"
	sqlxrepos "github.com/tmbraz/rotacheck/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	var db *sql.DB
	var usrRepo user.Repository
	var questionRepo question.Repository
	if conf.Offline {
		local, err := inmemdb.Open(conf.DataDir)
		errAndDie(err)
		usrRepo = inmemdb.NewUserRepository(local)
		questionRepo = inmemdb.NewQuestionRepository(local)
	} else {
		db, err = database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(db.Ping())

		sdb := sqlx.NewDb(db, "postgres")
		usrRepo = sqlxrepos.NewUserRepository(sdb)
		questionRepo = sqlxrepos.NewQuestionRepository(sdb)
	}

	// start CLI
	cli := commandLine{
		db:          db,
		usrSvc:      user.NewService(conf, usrRepo, emailsvc.NewConsoleService(conf)),
		questionSvc: question.NewService(questionRepo),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
