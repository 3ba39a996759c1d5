package testutil

import (
	"net/mail"
	"testing"
	"time"

	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/evaluation"
	"github.com/tmbraz/rotacheck/core/question"
	"github.com/tmbraz/rotacheck/core/user"
	inmemdb "github.com/tmbraz/rotacheck/storage/database/inmem"
)

// NewConfig returns a self-contained test configuration.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:     false,
		TestMode:  true,
		Env:       "TEST",
		Build:     "test",
		AppName:   "RotaCheck",
		SecretKey: []byte("test-secret-key"),

		Offline: true,
		DataDir: "",

		TimeZone:                  "America/Sao_Paulo",
		FrontendBaseURL:           "http://localhost:3000",
		DefaultFromEmail:          mail.Address{Address: "noreply@localhost"},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,

		Server: core.ServerConfig{
			Host:                      "localhost",
			Port:                      "8080",
			AllowedOrigins:            []string{"*"},
			RequestTimeout:            25 * time.Second,
			ShutdownTimeout:           5 * time.Second,
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

// OpenDB opens a fresh JSON-backed store under a test temp dir.
func OpenDB(t *testing.T) *inmemdb.DB {
	t.Helper()
	db, err := inmemdb.Open(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateQuestion(
	t *testing.T,
	repo question.Repository,
	text string,
	order float64,
	goodWhenYes bool,
	requireReasonWhen string,
) question.Question {
	t.Helper()

	q, err := repo.CreateQuestion(question.Question{
		Text:              text,
		Order:             order,
		GoodWhenYes:       goodWhenYes,
		RequireReasonWhen: requireReasonWhen,
	})
	if err != nil {
		t.Fatalf("CreateQuestion() failed: %v", err)
	}
	return q
}

func CreateEvaluation(
	t *testing.T,
	repo evaluation.Repository,
	id, dateRef, evaluator, evaluated string,
	answers []evaluation.Answer,
	score float64,
	status string,
) evaluation.Evaluation {
	t.Helper()

	ev, err := repo.CreateEvaluation(evaluation.Evaluation{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		DateRef:   dateRef,
		Evaluator: evaluator,
		Evaluated: evaluated,
		Answers:   answers,
		Score:     score,
		Status:    status,
	})
	if err != nil {
		t.Fatalf("CreateEvaluation() failed: %v", err)
	}
	return ev
}
