package evaluation

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/question"
)

// memRepo is a map-backed Repository. Like the postgres store, it rejects a
// second evaluation for the same (evaluator, evaluated, dateRef).
type memRepo struct {
	evs       map[string]Evaluation
	createErr error
}

var _ Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{evs: map[string]Evaluation{}}
}

func (repo *memRepo) CreateEvaluation(ev Evaluation) (Evaluation, error) {
	if repo.createErr != nil {
		return Evaluation{}, repo.createErr
	}
	for _, existing := range repo.evs {
		if existing.Evaluator == ev.Evaluator && existing.Evaluated == ev.Evaluated && existing.DateRef == ev.DateRef {
			return Evaluation{}, ErrDuplicate
		}
	}
	repo.evs[ev.ID] = ev
	return ev, nil
}

func (repo *memRepo) QueryAllEvaluations() ([]Evaluation, error) {
	evs := make([]Evaluation, 0, len(repo.evs))
	for _, ev := range repo.evs {
		evs = append(evs, ev)
	}
	return evs, nil
}

func (repo *memRepo) GetEvaluationByID(id string) (Evaluation, error) {
	if ev, ok := repo.evs[id]; ok {
		return ev, nil
	}
	return Evaluation{}, ErrNotFound
}

func (repo *memRepo) FilterEvaluations(filter QueryFilter) ([]Evaluation, error) {
	var evs []Evaluation
	for _, ev := range repo.evs {
		if filter.Match(ev) {
			evs = append(evs, ev)
		}
	}
	return evs, nil
}

func (repo *memRepo) UpdateEvaluationStatus(id, status string) (Evaluation, error) {
	ev, ok := repo.evs[id]
	if !ok {
		return Evaluation{}, ErrNotFound
	}
	ev.Status = status
	repo.evs[id] = ev
	return ev, nil
}

func (repo *memRepo) DeleteEvaluationsByID(ids ...string) error {
	for _, id := range ids {
		delete(repo.evs, id)
	}
	return nil
}

type catalogRepo struct {
	qs []question.Question
}

var _ question.Repository = (*catalogRepo)(nil)

func (repo *catalogRepo) CreateQuestion(q question.Question) (question.Question, error) { return q, nil }
func (repo *catalogRepo) QueryAllQuestions() ([]question.Question, error)              { return repo.qs, nil }
func (repo *catalogRepo) GetQuestionByID(id int) (question.Question, error) {
	return question.Question{}, question.ErrNotFound
}
func (repo *catalogRepo) UpdateQuestion(q question.Question) (question.Question, error) { return q, nil }
func (repo *catalogRepo) DeleteQuestionsByID(ids ...int) error                          { return nil }

type mailRecorder struct {
	sent []*core.EmailMessage
}

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func testCatalog() []question.Question {
	return []question.Question{
		{ID: 1, Text: "Chegou no horário?", Order: 1, GoodWhenYes: true, RequireReasonWhen: question.ReasonWhenNo},
		{ID: 2, Text: "Houve atraso na rota?", Order: 2, GoodWhenYes: false, RequireReasonWhen: question.ReasonWhenYes},
		{ID: 3, Text: "Usou os EPIs?", Order: 3, GoodWhenYes: true, RequireReasonWhen: question.ReasonWhenNever},
	}
}

func newTestService(primary, local Repository, alertEmail string) (*Service, *mailRecorder) {
	conf := &core.Config{TimeZone: "America/Sao_Paulo", AlertEmail: alertEmail}
	mailSvc := &mailRecorder{}
	questionSvc := question.NewService(&catalogRepo{qs: testCatalog()})
	return NewService(conf, primary, local, questionSvc, mailSvc, nopLogger{}), mailSvc
}

// mockNow pins nowFunc for the duration of the test. 01:30 UTC is still the
// previous calendar day in São Paulo (UTC-3).
func mockNow(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2026, 9, 1, 1, 30, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = time.Now })
	return now
}

func TestService_Submit(t *testing.T) {
	mockNow(t)
	primary, local := newMemRepo(), newMemRepo()
	svc, _ := newTestService(primary, local, "")

	routeID := 7
	ev, err := svc.Submit("11900002222", NewEvaluation{
		Evaluated: "11987654321",
		RouteID:   &routeID,
		Answers: []Answer{
			{QuestionID: 1, Value: true},
			{QuestionID: 2, Value: true, Reason: "trânsito"},
			{QuestionID: 3, Value: true},
		},
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if ev.DateRef != "2026-08-31" {
		t.Errorf("dateRef = %v; want 2026-08-31", ev.DateRef)
	}
	if want := 0.67; ev.Score != want {
		t.Errorf("score = %v; want %v", ev.Score, want)
	}
	if ev.Status != StatusSynced {
		t.Errorf("status = %v; want %v", ev.Status, StatusSynced)
	}
	if ev.RouteID == nil || *ev.RouteID != routeID {
		t.Errorf("routeID = %v; want %d", ev.RouteID, routeID)
	}
	if _, err = primary.GetEvaluationByID(ev.ID); err != nil {
		t.Errorf("evaluation missing from primary store: %v", err)
	}
	if _, err = local.GetEvaluationByID(ev.ID); err != nil {
		t.Errorf("evaluation missing from local spool: %v", err)
	}
}

func TestService_Submit_primaryDown(t *testing.T) {
	mockNow(t)
	primary, local := newMemRepo(), newMemRepo()
	primary.createErr = errors.New("connection refused")
	svc, _ := newTestService(primary, local, "")

	ev, err := svc.Submit("11900002222", NewEvaluation{
		Evaluated: "11987654321",
		Answers:   []Answer{{QuestionID: 1, Value: true}, {QuestionID: 2, Value: false}, {QuestionID: 3, Value: true}},
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if ev.Status != StatusQueued {
		t.Errorf("status = %v; want %v", ev.Status, StatusQueued)
	}
	spooled, err := local.GetEvaluationByID(ev.ID)
	if err != nil {
		t.Fatalf("evaluation missing from local spool: %v", err)
	}
	if spooled.Status != StatusQueued {
		t.Errorf("spooled status = %v; want %v", spooled.Status, StatusQueued)
	}
}

func TestService_Submit_offline(t *testing.T) {
	mockNow(t)
	local := newMemRepo()
	svc, _ := newTestService(nil, local, "")

	ev, err := svc.Submit("11900002222", NewEvaluation{
		Evaluated: "11987654321",
		Answers:   []Answer{{QuestionID: 1, Value: true}, {QuestionID: 2, Value: false}, {QuestionID: 3, Value: true}},
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if ev.Status != StatusQueued {
		t.Errorf("status = %v; want %v", ev.Status, StatusQueued)
	}
}

func TestService_Submit_duplicate(t *testing.T) {
	mockNow(t)
	primary, local := newMemRepo(), newMemRepo()
	svc, _ := newTestService(primary, local, "")

	ne := NewEvaluation{
		Evaluated: "11987654321",
		Answers:   []Answer{{QuestionID: 1, Value: true}, {QuestionID: 2, Value: false}, {QuestionID: 3, Value: true}},
	}
	if _, err := svc.Submit("11900002222", ne); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	_, err := svc.Submit("11900002222", ne)
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("Submit() err = %v; want a ValidationError", err)
	}
	if vErr.Err != ErrDuplicate {
		t.Errorf("Submit() err = %v; want %v", vErr.Err, ErrDuplicate)
	}

	// a different evaluator may still evaluate the same teammate
	if _, err = svc.Submit("11933334444", ne); err != nil {
		t.Errorf("Submit() by another evaluator failed: %v", err)
	}
}

func TestService_Submit_lowScoreAlert(t *testing.T) {
	mockNow(t)
	primary, local := newMemRepo(), newMemRepo()
	svc, mailSvc := newTestService(primary, local, "gestao@rotacheck.br")

	// 1 good of 3 = 0.33, below the alert threshold
	_, err := svc.Submit("11900002222", NewEvaluation{
		Evaluated: "11987654321",
		Answers: []Answer{
			{QuestionID: 1, Value: false, Reason: "trânsito"},
			{QuestionID: 2, Value: true, Reason: "trânsito"},
			{QuestionID: 3, Value: true},
		},
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if len(mailSvc.sent) != 1 {
		t.Fatalf("sent %d alert(s); want 1", len(mailSvc.sent))
	}
	msg := mailSvc.sent[0]
	if got := msg.To[0].Address; got != "gestao@rotacheck.br" {
		t.Errorf("alert sent to %v; want gestao@rotacheck.br", got)
	}

	// a good score stays quiet
	_, err = svc.Submit("11900002222", NewEvaluation{
		Evaluated: "11955556666",
		Answers:   []Answer{{QuestionID: 1, Value: true}, {QuestionID: 2, Value: false}, {QuestionID: 3, Value: true}},
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if len(mailSvc.sent) != 1 {
		t.Errorf("sent %d alert(s); want still 1", len(mailSvc.sent))
	}
}

func TestService_SyncQueued(t *testing.T) {
	now := mockNow(t)
	primary, local := newMemRepo(), newMemRepo()
	svc, _ := newTestService(primary, local, "")

	ev1 := Evaluation{
		ID: "ev-1", CreatedAt: now, DateRef: "2026-08-30",
		Evaluator: "11900002222", Evaluated: "11987654321", Score: 0.67, Status: StatusQueued,
	}
	ev2 := Evaluation{
		ID: "ev-2", CreatedAt: now, DateRef: "2026-08-31",
		Evaluator: "11900002222", Evaluated: "11987654321", Score: 1, Status: StatusQueued,
	}
	for _, ev := range []Evaluation{ev1, ev2} {
		if _, err := local.CreateEvaluation(ev); err != nil {
			t.Fatalf("spooling evaluation: %v", err)
		}
	}
	// ev1 already made it to the primary during an earlier partial sync
	ev1.Status = StatusSynced
	if _, err := primary.CreateEvaluation(ev1); err != nil {
		t.Fatalf("pre-seeding primary: %v", err)
	}

	synced, err := svc.SyncQueued()
	if err != nil {
		t.Fatalf("SyncQueued() failed: %v", err)
	}
	if synced != 2 {
		t.Errorf("SyncQueued() = %v; want 2", synced)
	}

	for _, id := range []string{"ev-1", "ev-2"} {
		pushed, err := primary.GetEvaluationByID(id)
		if err != nil {
			t.Fatalf("evaluation %s missing from primary store: %v", id, err)
		}
		if pushed.Status != StatusSynced {
			t.Errorf("primary %s status = %v; want %v", id, pushed.Status, StatusSynced)
		}
		spooled, err := local.GetEvaluationByID(id)
		if err != nil {
			t.Fatalf("evaluation %s missing from local spool: %v", id, err)
		}
		if spooled.Status != StatusSynced {
			t.Errorf("local %s status = %v; want %v", id, spooled.Status, StatusSynced)
		}
	}

	// nothing left to push
	if synced, err = svc.SyncQueued(); err != nil || synced != 0 {
		t.Errorf("SyncQueued() = (%v, %v); want (0, nil)", synced, err)
	}
}

func TestService_SyncQueued_noPrimary(t *testing.T) {
	svc, _ := newTestService(nil, newMemRepo(), "")
	if _, err := svc.SyncQueued(); errors.Cause(err) != ErrNoPrimary {
		t.Errorf("SyncQueued() err = %v; want %v", err, ErrNoPrimary)
	}
}
