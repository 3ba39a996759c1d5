package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	echoapi "github.com/tmbraz/rotacheck/apps/api/echo"
	"github.com/tmbraz/rotacheck/core/evaluation"
	"github.com/tmbraz/rotacheck/core/question"
	"github.com/tmbraz/rotacheck/core/route"
	"github.com/tmbraz/rotacheck/core/user"
	testutil "github.com/tmbraz/rotacheck/tests"
)

func seedCatalog(t *testing.T) []question.Question {
	t.Helper()
	return []question.Question{
		testutil.CreateQuestion(t, questionRepo, "Chegou no horario?", 1, true, question.ReasonWhenNo),
		testutil.CreateQuestion(t, questionRepo, "Usou os EPIs?", 2, true, question.ReasonWhenNever),
		testutil.CreateQuestion(t, questionRepo, "Houve reclamacao de cliente?", 3, false, question.ReasonWhenYes),
	}
}

func todayRef() string {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	return time.Now().In(loc).Format("2006-01-02")
}

func Test_evaluationApi_submit(t *testing.T) {
	app := setup(t)
	catalog := seedCatalog(t)

	gestor := testutil.CreateUser(
		t, usrRepo, "Gestor", "11900002222", "gestor@test.br", "", []string{user.RoleGestor}, true)
	motorista := testutil.CreateUser(
		t, usrRepo, "Joao Motorista", "11987654321", "joao@test.br", "", []string{user.RoleColaborador}, true)

	gestorToken := getToken(t, gestor)

	goodAnswers := []evaluation.Answer{
		{QuestionID: catalog[0].ID, Value: true},
		{QuestionID: catalog[1].ID, Value: true},
		{QuestionID: catalog[2].ID, Value: false},
	}
	payload := func(evaluated string, answers []evaluation.Answer) []byte {
		return marchallObj(t, evaluation.NewEvaluation{Evaluated: evaluated, Answers: answers})
	}

	tests := []httpTest{
		{
			name: "Auth required", body: payload(motorista.Username, goodAnswers),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Evaluated required", token: gestorToken, body: payload("", goodAnswers),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"evaluated": "this field is required"}),
		},
		{
			name: "All answers required", token: gestorToken, body: payload(motorista.Username, nil),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				fmt.Sprintf("question_%d", catalog[0].ID): "an answer is required",
				fmt.Sprintf("question_%d", catalog[1].ID): "an answer is required",
				fmt.Sprintf("question_%d", catalog[2].ID): "an answer is required",
			}),
		},
		{
			name: "Reason required when answer is bad", token: gestorToken,
			body: payload(motorista.Username, []evaluation.Answer{
				{QuestionID: catalog[0].ID, Value: false}, // late, no reason
				{QuestionID: catalog[1].ID, Value: true},
				{QuestionID: catalog[2].ID, Value: false},
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				fmt.Sprintf("question_%d", catalog[0].ID): "a reason is required for this answer",
			}),
		},
		{
			name: "Duplicate answer rejected", token: gestorToken,
			body: payload(motorista.Username, []evaluation.Answer{
				{QuestionID: catalog[0].ID, Value: true},
				{QuestionID: catalog[0].ID, Value: true}, // repeated question
				{QuestionID: catalog[1].ID, Value: true},
				{QuestionID: catalog[2].ID, Value: false},
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				fmt.Sprintf("question_%d", catalog[0].ID): "duplicate answer for this question",
			}),
		},
		{name: "Submitted", token: gestorToken, body: payload(motorista.Username, goodAnswers), wantCode: http.StatusCreated},
		{
			name: "Duplicate same day", token: gestorToken, body: payload(motorista.Username, goodAnswers),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "this teammate has already been evaluated today"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/evaluations", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			var ev evaluation.Evaluation
			if err := json.Unmarshal(rec.Body.Bytes(), &ev); err != nil {
				t.Fatalf("unmarshalling Evaluation: %v", err)
			}
			if ev.Score != 1 {
				t.Errorf("failed! score = %v; want 1", ev.Score)
			}
			if ev.Status != evaluation.StatusSynced {
				t.Errorf("failed! status = %v; want %v", ev.Status, evaluation.StatusSynced)
			}
			if ev.Evaluator != gestor.Username {
				t.Errorf("failed! evaluator = %v; want %v", ev.Evaluator, gestor.Username)
			}
			if ev.DateRef != todayRef() {
				t.Errorf("failed! dateRef = %v; want %v", ev.DateRef, todayRef())
			}
		})
	}
}

func Test_evaluationApi_submitScoring(t *testing.T) {
	app := setup(t)
	catalog := seedCatalog(t)

	gestor := testutil.CreateUser(
		t, usrRepo, "Gestor", "11900002222", "gestor@test.br", "", []string{user.RoleGestor}, true)

	// one good answer out of three: 1/3 rounds to 0.33
	body := marchallObj(t, evaluation.NewEvaluation{
		Evaluated: "11987654321",
		Answers: []evaluation.Answer{
			{QuestionID: catalog[0].ID, Value: false, Reason: "transito"},
			{QuestionID: catalog[1].ID, Value: true},
			{QuestionID: catalog[2].ID, Value: true, Reason: "entrega atrasada"},
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/evaluations", getToken(t, gestor), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	var ev evaluation.Evaluation
	if err := json.Unmarshal(rec.Body.Bytes(), &ev); err != nil {
		t.Fatalf("unmarshalling Evaluation: %v", err)
	}
	if want := 0.33; ev.Score != want {
		t.Errorf("failed! score = %v; want %v", ev.Score, want)
	}
}

func Test_evaluationApi_submitWithRoute(t *testing.T) {
	app := setup(t)
	catalog := seedCatalog(t)

	gestor := testutil.CreateUser(
		t, usrRepo, "Gestor", "11900002222", "gestor@test.br", "", []string{user.RoleGestor}, true)
	gestorToken := getToken(t, gestor)

	rt, err := routeRepo.CreateRoute(route.Route{
		Cities: []string{"Campinas", "Jundiaí"}, StartDate: time.Now().UTC(), Status: route.StatusActive,
	})
	if err != nil {
		t.Fatalf("CreateRoute() failed: %v", err)
	}

	body := marchallObj(t, evaluation.NewEvaluation{
		Evaluated: "11987654321",
		RouteID:   &rt.ID,
		Answers: []evaluation.Answer{
			{QuestionID: catalog[0].ID, Value: true},
			{QuestionID: catalog[1].ID, Value: true},
			{QuestionID: catalog[2].ID, Value: false},
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/evaluations", gestorToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	var ev evaluation.Evaluation
	if err := json.Unmarshal(rec.Body.Bytes(), &ev); err != nil {
		t.Fatalf("unmarshalling Evaluation: %v", err)
	}
	if ev.RouteID == nil || *ev.RouteID != rt.ID {
		t.Fatalf("failed! routeID = %v; want %v", ev.RouteID, rt.ID)
	}

	// filterable by route
	req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/evaluations?route_id=%d", rt.ID), gestorToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, ev)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/evaluations?route_id=999", gestorToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, rec)
}

func Test_evaluationApi_query(t *testing.T) {
	app := setup(t)

	gestor := testutil.CreateUser(
		t, usrRepo, "Gestor", "11900002222", "gestor@test.br", "", []string{user.RoleGestor}, true)
	motorista := testutil.CreateUser(
		t, usrRepo, "Joao Motorista", "11987654321", "joao@test.br", "", []string{user.RoleColaborador}, true)

	ev1 := testutil.CreateEvaluation(
		t, evalRepo, uuid.New().String(), "2026-08-30", gestor.Username, motorista.Username, nil, 0.85, evaluation.StatusSynced)
	ev2 := testutil.CreateEvaluation(
		t, evalRepo, uuid.New().String(), "2026-08-31", gestor.Username, motorista.Username, nil, 0.4, evaluation.StatusSynced)

	empty := []byte("[]")

	tests := []httpTest{
		{name: "Auth required", path: "/v1/evaluations", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Gestor or admin required", path: "/v1/evaluations", token: getToken(t, motorista),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "Get all", path: "/v1/evaluations", token: getToken(t, gestor), wantData: marchallList(t, ev2, ev1)},
		{
			name: "date range", path: "/v1/evaluations?date_from=2026-08-31&date_to=2026-08-31",
			token: getToken(t, gestor), wantData: marchallList(t, ev2),
		},
		{name: "evaluator (unknown)", path: "/v1/evaluations?evaluator=999", token: getToken(t, gestor), wantData: empty},
		{
			name: "evaluated", path: "/v1/evaluations?evaluated=" + motorista.Username,
			token: getToken(t, gestor), wantData: marchallList(t, ev2, ev1),
		},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_evaluationApi_retrieve(t *testing.T) {
	app := setup(t)

	gestor := testutil.CreateUser(
		t, usrRepo, "Gestor", "11900002222", "gestor@test.br", "", []string{user.RoleGestor}, true)
	motorista := testutil.CreateUser(
		t, usrRepo, "Joao Motorista", "11987654321", "joao@test.br", "", []string{user.RoleColaborador}, true)
	outro := testutil.CreateUser(
		t, usrRepo, "Outro", "11933334444", "", "", []string{user.RoleColaborador}, true)

	ev := testutil.CreateEvaluation(
		t, evalRepo, uuid.New().String(), "2026-08-31", gestor.Username, motorista.Username, nil, 0.85, evaluation.StatusSynced)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Gestor can read", token: getToken(t, gestor), wantCode: http.StatusOK, wantData: marchallObj(t, ev)},
		{name: "Evaluated can read", token: getToken(t, motorista), wantCode: http.StatusOK, wantData: marchallObj(t, ev)},
		{
			name: "Unrelated colaborador cannot read", token: getToken(t, outro),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/evaluations/"+ev.ID, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_evaluationApi_exportCSV(t *testing.T) {
	app := setup(t)

	gestor := testutil.CreateUser(
		t, usrRepo, "Gestor", "11900002222", "gestor@test.br", "", []string{user.RoleGestor}, true)

	ev := testutil.CreateEvaluation(
		t, evalRepo, uuid.New().String(), "2026-08-31", gestor.Username, "11987654321", nil, 0.85, evaluation.StatusSynced)

	req, rec := newAuthRequest(http.MethodGet, "/v1/evaluations/export.csv", getToken(t, gestor))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("failed! content-type = %v; want text/csv", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("failed! lines = %v; want 2", len(lines))
	}
	if want := "id,date_ref,evaluator,evaluated,score,status,created_at"; lines[0] != want {
		t.Errorf("failed! header = %q; want %q", lines[0], want)
	}
	if !strings.Contains(lines[1], ev.ID) || !strings.Contains(lines[1], "0.85") {
		t.Errorf("failed! row = %q", lines[1])
	}
}

func Test_evaluationApi_sync(t *testing.T) {
	app := setup(t)

	gestor := testutil.CreateUser(
		t, usrRepo, "Gestor", "11900002222", "gestor@test.br", "", []string{user.RoleGestor}, true)

	// spooled offline, never reached the primary store
	queued := testutil.CreateEvaluation(
		t, localRepo, uuid.New().String(), "2026-08-31", gestor.Username, "11987654321", nil, 0.85, evaluation.StatusQueued)

	req, rec := newAuthRequest(http.MethodPost, "/v1/evaluations/sync", getToken(t, gestor))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resp echoapi.SyncResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling SyncResponse: %v", err)
	}
	if resp.Synced != 1 {
		t.Errorf("failed! synced = %v; want 1", resp.Synced)
	}

	pushed, err := evalRepo.GetEvaluationByID(queued.ID)
	if err != nil {
		t.Fatalf("GetEvaluationByID() failed: %v", err)
	}
	if pushed.Status != evaluation.StatusSynced {
		t.Errorf("failed! primary status = %v; want %v", pushed.Status, evaluation.StatusSynced)
	}

	spooled, err := localRepo.GetEvaluationByID(queued.ID)
	if err != nil {
		t.Fatalf("GetEvaluationByID() failed: %v", err)
	}
	if spooled.Status != evaluation.StatusSynced {
		t.Errorf("failed! local status = %v; want %v", spooled.Status, evaluation.StatusSynced)
	}
}
