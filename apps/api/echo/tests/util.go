package tests

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/tmbraz/rotacheck/apps/api/echo"
	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/evaluation"
	"github.com/tmbraz/rotacheck/core/question"
	"github.com/tmbraz/rotacheck/core/route"
	"github.com/tmbraz/rotacheck/core/team"
	"github.com/tmbraz/rotacheck/core/user"
	"github.com/tmbraz/rotacheck/core/vehicle"
	emailsvc "github.com/tmbraz/rotacheck/services/email"
	logsvc "github.com/tmbraz/rotacheck/services/logger"
	inmemdb "github.com/tmbraz/rotacheck/storage/database/inmem"
	testutil "github.com/tmbraz/rotacheck/tests"
)

var (
	conf *core.Config

	usrRepo      user.Repository
	questionRepo question.Repository
	evalRepo     evaluation.Repository // primary store
	localRepo    evaluation.Repository // offline spool
	teamRepo     team.Repository
	vehicleRepo  vehicle.Repository
	routeRepo    route.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func setup(t *testing.T) Server {
	t.Helper()

	conf = testutil.NewConfig()

	// two stores: primary + local spool, both JSON-backed
	primary := testutil.OpenDB(t)
	local := testutil.OpenDB(t)

	usrRepo = inmemdb.NewUserRepository(primary)
	questionRepo = inmemdb.NewQuestionRepository(primary)
	evalRepo = inmemdb.NewEvaluationRepository(primary)
	localRepo = inmemdb.NewEvaluationRepository(local)
	teamRepo = inmemdb.NewTeamRepository(primary)
	vehicleRepo = inmemdb.NewVehicleRepository(primary)
	routeRepo = inmemdb.NewRouteRepository(primary)

	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	logger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	questionSvc := question.NewService(questionRepo)

	return NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		SignalShutdown: func() {},
		Validate:       validate,
		Translator:     translator,
		UserSvc:        user.NewService(conf, usrRepo, mailSvc),
		QuestionSvc:    questionSvc,
		EvaluationSvc:  evaluation.NewService(conf, evalRepo, localRepo, questionSvc, mailSvc, logger),
		TeamSvc:        team.NewService(teamRepo),
		RouteSvc:       route.NewService(routeRepo),
		VehicleSvc:     vehicle.NewService(vehicleRepo),
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
