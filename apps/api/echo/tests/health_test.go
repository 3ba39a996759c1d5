package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/tmbraz/rotacheck/apps/api/echo"
	"github.com/tmbraz/rotacheck/core/user"
	testutil "github.com/tmbraz/rotacheck/tests"
)

func Test_healthApi_health(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/health")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resp echoapi.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling HealthResponse: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %v; want ok", resp.Status)
	}
	if resp.Mode != "offline" {
		t.Errorf("mode = %v; want offline", resp.Mode)
	}
}

func Test_healthApi_info(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(
		t, usrRepo, "Admin", "11900001111", "admin@test.br", "", user.AdminRoles, true)
	motorista := testutil.CreateUser(
		t, usrRepo, "Joao Motorista", "11987654321", "joao@test.br", "", []string{user.RoleColaborador}, true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Admin required", token: getToken(t, motorista), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "Diagnostics", token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/debug/info", tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
			}

			var resp echoapi.InfoResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshalling InfoResponse: %v", err)
			}
			if resp.App != conf.AppName {
				t.Errorf("app = %v; want %v", resp.App, conf.AppName)
			}
			if resp.Database != "not configured (offline)" {
				t.Errorf("database = %q; want the offline marker", resp.Database)
			}
			for _, key := range []string{"DATABASE_URL", "ROLLBAR_TOKEN", "SENDGRID_API_KEY", "ALERT_EMAIL"} {
				if _, ok := resp.EnvVars[key]; !ok {
					t.Errorf("env_vars missing probe for %s", key)
				}
			}
		})
	}
}
