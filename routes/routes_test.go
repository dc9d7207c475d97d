package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"skillswap-server/services"
	"skillswap-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp wires the routes the way main does, without a database. Tests
// only exercise paths that stop before any query runs: auth, role checks and
// input validation.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	swapHandler := NewSwapHandler(nil)
	feedbackHandler := NewFeedbackHandler(nil)
	skillHandler := NewSkillHandler(nil, services.NewSkillRegistry(nil))
	loginLogHandler := NewLoginLogHandler(nil)
	exportHandler := NewAdminExportHandler(nil)

	swaps := app.Party("/api/swaps", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		swaps.Post("/", swapHandler.CreateSwap)
	}

	feedback := app.Party("/api/feedback", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		feedback.Post("/", feedbackHandler.CreateFeedback)
	}

	app.Post("/api/skills/suggest", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, skillHandler.SubmitSkill)
	app.Get("/api/login-logs", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, loginLogHandler.ListLoginLogs)

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/export/{id:string}", exportHandler.GetExport)
	}

	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func doJSON(t *testing.T, app *iris.Application, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestAdminRBAC(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodGet, "/api/admin/export/nope", "", "")
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/admin/export/nope", signTestToken(1, "user"), "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}

	// Admins pass the role gate; the unknown job id answers 404.
	resp = doJSON(t, app, http.MethodGet, "/api/admin/export/nope", signTestToken(1, "admin"), "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown export job, got %d", resp.Code)
	}
}

// Polling an export while the background goroutine advances it must serve a
// consistent copy of the job, never the shared struct.
func TestGetExportServesSnapshot(t *testing.T) {
	h := NewAdminExportHandler(nil)
	job := &exportJob{ID: "job1", Resource: "users", Status: "pending", CreatedAt: time.Now().Unix()}
	h.jobs["job1"] = job

	app := iris.New()
	app.Get("/api/admin/export/{id:string}", h.GetExport)
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			h.setStatus(job, "processing", i, nil)
		}
		h.setStatus(job, "done", 2, []byte("id\n1\n"))
	}()
	for i := 0; i < 100; i++ {
		resp := doJSON(t, app, http.MethodGet, "/api/admin/export/job1", "", "")
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	}
	<-done

	resp := doJSON(t, app, http.MethodGet, "/api/admin/export/job1", "", "")
	if body := resp.Body.String(); !strings.Contains(body, `"status":"done"`) {
		t.Fatalf("final body = %s", body)
	}
}

func TestCreateSwapRejectsBadInput(t *testing.T) {
	app := buildTestApp()
	token := signTestToken(1, "user")

	resp := doJSON(t, app, http.MethodPost, "/api/swaps", "", `{}`)
	if resp.Code == http.StatusOK || resp.Code == http.StatusCreated {
		t.Fatalf("expected auth failure without token, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/swaps", token, `{"skillOffered":"Go"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: expected 400, got %d", resp.Code)
	}

	// Recipient equal to the caller fails before anything else.
	resp = doJSON(t, app, http.MethodPost, "/api/swaps", token,
		`{"recipientID":1,"skillOffered":"Go","skillRequested":"Python"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("self swap: expected 400, got %d", resp.Code)
	}
	if body := resp.Body.String(); !strings.Contains(body, "yourself") {
		t.Errorf("self swap body = %s", body)
	}
}

func TestCreateFeedbackRejectsMissingFields(t *testing.T) {
	app := buildTestApp()
	token := signTestToken(1, "user")

	resp := doJSON(t, app, http.MethodPost, "/api/feedback", token, `{"comment":"nice"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSubmitSkillRejectsMissingFields(t *testing.T) {
	app := buildTestApp()
	token := signTestToken(1, "user")

	resp := doJSON(t, app, http.MethodPost, "/api/skills/suggest", token, `{"name":"Welding"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing category, got %d", resp.Code)
	}
}

func TestLoginLogsRequireAuth(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodGet, "/api/login-logs", "", "")
	if resp.Code == http.StatusOK {
		t.Fatalf("expected auth failure, got %d", resp.Code)
	}

	// A user asking for someone else's logs is refused before any query.
	resp = doJSON(t, app, http.MethodGet, "/api/login-logs?user=42", signTestToken(1, "user"), "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}
