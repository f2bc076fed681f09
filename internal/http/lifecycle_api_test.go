package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"gymstock/internal/config"
	"gymstock/internal/domain"
	"gymstock/internal/http/handlers"
	"gymstock/internal/repos"
)

// newAPI wires the real dependency graph against an in-memory store and
// returns the app plus a login helper.
func newAPI(t *testing.T) (*fiber.App, func(username, password string) string) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	deps := handlers.NewDeps(db, config.Config{})
	auth := deps.Auth

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/login", deps.AuthHandler.Login)

	staff := handlers.RequireRole(auth, domain.RoleAdmin, domain.RoleManager)
	managerOnly := handlers.RequireRole(auth, domain.RoleManager)
	adminOnly := handlers.RequireRole(auth, domain.RoleAdmin)
	studentOnly := handlers.RequireRole(auth, domain.RoleStudent)

	api.Get("/equipment", staff, deps.EquipmentHandler.List)
	api.Post("/issues", managerOnly, deps.IssueHandler.Issue)
	api.Get("/issues", staff, deps.IssueHandler.ListIssued)
	api.Post("/issues/:id/return", managerOnly, deps.IssueHandler.Return)
	api.Get("/logs", staff, deps.IssueHandler.ListLogs)
	api.Post("/requests", studentOnly, deps.RequestHandler.Submit)
	api.Post("/requests/:id/approve", managerOnly, deps.RequestHandler.Approve)
	api.Get("/admin/stats", adminOnly, deps.AdminHandler.Dashboard)

	login := func(username, password string) string {
		resp, err := app.Test(jsonReq("POST", "/api/v1/login", `{"username":"`+username+`","password":"`+password+`"}`))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login %s: status %d", username, resp.StatusCode)
		}
		sid := extractCookie(resp, "sid")
		if sid == "" {
			t.Fatalf("login %s: no sid cookie", username)
		}
		return sid
	}
	return app, login
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}

func TestRoleGating(t *testing.T) {
	app, login := newAPI(t)
	studentSID := login("priya", "Student123!")
	managerSID := login("manager1", "Manager123!")

	// No session at all -> 401
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/equipment", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}

	// Student hitting a manager route -> 403
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/issues", `{}`), studentSID))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for student on manager route, got %d", resp.StatusCode)
	}

	// Manager hitting an admin route -> 403
	resp, err = app.Test(withSID(httptest.NewRequest("GET", "/api/v1/admin/stats", nil), managerSID))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for manager on admin route, got %d", resp.StatusCode)
	}

	// Manager on a staff route -> 200
	resp, err = app.Test(withSID(httptest.NewRequest("GET", "/api/v1/equipment", nil), managerSID))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for manager on staff route, got %d", resp.StatusCode)
	}
}

func TestIssueReturnOverHTTP(t *testing.T) {
	app, login := newAPI(t)
	sid := login("manager1", "Manager123!")

	body := `{"equipmentId":"eq-basketball","quantity":3,"studentName":"Priya Kulkarni","registrationNumber":"01FE21BCS101","branch":"Computer Science","expectedReturnTime":"17:00"}`
	resp, err := app.Test(withSID(jsonReq("POST", "/api/v1/issues", body), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on issue, got %d", resp.StatusCode)
	}
	var rec domain.IssueRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Quantity != 3 || rec.ID == "" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// over-issue -> 409
	over := `{"equipmentId":"eq-basketball","quantity":50,"studentName":"Priya Kulkarni","registrationNumber":"01FE21BCS101","branch":"Computer Science","expectedReturnTime":""}`
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/issues", over), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on over-issue, got %d", resp.StatusCode)
	}

	// bad HH:MM -> 400
	badTime := `{"equipmentId":"eq-basketball","quantity":1,"studentName":"Priya Kulkarni","registrationNumber":"01FE21BCS101","branch":"Computer Science","expectedReturnTime":"25:99"}`
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/issues", badTime), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad time, got %d", resp.StatusCode)
	}

	// return the record, then confirm it reached the logs
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/issues/"+rec.ID+"/return", ``), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on return, got %d", resp.StatusCode)
	}

	resp, err = app.Test(withSID(httptest.NewRequest("GET", "/api/v1/logs", nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	var logs []domain.LogRecord
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs) != 1 || logs[0].WasOverdue {
		t.Fatalf("logs = %+v", logs)
	}

	// returning twice -> 404, the record is gone
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/issues/"+rec.ID+"/return", ``), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on double return, got %d", resp.StatusCode)
	}
}

func TestRequestApprovalOverHTTP(t *testing.T) {
	app, login := newAPI(t)
	studentSID := login("priya", "Student123!")
	managerSID := login("manager1", "Manager123!")

	resp, err := app.Test(withSID(jsonReq("POST", "/api/v1/requests",
		`{"equipmentId":"eq-basketball","quantity":2,"purpose":"practice","expectedReturnTime":"18:00"}`), studentSID))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on submit, got %d", resp.StatusCode)
	}
	var req domain.Request
	if err := json.NewDecoder(resp.Body).Decode(&req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.RegistrationNumber != "01FE21BCS101" {
		t.Fatalf("request should carry the logged-in student, got %+v", req)
	}

	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/requests/"+req.ID+"/approve", ``), managerSID))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on approve, got %d", resp.StatusCode)
	}

	// second decision -> 409
	resp, err = app.Test(withSID(jsonReq("POST", "/api/v1/requests/"+req.ID+"/approve", ``), managerSID))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on second decision, got %d", resp.StatusCode)
	}
}
