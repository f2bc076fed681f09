package services

import (
	"errors"
	"testing"

	"gymstock/internal/domain"
	"gymstock/internal/repos"
)

func requestFixture(t *testing.T) (*repos.EquipmentRepo, *repos.RequestRepo, *LedgerService, *RequestService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	eq := repos.NewEquipmentRepo(db)
	is := repos.NewIssueRepo(db)
	rq := repos.NewRequestRepo(db)
	ledger := NewLedgerService(db, eq, is, rq)
	return eq, rq, ledger, NewRequestService(db, rq, eq, ledger)
}

func student() *domain.User {
	return &domain.User{
		ID:                 "u-priya",
		Username:           "priya",
		Name:               "Priya Kulkarni",
		Role:               domain.RoleStudent,
		RegistrationNumber: "01FE21BCS101",
		Branch:             "Computer Science",
	}
}

func TestSubmitFilesPendingRequest(t *testing.T) {
	_, rq, _, svc := requestFixture(t)

	req, err := svc.Submit(student(), "eq-basketball", 2, "inter-branch match", "17:00")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending", req.Status)
	}
	if req.RegistrationNumber != "01FE21BCS101" || req.EquipmentName != "Basketball" {
		t.Fatalf("unexpected request: %+v", req)
	}

	mine, err := rq.ListByStudent("01FE21BCS101")
	if err != nil {
		t.Fatalf("list by student: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("student should see 1 request, got %d", len(mine))
	}
}

func TestSubmitValidation(t *testing.T) {
	_, _, _, svc := requestFixture(t)

	if _, err := svc.Submit(student(), "eq-basketball", 0, "match", "17:00"); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("qty 0: err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.Submit(student(), "eq-basketball", 2, "  ", "17:00"); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("blank purpose: err = %v, want ErrMissingField", err)
	}
	if _, err := svc.Submit(student(), "eq-basketball", 2, "match", ""); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("missing return time: err = %v, want ErrMissingField", err)
	}
	if _, err := svc.Submit(student(), "eq-basketball", 50, "match", "17:00"); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("over stock: err = %v, want ErrInsufficientStock", err)
	}
	if _, err := svc.Submit(student(), "no-such-item", 1, "match", "17:00"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("unknown item: err = %v, want ErrRecordNotFound", err)
	}
}

func TestApproveIssuesStockAndFlipsStatus(t *testing.T) {
	eq, rq, _, svc := requestFixture(t)

	req, err := svc.Submit(student(), "eq-basketball", 3, "practice", "17:00")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec, err := svc.Approve(req.ID, "Equipment Manager")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if rec.Quantity != 3 || rec.RegistrationNumber != "01FE21BCS101" {
		t.Fatalf("unexpected issue record: %+v", rec)
	}
	if got := mainQty(t, eq, "eq-basketball"); got != 7 {
		t.Fatalf("main quantity = %d, want 7", got)
	}

	decided, _ := rq.Get(req.ID)
	if decided.Status != domain.StatusApproved || decided.DecidedBy != "Equipment Manager" {
		t.Fatalf("request after approval = %+v", decided)
	}

	// Terminal: a second decision of either kind fails.
	if _, err := svc.Approve(req.ID, "Equipment Manager"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second approve: err = %v, want ErrInvalidState", err)
	}
	if err := svc.Deny(req.ID, "Equipment Manager", "late"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("deny after approve: err = %v, want ErrInvalidState", err)
	}
}

func TestApproveRevalidatesStockAtDecisionTime(t *testing.T) {
	eq, rq, ledger, svc := requestFixture(t)

	req, err := svc.Submit(student(), "eq-basketball", 8, "tournament", "17:00")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Stock drops between submission and decision.
	if _, err := ledger.Issue("eq-basketball", 5, borrower(), ""); err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Approve(req.ID, "Equipment Manager"); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The failed approval must not move stock or decide the request.
	pending, _ := rq.Get(req.ID)
	if pending.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending after failed approval", pending.Status)
	}
	if got := mainQty(t, eq, "eq-basketball"); got != 5 {
		t.Fatalf("main quantity = %d, want 5", got)
	}
}

func TestDenyIsTerminalAndKeepsStock(t *testing.T) {
	eq, rq, _, svc := requestFixture(t)

	req, err := svc.Submit(student(), "eq-basketball", 2, "practice", "17:00")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Deny(req.ID, "Equipment Manager", "counter closed today"); err != nil {
		t.Fatalf("deny: %v", err)
	}

	denied, _ := rq.Get(req.ID)
	if denied.Status != domain.StatusDenied || denied.DenialReason != "counter closed today" {
		t.Fatalf("request after denial = %+v", denied)
	}
	if got := mainQty(t, eq, "eq-basketball"); got != 10 {
		t.Fatalf("main quantity = %d, want 10", got)
	}
	if _, err := svc.Approve(req.ID, "Equipment Manager"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("approve after deny: err = %v, want ErrInvalidState", err)
	}
}
