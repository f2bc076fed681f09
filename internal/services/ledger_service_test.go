package services

import (
	"database/sql"
	"errors"
	"testing"

	"gymstock/internal/domain"
	"gymstock/internal/repos"
)

func memdb(t *testing.T) (*repos.EquipmentRepo, *repos.IssueRepo, *repos.RequestRepo, *LedgerService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	eq := repos.NewEquipmentRepo(db)
	is := repos.NewIssueRepo(db)
	rq := repos.NewRequestRepo(db)
	return eq, is, rq, NewLedgerService(db, eq, is, rq)
}

func borrower() domain.Borrower {
	return domain.Borrower{
		StudentName:        "Priya Kulkarni",
		RegistrationNumber: "01FE21BCS101",
		Branch:             "Computer Science",
	}
}

func mainQty(t *testing.T, eq *repos.EquipmentRepo, id string) int {
	t.Helper()
	item, err := eq.Get(id, domain.InventoryMain)
	if err == sql.ErrNoRows {
		return 0
	}
	if err != nil {
		t.Fatalf("get main: %v", err)
	}
	return item.Quantity
}

func counterQty(t *testing.T, eq *repos.EquipmentRepo, id string) int {
	t.Helper()
	item, err := eq.Get(id, domain.InventoryCounter)
	if err == sql.ErrNoRows {
		return 0
	}
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	return item.Quantity
}

func TestIssueMovesStockToCounter(t *testing.T) {
	eq, is, _, ledger := memdb(t)

	rec, err := ledger.Issue("eq-basketball", 3, borrower(), "17:00")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rec.Quantity != 3 || rec.EquipmentName != "Basketball" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if got := mainQty(t, eq, "eq-basketball"); got != 7 {
		t.Fatalf("main quantity = %d, want 7", got)
	}
	if got := counterQty(t, eq, "eq-basketball"); got != 3 {
		t.Fatalf("counter quantity = %d, want 3", got)
	}

	issued, err := is.ListIssued()
	if err != nil {
		t.Fatalf("list issued: %v", err)
	}
	if len(issued) != 1 || issued[0].ID != rec.ID {
		t.Fatalf("issued records = %+v", issued)
	}
}

func TestIssueInsufficientStockLeavesInventoryUntouched(t *testing.T) {
	eq, is, _, ledger := memdb(t)

	_, err := ledger.Issue("eq-basketball", 11, borrower(), "17:00")
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := mainQty(t, eq, "eq-basketball"); got != 10 {
		t.Fatalf("main quantity = %d, want 10 after failed issue", got)
	}
	if got := counterQty(t, eq, "eq-basketball"); got != 0 {
		t.Fatalf("counter quantity = %d, want 0 after failed issue", got)
	}
	issued, _ := is.ListIssued()
	if len(issued) != 0 {
		t.Fatalf("no issue record should exist, got %d", len(issued))
	}
}

func TestIssueRejectsBadInput(t *testing.T) {
	_, _, _, ledger := memdb(t)

	if _, err := ledger.Issue("eq-basketball", 0, borrower(), ""); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("qty 0: err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := ledger.Issue("eq-basketball", -2, borrower(), ""); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("qty -2: err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := ledger.Issue("no-such-item", 1, borrower(), ""); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("unknown id: err = %v, want ErrRecordNotFound", err)
	}
}

func TestConsecutiveIssuesSeeEachDeduction(t *testing.T) {
	eq, _, _, ledger := memdb(t)

	// Each issue's stock read runs on the transaction's own connection, so
	// back-to-back issues against the shared in-memory store must observe
	// every prior deduction.
	if _, err := ledger.Issue("eq-basketball", 4, borrower(), ""); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	if _, err := ledger.Issue("eq-basketball", 6, borrower(), ""); err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if _, err := ledger.Issue("eq-basketball", 1, borrower(), ""); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("drained: err = %v, want ErrRecordNotFound", err)
	}
	if got := counterQty(t, eq, "eq-basketball"); got != 10 {
		t.Fatalf("counter quantity = %d, want 10", got)
	}
}

func TestIssueDrainsAndPrunesMainRow(t *testing.T) {
	eq, _, _, ledger := memdb(t)

	if _, err := ledger.Issue("eq-basketball", 10, borrower(), ""); err != nil {
		t.Fatalf("issue all: %v", err)
	}
	if _, err := eq.Get("eq-basketball", domain.InventoryMain); err != sql.ErrNoRows {
		t.Fatalf("main row should be pruned at zero, got err = %v", err)
	}
	if got := counterQty(t, eq, "eq-basketball"); got != 10 {
		t.Fatalf("counter quantity = %d, want 10", got)
	}
}

func TestReturnLandsInCounterAndWritesLog(t *testing.T) {
	eq, is, _, ledger := memdb(t)

	rec, err := ledger.Issue("eq-basketball", 3, borrower(), "17:00")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	entry, err := ledger.Return(rec.ID)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if entry.WasOverdue {
		t.Fatal("return straight from issued should not be flagged overdue")
	}
	if entry.ReturnTime == "" {
		t.Fatal("log entry missing return time")
	}

	// Returned stock joins the counter partition; main never gets it back.
	if got := mainQty(t, eq, "eq-basketball"); got != 7 {
		t.Fatalf("main quantity = %d, want 7", got)
	}
	if got := counterQty(t, eq, "eq-basketball"); got != 6 {
		t.Fatalf("counter quantity = %d, want 6", got)
	}

	issued, _ := is.ListIssued()
	if len(issued) != 0 {
		t.Fatalf("issued should be empty after return, got %d", len(issued))
	}
	logs, err := is.ListLogs()
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].EquipmentID != "eq-basketball" {
		t.Fatalf("logs = %+v", logs)
	}
}

func TestReturnUnknownRecord(t *testing.T) {
	_, _, _, ledger := memdb(t)
	if _, err := ledger.Return("no-such-record"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestMarkDamagedRemovesFromCirculation(t *testing.T) {
	eq, _, _, ledger := memdb(t)

	d, err := ledger.MarkDamaged(domain.InventoryMain, "eq-basketball", 4)
	if err != nil {
		t.Fatalf("mark damaged: %v", err)
	}
	if d.Quantity != 4 || d.OriginalInventory != domain.InventoryMain {
		t.Fatalf("unexpected damaged item: %+v", d)
	}
	if got := mainQty(t, eq, "eq-basketball"); got != 6 {
		t.Fatalf("main quantity = %d, want 6", got)
	}

	items, err := eq.ListDamaged()
	if err != nil {
		t.Fatalf("list damaged: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 4 {
		t.Fatalf("damaged items = %+v", items)
	}
}

func TestMarkDamagedRejectsBadInput(t *testing.T) {
	_, _, _, ledger := memdb(t)

	if _, err := ledger.MarkDamaged(domain.InventoryMain, "eq-basketball", 11); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("over stock: err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := ledger.MarkDamaged(domain.InventoryMain, "eq-basketball", 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("zero: err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := ledger.MarkDamaged("attic", "eq-basketball", 1); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("bad inventory: err = %v, want ErrRecordNotFound", err)
	}
}

func TestMoveRequestLifecycle(t *testing.T) {
	eq, _, rq, ledger := memdb(t)

	m, err := ledger.RequestMove("eq-basketball", 4, "restock counter", "Equipment Manager")
	if err != nil {
		t.Fatalf("request move: %v", err)
	}
	if m.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending", m.Status)
	}

	if err := ledger.ApproveMove(m.ID, "System Administrator"); err != nil {
		t.Fatalf("approve move: %v", err)
	}
	if got := mainQty(t, eq, "eq-basketball"); got != 6 {
		t.Fatalf("main quantity = %d, want 6", got)
	}
	if got := counterQty(t, eq, "eq-basketball"); got != 4 {
		t.Fatalf("counter quantity = %d, want 4", got)
	}

	got, err := rq.GetMove(m.ID)
	if err != nil {
		t.Fatalf("get move: %v", err)
	}
	if got.Status != domain.StatusApproved || got.DecidedBy != "System Administrator" {
		t.Fatalf("move after approval = %+v", got)
	}

	// Decisions are terminal.
	if err := ledger.ApproveMove(m.ID, "System Administrator"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second approve: err = %v, want ErrInvalidState", err)
	}
	if err := ledger.RejectMove(m.ID, "System Administrator", "changed mind"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("reject after approve: err = %v, want ErrInvalidState", err)
	}
}

func TestApproveMoveRevalidatesStock(t *testing.T) {
	eq, _, rq, ledger := memdb(t)

	m, err := ledger.RequestMove("eq-basketball", 8, "tournament", "Equipment Manager")
	if err != nil {
		t.Fatalf("request move: %v", err)
	}

	// Stock drops after the request is filed.
	if _, err := ledger.Issue("eq-basketball", 5, borrower(), ""); err != nil {
		t.Fatalf("issue: %v", err)
	}

	err = ledger.ApproveMove(m.ID, "System Administrator")
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The request stays pending so it can be retried once stock returns.
	got, _ := rq.GetMove(m.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending after failed approval", got.Status)
	}
	if q := mainQty(t, eq, "eq-basketball"); q != 5 {
		t.Fatalf("main quantity = %d, want 5", q)
	}
}

func TestRejectMoveKeepsInventory(t *testing.T) {
	eq, _, rq, ledger := memdb(t)

	m, err := ledger.RequestMove("eq-basketball", 4, "restock", "Equipment Manager")
	if err != nil {
		t.Fatalf("request move: %v", err)
	}
	if err := ledger.RejectMove(m.ID, "System Administrator", "counter already stocked"); err != nil {
		t.Fatalf("reject move: %v", err)
	}

	got, _ := rq.GetMove(m.ID)
	if got.Status != domain.StatusRejected || got.RejectionReason != "counter already stocked" {
		t.Fatalf("move after rejection = %+v", got)
	}
	if q := mainQty(t, eq, "eq-basketball"); q != 10 {
		t.Fatalf("main quantity = %d, want 10", q)
	}
}
