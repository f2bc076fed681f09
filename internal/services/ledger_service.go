package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gymstock/internal/domain"
	"gymstock/internal/repos"
)

// LedgerService moves quantity between the main, counter and damaged
// partitions and the live issue/overdue records. Every multi-collection
// mutation runs in one transaction, so a crash can never leave the partitions
// out of step with each other.
type LedgerService struct {
	DB        *sqlx.DB
	Equipment *repos.EquipmentRepo
	Issues    *repos.IssueRepo
	Requests  *repos.RequestRepo
}

func NewLedgerService(db *sqlx.DB, eq *repos.EquipmentRepo, is *repos.IssueRepo, rq *repos.RequestRepo) *LedgerService {
	return &LedgerService{DB: db, Equipment: eq, Issues: is, Requests: rq}
}

// Issue hands main-inventory stock to a borrower: main loses the quantity,
// the issue counter gains it, and a live IssueRecord is appended.
func (s *LedgerService) Issue(equipmentID string, qty int, b domain.Borrower, expectedReturn string) (*domain.IssueRecord, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := s.issueTx(tx, equipmentID, qty, b, expectedReturn)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// issueTx is the transactional body of Issue, shared with request approval so
// the approval status flip commits atomically with the stock movement.
func (s *LedgerService) issueTx(tx *sqlx.Tx, equipmentID string, qty int, b domain.Borrower, expectedReturn string) (*domain.IssueRecord, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := s.Equipment.GetTx(tx, equipmentID, domain.InventoryMain)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if qty > item.Quantity {
		return nil, domain.ErrInsufficientStock
	}

	if err := s.Equipment.DecrementTx(tx, equipmentID, domain.InventoryMain, qty); err != nil {
		return nil, err
	}
	if err := s.Equipment.PruneZeroTx(tx, equipmentID, domain.InventoryMain); err != nil {
		return nil, err
	}
	if err := s.Equipment.AddToCounterTx(tx, item, qty); err != nil {
		return nil, err
	}

	rec := &domain.IssueRecord{
		ID:                 uuid.NewString(),
		EquipmentID:        item.ID,
		EquipmentName:      item.Name,
		SportType:          item.SportType,
		Category:           item.Category,
		Quantity:           qty,
		Borrower:           b,
		IssueTime:          time.Now().UTC().Format(time.RFC3339),
		ExpectedReturnTime: expectedReturn,
	}
	if err := s.Issues.InsertIssuedTx(tx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Return closes a live issue or overdue record. The quantity lands in the
// issue counter, never main: stock that has been out once stays "used".
func (s *LedgerService) Return(recordID string) (*domain.LogRecord, error) {
	rec, fromOverdue, err := s.Issues.GetActive(recordID)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if fromOverdue {
		err = s.Issues.DeleteOverdueTx(tx, recordID)
	} else {
		err = s.Issues.DeleteIssuedTx(tx, recordID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Equipment.ReturnToCounterTx(tx, rec); err != nil {
		return nil, err
	}

	entry := &domain.LogRecord{
		IssueRecord: *rec,
		ReturnTime:  time.Now().UTC().Format(time.RFC3339),
		WasOverdue:  fromOverdue,
	}
	if err := s.Issues.InsertLogTx(tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// MarkDamaged pulls stock out of circulation from main or the counter.
func (s *LedgerService) MarkDamaged(inventory, equipmentID string, qty int) (*domain.DamagedItem, error) {
	if inventory != domain.InventoryMain && inventory != domain.InventoryCounter {
		return nil, domain.ErrRecordNotFound
	}

	item, err := s.Equipment.Get(equipmentID, inventory)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if qty < 1 || qty > item.Quantity {
		return nil, domain.ErrInvalidQuantity
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Equipment.DecrementTx(tx, equipmentID, inventory, qty); err != nil {
		return nil, err
	}
	if err := s.Equipment.PruneZeroTx(tx, equipmentID, inventory); err != nil {
		return nil, err
	}

	d := &domain.DamagedItem{
		ID:                uuid.NewString(),
		EquipmentID:       item.ID,
		Name:              item.Name,
		SportType:         item.SportType,
		Category:          item.Category,
		Quantity:          qty,
		Condition:         item.Condition,
		EquipmentType:     item.EquipmentType,
		OriginalInventory: inventory,
		DamagedDate:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Equipment.InsertDamagedTx(tx, d); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d, nil
}

// RequestMove files a pending main -> counter transfer for admin approval.
// Stock is only sanity-checked here; approval re-validates against whatever
// is left at decision time.
func (s *LedgerService) RequestMove(equipmentID string, qty int, reason, requestedBy string) (*domain.MoveRequest, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := s.Equipment.Get(equipmentID, domain.InventoryMain)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if qty > item.Quantity {
		return nil, domain.ErrInsufficientStock
	}

	m := &domain.MoveRequest{
		ID:            uuid.NewString(),
		EquipmentID:   item.ID,
		EquipmentName: item.Name,
		Quantity:      qty,
		Reason:        reason,
		RequestedBy:   requestedBy,
		RequestTime:   time.Now().UTC().Format(time.RFC3339),
		Status:        domain.StatusPending,
	}
	if err := s.Requests.InsertMove(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ApproveMove re-checks main stock and performs the transfer. On
// ErrInsufficientStock the request stays pending so it can be retried once
// stock returns.
func (s *LedgerService) ApproveMove(moveRequestID, actor string) error {
	m, err := s.Requests.GetMove(moveRequestID)
	if err != nil {
		return err
	}
	if m.Status != domain.StatusPending {
		return domain.ErrInvalidState
	}

	item, err := s.Equipment.Get(m.EquipmentID, domain.InventoryMain)
	if err == sql.ErrNoRows {
		return domain.ErrInsufficientStock
	}
	if err != nil {
		return err
	}
	if m.Quantity > item.Quantity {
		return domain.ErrInsufficientStock
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Equipment.DecrementTx(tx, m.EquipmentID, domain.InventoryMain, m.Quantity); err != nil {
		return err
	}
	if err := s.Equipment.PruneZeroTx(tx, m.EquipmentID, domain.InventoryMain); err != nil {
		return err
	}
	if err := s.Equipment.AddToCounterTx(tx, item, m.Quantity); err != nil {
		return err
	}
	when := time.Now().UTC().Format(time.RFC3339)
	if err := s.Requests.MarkMoveApprovedTx(tx, m.ID, actor, when); err != nil {
		return err
	}
	return tx.Commit()
}

// RejectMove marks the request rejected. No inventory effect.
func (s *LedgerService) RejectMove(moveRequestID, actor, reason string) error {
	if _, err := s.Requests.GetMove(moveRequestID); err != nil {
		return err
	}
	when := time.Now().UTC().Format(time.RFC3339)
	return s.Requests.MarkMoveRejected(moveRequestID, actor, when, reason)
}
