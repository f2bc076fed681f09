package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gymstock/internal/domain"
	"gymstock/internal/repos"
)

// RequestService runs the student borrow-request queue. A request is pending
// until a manager approves (which issues through the ledger) or denies it;
// either way the decision is terminal.
type RequestService struct {
	DB        *sqlx.DB
	Requests  *repos.RequestRepo
	Equipment *repos.EquipmentRepo
	Ledger    *LedgerService
}

func NewRequestService(db *sqlx.DB, rq *repos.RequestRepo, eq *repos.EquipmentRepo, ledger *LedgerService) *RequestService {
	return &RequestService{DB: db, Requests: rq, Equipment: eq, Ledger: ledger}
}

// Submit files a pending request. Quantity is checked against current main
// stock so students can't queue for more than exists; approval re-validates.
func (s *RequestService) Submit(student *domain.User, equipmentID string, qty int, purpose, expectedReturn string) (*domain.Request, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if strings.TrimSpace(purpose) == "" || strings.TrimSpace(expectedReturn) == "" {
		return nil, domain.ErrMissingField
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

	req := &domain.Request{
		ID:            uuid.NewString(),
		EquipmentID:   item.ID,
		EquipmentName: item.Name,
		SportType:     item.SportType,
		Category:      item.Category,
		Quantity:      qty,
		Borrower: domain.Borrower{
			StudentName:        student.Name,
			RegistrationNumber: student.RegistrationNumber,
			Branch:             student.Branch,
		},
		Purpose:            purpose,
		ExpectedReturnTime: expectedReturn,
		RequestTime:        time.Now().UTC().Format(time.RFC3339),
		Status:             domain.StatusPending,
	}
	if err := s.Requests.Insert(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve issues the requested stock and flips the request to approved in a
// single transaction. ErrInsufficientStock aborts the whole approval and the
// request stays pending; a terminal request is ErrInvalidState.
func (s *RequestService) Approve(requestID, manager string) (*domain.IssueRecord, error) {
	req, err := s.Requests.Get(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.StatusPending {
		return nil, domain.ErrInvalidState
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := s.Ledger.issueTx(tx, req.EquipmentID, req.Quantity, req.Borrower, req.ExpectedReturnTime)
	if err != nil {
		return nil, err
	}
	when := time.Now().UTC().Format(time.RFC3339)
	if err := s.Requests.MarkApprovedTx(tx, req.ID, manager, when); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Deny is terminal and touches no inventory; the reason is kept for audit.
func (s *RequestService) Deny(requestID, manager, reason string) error {
	if _, err := s.Requests.Get(requestID); err != nil {
		return err
	}
	when := time.Now().UTC().Format(time.RFC3339)
	return s.Requests.MarkDenied(requestID, manager, when, reason)
}
