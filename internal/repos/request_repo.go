package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"gymstock/internal/domain"
)

type RequestRepo struct{ db *sqlx.DB }

func NewRequestRepo(db *sqlx.DB) *RequestRepo { return &RequestRepo{db: db} }

const requestCols = `id, equipment_id, equipment_name, sport_type, category, quantity, student_name, registration_number, branch, purpose, expected_return_time, request_time, status, decided_by, decided_time, denial_reason`

func (r *RequestRepo) Insert(req *domain.Request) error {
	_, err := r.db.Exec(`
		INSERT INTO equipment_requests(`+requestCols+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		req.ID, req.EquipmentID, req.EquipmentName, req.SportType, req.Category, req.Quantity,
		req.StudentName, req.RegistrationNumber, req.Branch, req.Purpose, req.ExpectedReturnTime,
		req.RequestTime, req.Status, req.DecidedBy, req.DecidedTime, req.DenialReason)
	return err
}

func (r *RequestRepo) Get(id string) (*domain.Request, error) {
	var req domain.Request
	err := r.db.Get(&req, `SELECT `+requestCols+` FROM equipment_requests WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// List filters by status when one is given.
func (r *RequestRepo) List(status string) ([]domain.Request, error) {
	var reqs []domain.Request
	if status == "" {
		err := r.db.Select(&reqs, `SELECT `+requestCols+` FROM equipment_requests ORDER BY request_time DESC`)
		return reqs, err
	}
	err := r.db.Select(&reqs, `SELECT `+requestCols+` FROM equipment_requests WHERE status = ? ORDER BY request_time DESC`, status)
	return reqs, err
}

func (r *RequestRepo) ListByStudent(regNo string) ([]domain.Request, error) {
	var reqs []domain.Request
	err := r.db.Select(&reqs, `
		SELECT `+requestCols+` FROM equipment_requests
		WHERE registration_number = ?
		ORDER BY request_time DESC`, regNo)
	return reqs, err
}

// MarkApprovedTx flips pending -> approved inside the issuing transaction.
// The status guard keeps terminal requests immutable even under a race.
func (r *RequestRepo) MarkApprovedTx(tx *sqlx.Tx, id, actor, when string) error {
	res, err := tx.Exec(`
		UPDATE equipment_requests
		SET status = 'approved', decided_by = ?, decided_time = ?
		WHERE id = ? AND status = 'pending'`, actor, when, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *RequestRepo) MarkDenied(id, actor, when, reason string) error {
	res, err := r.db.Exec(`
		UPDATE equipment_requests
		SET status = 'denied', decided_by = ?, decided_time = ?, denial_reason = ?
		WHERE id = ? AND status = 'pending'`, actor, when, reason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *RequestRepo) CountPending() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM equipment_requests WHERE status = 'pending'`)
	return n, err
}

// Move requests (manager -> admin, main -> counter transfers)

const moveCols = `id, equipment_id, equipment_name, quantity, reason, requested_by, request_time, status, decided_by, decided_time, rejection_reason`

func (r *RequestRepo) InsertMove(m *domain.MoveRequest) error {
	_, err := r.db.Exec(`
		INSERT INTO move_requests(`+moveCols+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.EquipmentID, m.EquipmentName, m.Quantity, m.Reason, m.RequestedBy,
		m.RequestTime, m.Status, m.DecidedBy, m.DecidedTime, m.RejectionReason)
	return err
}

func (r *RequestRepo) GetMove(id string) (*domain.MoveRequest, error) {
	var m domain.MoveRequest
	err := r.db.Get(&m, `SELECT `+moveCols+` FROM move_requests WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *RequestRepo) ListMoves(status string) ([]domain.MoveRequest, error) {
	var ms []domain.MoveRequest
	if status == "" {
		err := r.db.Select(&ms, `SELECT `+moveCols+` FROM move_requests ORDER BY request_time DESC`)
		return ms, err
	}
	err := r.db.Select(&ms, `SELECT `+moveCols+` FROM move_requests WHERE status = ? ORDER BY request_time DESC`, status)
	return ms, err
}

func (r *RequestRepo) MarkMoveApprovedTx(tx *sqlx.Tx, id, actor, when string) error {
	res, err := tx.Exec(`
		UPDATE move_requests
		SET status = 'approved', decided_by = ?, decided_time = ?
		WHERE id = ? AND status = 'pending'`, actor, when, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *RequestRepo) MarkMoveRejected(id, actor, when, reason string) error {
	res, err := r.db.Exec(`
		UPDATE move_requests
		SET status = 'rejected', decided_by = ?, decided_time = ?, rejection_reason = ?
		WHERE id = ? AND status = 'pending'`, actor, when, reason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidState
	}
	return nil
}
