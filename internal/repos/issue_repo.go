package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"gymstock/internal/domain"
)

type IssueRepo struct{ db *sqlx.DB }

func NewIssueRepo(db *sqlx.DB) *IssueRepo { return &IssueRepo{db: db} }

const issueCols = `id, equipment_id, equipment_name, sport_type, category, quantity, student_name, registration_number, branch, issue_time, expected_return_time`

func (r *IssueRepo) InsertIssuedTx(tx *sqlx.Tx, rec *domain.IssueRecord) error {
	_, err := tx.Exec(`
		INSERT INTO issued_equipment(`+issueCols+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.EquipmentID, rec.EquipmentName, rec.SportType, rec.Category, rec.Quantity,
		rec.StudentName, rec.RegistrationNumber, rec.Branch, rec.IssueTime, rec.ExpectedReturnTime)
	return err
}

func (r *IssueRepo) ListIssued() ([]domain.IssueRecord, error) {
	var recs []domain.IssueRecord
	err := r.db.Select(&recs, `SELECT `+issueCols+` FROM issued_equipment ORDER BY issue_time DESC`)
	return recs, err
}

func (r *IssueRepo) ListOverdue() ([]domain.OverdueRecord, error) {
	var recs []domain.OverdueRecord
	err := r.db.Select(&recs, `SELECT `+issueCols+` FROM overdue_equipment ORDER BY issue_time DESC`)
	return recs, err
}

// GetActive looks a live record up in issued first, then overdue. The second
// return value reports which collection held it.
func (r *IssueRepo) GetActive(id string) (*domain.IssueRecord, bool, error) {
	var rec domain.IssueRecord
	err := r.db.Get(&rec, `SELECT `+issueCols+` FROM issued_equipment WHERE id = ?`, id)
	if err == nil {
		return &rec, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}
	err = r.db.Get(&rec, `SELECT `+issueCols+` FROM overdue_equipment WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, false, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

func (r *IssueRepo) DeleteIssuedTx(tx *sqlx.Tx, id string) error {
	res, err := tx.Exec(`DELETE FROM issued_equipment WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *IssueRepo) DeleteOverdueTx(tx *sqlx.Tx, id string) error {
	res, err := tx.Exec(`DELETE FROM overdue_equipment WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// PromoteTx moves one record issued -> overdue unchanged.
func (r *IssueRepo) PromoteTx(tx *sqlx.Tx, id string) error {
	res, err := tx.Exec(`
		INSERT INTO overdue_equipment(`+issueCols+`)
		SELECT `+issueCols+` FROM issued_equipment WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRecordNotFound
	}
	_, err = tx.Exec(`DELETE FROM issued_equipment WHERE id = ?`, id)
	return err
}

func (r *IssueRepo) InsertLogTx(tx *sqlx.Tx, l *domain.LogRecord) error {
	wasOverdue := 0
	if l.WasOverdue {
		wasOverdue = 1
	}
	_, err := tx.Exec(`
		INSERT INTO logs(`+issueCols+`, return_time, was_overdue)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.ID, l.EquipmentID, l.EquipmentName, l.SportType, l.Category, l.Quantity,
		l.StudentName, l.RegistrationNumber, l.Branch, l.IssueTime, l.ExpectedReturnTime,
		l.ReturnTime, wasOverdue)
	return err
}

func (r *IssueRepo) ListLogs() ([]domain.LogRecord, error) {
	var logs []domain.LogRecord
	err := r.db.Select(&logs, `
		SELECT `+issueCols+`, return_time, was_overdue
		FROM logs
		ORDER BY return_time DESC`)
	return logs, err
}

func (r *IssueRepo) CountIssued() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM issued_equipment`)
	return n, err
}

func (r *IssueRepo) CountOverdue() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM overdue_equipment`)
	return n, err
}

// ActiveQuantity sums quantity held by live issue + overdue records
// (conservation checks, dashboard stats).
func (r *IssueRepo) ActiveQuantity() (int, error) {
	var total int
	err := r.db.Get(&total, `
		SELECT COALESCE((SELECT SUM(quantity) FROM issued_equipment),0)
		     + COALESCE((SELECT SUM(quantity) FROM overdue_equipment),0)`)
	return total, err
}
