package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"gymstock/internal/domain"
)

type FeedbackRepo struct{ db *sqlx.DB }

func NewFeedbackRepo(db *sqlx.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

const feedbackCols = `id, student_name, registration_number, sport_type, rating, comments, status, submitted_at`

func (r *FeedbackRepo) Insert(f *domain.Feedback) error {
	_, err := r.db.Exec(`
		INSERT INTO feedback(`+feedbackCols+`)
		VALUES (?,?,?,?,?,?,?,?)`,
		f.ID, f.StudentName, f.RegistrationNumber, f.SportType, f.Rating, f.Comments, f.Status, f.SubmittedAt)
	return err
}

func (r *FeedbackRepo) List(status string) ([]domain.Feedback, error) {
	var fs []domain.Feedback
	if status == "" {
		err := r.db.Select(&fs, `SELECT `+feedbackCols+` FROM feedback ORDER BY submitted_at DESC`)
		return fs, err
	}
	err := r.db.Select(&fs, `SELECT `+feedbackCols+` FROM feedback WHERE status = ? ORDER BY submitted_at DESC`, status)
	return fs, err
}

func (r *FeedbackRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE feedback SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *FeedbackRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
