package services

import (
	"time"

	"github.com/jmoiron/sqlx"

	"gymstock/internal/repos"
)

// OverdueService reclassifies issued records whose deadline has passed. It
// has no schedule of its own: callers run Promote when they load the issued
// view, so promotion happens on demand with no promptness guarantee.
type OverdueService struct {
	DB     *sqlx.DB
	Issues *repos.IssueRepo
	Loc    *time.Location
}

func NewOverdueService(db *sqlx.DB, is *repos.IssueRepo, loc *time.Location) *OverdueService {
	if loc == nil {
		loc = time.Local
	}
	return &OverdueService{DB: db, Issues: is, Loc: loc}
}

// Promote moves every issued record whose expected return instant is before
// now into the overdue collection, and returns how many moved. Records with
// no deadline never move; an unparseable deadline counts as no deadline.
func (s *OverdueService) Promote(now time.Time) (int, error) {
	issued, err := s.Issues.ListIssued()
	if err != nil {
		return 0, err
	}

	var due []string
	for _, rec := range issued {
		deadline, ok := s.deadline(rec.IssueTime, rec.ExpectedReturnTime)
		if !ok {
			continue
		}
		if now.After(deadline) {
			due = append(due, rec.ID)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range due {
		if err := s.Issues.PromoteTx(tx, id); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(due), nil
}

// deadline resolves an HH:MM wall clock against the issue timestamp's
// calendar date in the service's location.
func (s *OverdueService) deadline(issueTime, expectedReturn string) (time.Time, bool) {
	if expectedReturn == "" {
		return time.Time{}, false
	}
	issued, err := time.Parse(time.RFC3339, issueTime)
	if err != nil {
		return time.Time{}, false
	}
	hm, err := time.Parse("15:04", expectedReturn)
	if err != nil {
		return time.Time{}, false
	}
	d := issued.In(s.Loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hm.Hour(), hm.Minute(), 0, 0, s.Loc), true
}
