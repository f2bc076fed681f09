package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo equipment if the store is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Main and issue-counter inventories. A row lives in exactly one partition;
-- the same equipment id may appear once per partition while stock is split.
CREATE TABLE IF NOT EXISTS equipment(
  id TEXT NOT NULL,
  inventory TEXT NOT NULL CHECK (inventory IN ('main','counter')),
  name TEXT NOT NULL,
  sport_type TEXT NOT NULL,
  category TEXT DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 0),
  condition TEXT NOT NULL CHECK (condition IN ('New','Good','Fair','Poor')),
  equipment_type TEXT NOT NULL CHECK (equipment_type IN ('consumable','non-consumable')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT '',
  PRIMARY KEY(id, inventory)
);
CREATE INDEX IF NOT EXISTS idx_equipment_inventory ON equipment(inventory);
CREATE INDEX IF NOT EXISTS idx_equipment_sport     ON equipment(sport_type);

-- Stock removed from circulation. Append-only.
CREATE TABLE IF NOT EXISTS damaged_equipment(
  id TEXT PRIMARY KEY,
  equipment_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sport_type TEXT NOT NULL,
  category TEXT DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  condition TEXT NOT NULL,
  equipment_type TEXT NOT NULL,
  original_inventory TEXT NOT NULL CHECK (original_inventory IN ('main','counter')),
  damaged_date TEXT NOT NULL
);

-- Live issue records; rows migrate to overdue_equipment when the expected
-- return instant passes, and to logs on return.
CREATE TABLE IF NOT EXISTS issued_equipment(
  id TEXT PRIMARY KEY,
  equipment_id TEXT NOT NULL,
  equipment_name TEXT NOT NULL,
  sport_type TEXT NOT NULL,
  category TEXT DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  student_name TEXT NOT NULL,
  registration_number TEXT NOT NULL,
  branch TEXT NOT NULL,
  issue_time TEXT NOT NULL,
  expected_return_time TEXT DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_issued_branch ON issued_equipment(branch);

CREATE TABLE IF NOT EXISTS overdue_equipment(
  id TEXT PRIMARY KEY,
  equipment_id TEXT NOT NULL,
  equipment_name TEXT NOT NULL,
  sport_type TEXT NOT NULL,
  category TEXT DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  student_name TEXT NOT NULL,
  registration_number TEXT NOT NULL,
  branch TEXT NOT NULL,
  issue_time TEXT NOT NULL,
  expected_return_time TEXT DEFAULT ''
);

-- Historical ledger. Never mutated or deleted by normal flow.
CREATE TABLE IF NOT EXISTS logs(
  id TEXT PRIMARY KEY,
  equipment_id TEXT NOT NULL,
  equipment_name TEXT NOT NULL,
  sport_type TEXT NOT NULL,
  category TEXT DEFAULT '',
  quantity INTEGER NOT NULL,
  student_name TEXT NOT NULL,
  registration_number TEXT NOT NULL,
  branch TEXT NOT NULL,
  issue_time TEXT NOT NULL,
  expected_return_time TEXT DEFAULT '',
  return_time TEXT NOT NULL,
  was_overdue INTEGER NOT NULL DEFAULT 0
);

-- Student borrow requests (pending -> approved | denied, terminal)
CREATE TABLE IF NOT EXISTS equipment_requests(
  id TEXT PRIMARY KEY,
  equipment_id TEXT NOT NULL,
  equipment_name TEXT NOT NULL,
  sport_type TEXT NOT NULL,
  category TEXT DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  student_name TEXT NOT NULL,
  registration_number TEXT NOT NULL,
  branch TEXT NOT NULL,
  purpose TEXT NOT NULL,
  expected_return_time TEXT NOT NULL,
  request_time TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','denied')),
  decided_by TEXT DEFAULT '',
  decided_time TEXT DEFAULT '',
  denial_reason TEXT DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_requests_status ON equipment_requests(status);

-- Manager requests to move main stock to the issue counter (admin decides)
CREATE TABLE IF NOT EXISTS move_requests(
  id TEXT PRIMARY KEY,
  equipment_id TEXT NOT NULL,
  equipment_name TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  reason TEXT DEFAULT '',
  requested_by TEXT NOT NULL,
  request_time TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected')),
  decided_by TEXT DEFAULT '',
  decided_time TEXT DEFAULT '',
  rejection_reason TEXT DEFAULT ''
);

-- Accounts & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  email TEXT DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('admin','manager','student')),
  registration_number TEXT DEFAULT '',
  branch TEXT DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_regno ON users(registration_number) WHERE registration_number != '';

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Sport selection feedback
CREATE TABLE IF NOT EXISTS feedback(
  id TEXT PRIMARY KEY,
  student_name TEXT NOT NULL,
  registration_number TEXT NOT NULL,
  sport_type TEXT NOT NULL,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comments TEXT DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','in-progress','resolved')),
  submitted_at TEXT NOT NULL
);

-- Procurement intake. Cost columns hold decimal strings; money never enters
-- the quantity ledger.
CREATE TABLE IF NOT EXISTS procurement_entries(
  id TEXT PRIMARY KEY,
  serial_number TEXT NOT NULL,
  description TEXT NOT NULL,
  sport TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  cost_per_article TEXT NOT NULL,
  total_value TEXT NOT NULL,
  supplier_info TEXT DEFAULT '',
  bill_particulars TEXT DEFAULT '',
  procurement_date TEXT DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS previous_year_purchases(
  equipment_id TEXT PRIMARY KEY,
  equipment_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  brand TEXT DEFAULT '',
  purchase_date TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM equipment`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo equipment")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO equipment(id,inventory,name,sport_type,category,quantity,condition,equipment_type) VALUES
	  ('eq-basketball','main','Basketball','Basketball','Match Ball',10,'New','consumable'),
	  ('eq-cricket-bat','main','Cricket Bat','Cricket','',6,'Good','non-consumable'),
	  ('eq-shuttlecock','main','Shuttlecock Tube','Badminton','Feather',12,'New','consumable'),
	  ('eq-tt-racket','main','Table Tennis Racket','Table Tennis','',8,'Good','non-consumable')`)

	return tx.Commit()
}

// seedUsers ensures the admin, one manager and two students exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Name, Email, Role, RegNo, Branch, Hash string
	}
	mk := func(id, username, name, email, role, regNo, branch, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Username: username, Name: name, Email: email, Role: role, RegNo: regNo, Branch: branch, Hash: string(h)}
	}

	users := []u{
		mk("u-admin", "admin", "System Administrator", "gymkhana@kletech.ac.in", "admin", "", "", "Admin123!"),
		mk("u-manager", "manager1", "Equipment Manager", "manager@kletech.ac.in", "manager", "", "", "Manager123!"),
		mk("u-priya", "priya", "Priya Kulkarni", "priya@kletech.ac.in", "student", "01FE21BCS101", "Computer Science", "Student123!"),
		mk("u-rahul", "rahul", "Rahul Desai", "rahul@kletech.ac.in", "student", "01FE21BME042", "Mechanical", "Student123!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,name,email,password_hash,role,registration_number,branch)
			VALUES(?,?,?,?,?,?,?,?)
			ON CONFLICT(username) DO NOTHING
		`, x.ID, x.Username, x.Name, x.Email, x.Hash, x.Role, x.RegNo, x.Branch); err != nil {
			return err
		}
	}

	return tx.Commit()
}
